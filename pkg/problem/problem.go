package problem

import "github.com/gitrdm/lcp/pkg/model"

// Table is a fixed-arity set of rows the planner's table constraints
// range over (§3 "Table", §6.5 — typed per column, not bare integers).
type Table struct {
	Types []model.TypeID
	Rows  [][]model.Atom
}

// Problem is the post-parse structure the out-of-scope PDDL frontend
// hands to this core: an initial chronicle template (instantiated
// exactly once, with Original origin) plus a set of free-action
// templates finitization may instantiate any number of times, and the
// tables any InTable constraint references.
type Problem struct {
	InitialChronicle ChronicleTemplate
	Templates        []ChronicleTemplate
	Tables           []Table

	// HorizonUB bounds the HORIZON variable every finitized problem's
	// timepoints are scoped within (§3 "eff_end(e) is a fresh integer
	// variable in [ORIGIN, HORIZON]").
	HorizonUB int32
}

// FiniteProblem is a Problem with a fixed number of instances per
// template already generated — the chronicle encoder's input (§4.7
// "Inputs: a FiniteProblem (model, origin, horizon, chronicles, tables)
// already populated with template instances").
type FiniteProblem struct {
	Model   *model.Model
	Origin  model.IVar
	Horizon model.IVar

	Chronicles []*ChronicleInstance
	Tables     []Table
}
