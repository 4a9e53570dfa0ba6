// Package problem defines the post-parse value types the core consumes:
// the raw, template-level Problem the out-of-scope parser produces, and
// the FiniteProblem a finitization pass instantiates from it (§3
// "Chronicle entities (finitized)", §6.4).
package problem

import "github.com/gitrdm/lcp/pkg/model"

// TemplateID indexes a chronicle template within a Problem.
type TemplateID uint32

// ParamKind tags which domain a template parameter is freshened into at
// instantiation time (§4.7 "freshen its parameters (bool_var, int_var(lb,ub),
// sym_var(type))").
type ParamKind uint8

const (
	ParamBool ParamKind = iota
	ParamInt
	// ParamSym is a symbol-valued parameter; its domain is an integer
	// range over symbol ids already resolved by the out-of-scope parser
	// (the core's Atom union has no variable-symbolic kind distinct from
	// AtomInt — see TemplateAtom.Resolve).
	ParamSym
)

// Parameter describes one slot in a ChronicleTemplate's parameter list.
type Parameter struct {
	Kind ParamKind
	LB, UB int32
	Type   model.TypeID
	Name   string
}

// ParamRef references a Parameter by position within its owning template.
type ParamRef uint32

// TemplateAtom is either a ground model.Atom (fully known before
// instantiation — a constant or a fixed symbol) or a reference to one of
// the template's own parameters, optionally shifted/scaled, resolved to a
// concrete model.Atom once the parameter has been freshened.
type TemplateAtom struct {
	IsParam bool
	Param   ParamRef
	Ground  model.Atom
	Coeff   int32
	Cst     int32
}

// GroundTemplateAtom wraps an already-concrete atom (no substitution
// needed at instantiation time).
func GroundTemplateAtom(a model.Atom) TemplateAtom { return TemplateAtom{Ground: a} }

// ParamAtom references parameter p directly (coefficient 1, no offset).
func ParamAtom(p ParamRef) TemplateAtom { return TemplateAtom{IsParam: true, Param: p, Coeff: 1} }

// Plus returns t shifted by k, applied after substitution.
func (t TemplateAtom) Plus(k int32) TemplateAtom {
	t.Cst += k
	return t
}

// Scale returns t scaled by k, applied after substitution.
func (t TemplateAtom) Scale(k int32) TemplateAtom {
	t.Coeff *= k
	t.Cst *= k
	return t
}

// Resolve substitutes t's parameter reference (if any) with the concrete
// atom freshened for this instance, applying any accumulated linear
// transform; ground atoms pass through unchanged.
func (t TemplateAtom) Resolve(params []model.Atom) model.Atom {
	if !t.IsParam {
		return t.Ground
	}
	a := params[t.Param]
	if t.Coeff != 1 {
		a = a.Scale(t.Coeff)
	}
	if t.Cst != 0 {
		a = a.Plus(t.Cst)
	}
	return a
}

// ConditionTemplate is a condition before substitution (§3 "Condition").
type ConditionTemplate struct {
	Start, End TemplateAtom
	StateVar   []TemplateAtom
	Value      TemplateAtom
}

// EffectTemplate is an effect before substitution (§3 "Effect").
type EffectTemplate struct {
	TransitionStart, PersistenceStart TemplateAtom
	StateVar                         []TemplateAtom
	Value                             TemplateAtom
}

// ConstraintKind tags a chronicle-level Constraint's shape (§3
// "Constraint: InTable{table_id} | LT | EQ | NEQ").
type ConstraintKind uint8

const (
	InTable ConstraintKind = iota
	LT
	EQ
	NEQ
)

// ConstraintTemplate is a Constraint before substitution.
type ConstraintTemplate struct {
	Kind    ConstraintKind
	TableID uint32
	Vars    []TemplateAtom
}

// ChronicleTemplate is a timed-action template: a parameter list plus
// conditions/effects/constraints expressed over TemplateAtoms referencing
// those parameters, instantiated `n` times during finitization (§4.7).
type ChronicleTemplate struct {
	ID         TemplateID
	Name       string
	Parameters []Parameter

	// Presence, Start, End reference this template's own Parameters —
	// every chronicle needs a presence Boolean and start/end timepoints,
	// so templates declare them as ordinary parameters rather than a
	// separate mechanism.
	Presence ParamRef
	Start    ParamRef
	End      ParamRef

	Conditions  []ConditionTemplate
	Effects     []EffectTemplate
	Constraints []ConstraintTemplate
}
