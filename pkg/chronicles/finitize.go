// Package chronicles implements finitization (template instantiation)
// and the Boolean/difference-logic encoding of a finitized planning
// problem, per SPEC_FULL §4.7.
package chronicles

import (
	"fmt"

	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/problem"
	"go.uber.org/zap"
)

// ErrArityMismatch is returned when a Constraint or state-variable
// signature references more TemplateAtom parameters than the owning
// template declares — a bug in the upstream problem construction, fatal
// per §7 ("Invalid substitution").
var ErrArityMismatch = fmt.Errorf("chronicles: parameter reference out of range")

// Finitize builds a FiniteProblem from p: the initial chronicle is
// instantiated exactly once with Original origin, and each template in
// p.Templates is instantiated counts[tpl.ID] times with FreeAction
// origins (§4.7 "Template instantiation of n copies per template").
func Finitize(p *problem.Problem, counts map[problem.TemplateID]int, log *zap.SugaredLogger) (*problem.FiniteProblem, error) {
	m := model.New(log)
	origin := m.NewIVar(0, 0, "ORIGIN")
	horizon := m.NewIVar(0, p.HorizonUB, "HORIZON")

	fp := &problem.FiniteProblem{
		Model:   m,
		Origin:  origin,
		Horizon: horizon,
		Tables:  p.Tables,
	}

	initial, err := instantiate(m, &p.InitialChronicle, problem.OriginalOrigin(), p.HorizonUB)
	if err != nil {
		return nil, err
	}
	fp.Chronicles = append(fp.Chronicles, initial)

	for i := range p.Templates {
		tpl := &p.Templates[i]
		n := counts[tpl.ID]
		for inst := 0; inst < n; inst++ {
			c, err := instantiate(m, tpl, problem.FreeAction(tpl.ID, uint32(inst)), p.HorizonUB)
			if err != nil {
				return nil, err
			}
			fp.Chronicles = append(fp.Chronicles, c)
		}
	}

	return fp, nil
}

// instantiate freshens every parameter of tpl (one new model variable
// per Parameter, labelled with the origin so trail/debug output reads
// back to its source template+copy) and substitutes them through every
// condition, effect, and constraint.
func instantiate(m *model.Model, tpl *problem.ChronicleTemplate, origin problem.Origin, horizonUB int32) (*problem.ChronicleInstance, error) {
	prefix := originLabel(origin, tpl.Name)

	params := make([]model.Atom, len(tpl.Parameters))
	for i, p := range tpl.Parameters {
		label := fmt.Sprintf("%s.%s", prefix, p.Name)
		switch p.Kind {
		case problem.ParamBool:
			bv := m.NewBVar(label)
			params[i] = model.BoolAtom(model.Lit(bv))
		case problem.ParamInt, problem.ParamSym:
			iv := m.NewIVar(p.LB, p.UB, label)
			params[i] = model.IntAtom(iv)
		default:
			return nil, fmt.Errorf("chronicles: unknown parameter kind %v", p.Kind)
		}
	}

	if int(tpl.Presence) >= len(params) || int(tpl.Start) >= len(params) || int(tpl.End) >= len(params) {
		return nil, ErrArityMismatch
	}
	presenceAtom := params[tpl.Presence]
	if presenceAtom.Kind != model.AtomBool {
		return nil, fmt.Errorf("chronicles: template %q's Presence parameter is not boolean", tpl.Name)
	}
	startAtom, endAtom := params[tpl.Start], params[tpl.End]
	if startAtom.Kind != model.AtomInt || endAtom.Kind != model.AtomInt {
		return nil, fmt.Errorf("chronicles: template %q's Start/End parameters are not integer", tpl.Name)
	}

	conditions := make([]problem.Condition, len(tpl.Conditions))
	for i, ct := range tpl.Conditions {
		sv, err := resolveAll(ct.StateVar, params)
		if err != nil {
			return nil, err
		}
		conditions[i] = problem.Condition{
			Start:    ct.Start.Resolve(params),
			End:      ct.End.Resolve(params),
			StateVar: sv,
			Value:    ct.Value.Resolve(params),
		}
	}

	effects := make([]problem.Effect, len(tpl.Effects))
	for i, et := range tpl.Effects {
		sv, err := resolveAll(et.StateVar, params)
		if err != nil {
			return nil, err
		}
		effEnd := m.NewIVar(0, horizonUB, fmt.Sprintf("%s.eff_end[%d]", prefix, i))
		effects[i] = problem.Effect{
			TransitionStart:  et.TransitionStart.Resolve(params),
			PersistenceStart: et.PersistenceStart.Resolve(params),
			StateVar:         sv,
			Value:            et.Value.Resolve(params),
			EffEnd:           effEnd,
		}
	}

	constraints := make([]problem.Constraint, len(tpl.Constraints))
	for i, kt := range tpl.Constraints {
		vars, err := resolveAll(kt.Vars, params)
		if err != nil {
			return nil, err
		}
		constraints[i] = problem.Constraint{Kind: kt.Kind, TableID: kt.TableID, Vars: vars}
	}

	return &problem.ChronicleInstance{
		Origin:      origin,
		Name:        tpl.Name,
		Params:      displayParams(tpl, params),
		Presence:    presenceAtom.Lit,
		Start:       startAtom.Var,
		End:         endAtom.Var,
		Conditions:  conditions,
		Effects:     effects,
		Constraints: constraints,
	}, nil
}

func resolveAll(ts []problem.TemplateAtom, params []model.Atom) ([]model.Atom, error) {
	out := make([]model.Atom, len(ts))
	for i, t := range ts {
		if t.IsParam && int(t.Param) >= len(params) {
			return nil, ErrArityMismatch
		}
		out[i] = t.Resolve(params)
	}
	return out, nil
}

// displayParams drops the presence/start/end bookkeeping parameters from
// params, leaving only the ones a plan line should name (§6.3 "space
// separated symbolic name").
func displayParams(tpl *problem.ChronicleTemplate, params []model.Atom) []model.Atom {
	skip := map[problem.ParamRef]bool{tpl.Presence: true, tpl.Start: true, tpl.End: true}
	out := make([]model.Atom, 0, len(params))
	for i, a := range params {
		if skip[problem.ParamRef(i)] {
			continue
		}
		out = append(out, a)
	}
	return out
}

func originLabel(o problem.Origin, name string) string {
	if o.Kind == problem.Original {
		return "original." + name
	}
	return fmt.Sprintf("tpl%d.%d.%s", o.TemplateID, o.InstantiationID, name)
}
