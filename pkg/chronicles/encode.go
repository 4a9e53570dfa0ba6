package chronicles

import (
	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/problem"
	"github.com/gitrdm/lcp/pkg/smt"
)

// Encode emits every constraint family §4.7 describes for fp's
// instances into driver: interval coherence, effect-coherence (mutex),
// condition support, table constraints, order constraints, and
// (per policy) symmetry breaking. Every Leq/Eq/And atom it builds is
// routed through driver.Bind so the STN theory (or the default Boolean
// encoder) actually enforces it — building the literal alone, via
// model.Model.Leq/Eq, would only intern the expression.
func Encode(fp *problem.FiniteProblem, driver *smt.Driver, policy SymmetryPolicy) error {
	bd := newBinder(driver)

	for _, c := range fp.Chronicles {
		if c.Origin.Kind == problem.Original {
			bd.clause(c.Presence)
		}
	}

	effects := allEffects(fp)

	encodeIntervalCoherence(fp, bd)
	encodeEffectCoherence(effects, bd)
	encodeConditionSupport(fp, effects, bd)
	encodeTableConstraints(fp, bd)
	encodeOrderConstraints(fp, bd)

	if bd.err == nil && policy != nil {
		policy.Apply(fp, bd)
	}

	return bd.err
}

type effectRef struct {
	chronicle *problem.ChronicleInstance
	effect    *problem.Effect
}

func allEffects(fp *problem.FiniteProblem) []effectRef {
	var refs []effectRef
	for _, c := range fp.Chronicles {
		for i := range c.Effects {
			refs = append(refs, effectRef{chronicle: c, effect: &c.Effects[i]})
		}
	}
	return refs
}

// encodeIntervalCoherence implements §4.7.1: every condition's start
// precedes its end, and every effect's transition start precedes its
// persistence start which in turn precedes its (fresh) eff_end.
func encodeIntervalCoherence(fp *problem.FiniteProblem, bd *binder) {
	for _, c := range fp.Chronicles {
		for _, cond := range c.Conditions {
			bd.clause(bd.leq(cond.Start, cond.End))
		}
		for i := range c.Effects {
			e := &c.Effects[i]
			bd.clause(bd.leq(e.TransitionStart, e.PersistenceStart))
			bd.clause(bd.leq(e.PersistenceStart, model.IntAtom(e.EffEnd)))
		}
	}
}

// encodeEffectCoherence implements §4.7.2: every ordered pair of effects
// with unifiable state-variable signatures gets a mutex clause
// separating them in time or by a disequal state-variable position,
// guarded by both chronicles' presence literals.
func encodeEffectCoherence(effects []effectRef, bd *binder) {
	for i := 0; i < len(effects); i++ {
		for j := i + 1; j < len(effects); j++ {
			ei, ej := effects[i], effects[j]
			ok, diseq := unifiableSignature(ei.effect.StateVar, ej.effect.StateVar)
			if !ok {
				continue
			}
			lits := []model.Literal{
				ei.chronicle.Presence.Negate(),
				ej.chronicle.Presence.Negate(),
			}
			for _, k := range diseq {
				lits = append(lits, bd.neq(ei.effect.StateVar[k], ej.effect.StateVar[k]))
			}
			lits = append(lits,
				bd.leq(model.IntAtom(ej.effect.EffEnd), ei.effect.TransitionStart),
				bd.leq(model.IntAtom(ei.effect.EffEnd), ej.effect.TransitionStart),
			)
			bd.clause(lits...)
		}
	}
}

// encodeConditionSupport implements §4.7.3: every condition is either
// absent or justified by at least one unifiable, present effect whose
// persistence interval covers it and whose value matches.
func encodeConditionSupport(fp *problem.FiniteProblem, effects []effectRef, bd *binder) {
	for _, c := range fp.Chronicles {
		for ci := range c.Conditions {
			cond := &c.Conditions[ci]
			options := make([]model.Literal, 0, len(effects))
			for _, er := range effects {
				eff := er.effect
				svOK, svDiseq := unifiableSignature(cond.StateVar, eff.StateVar)
				if !svOK {
					continue
				}
				valEq, valNever := compareAtoms(cond.Value, eff.Value)
				if valNever {
					continue
				}

				conj := make([]model.Literal, 0, len(svDiseq)+4)
				conj = append(conj, er.chronicle.Presence)
				for _, k := range svDiseq {
					conj = append(conj, bd.eq(cond.StateVar[k], eff.StateVar[k]))
				}
				if !valEq {
					conj = append(conj, bd.eq(cond.Value, eff.Value))
				}
				conj = append(conj,
					bd.leq(eff.PersistenceStart, cond.Start),
					bd.leq(cond.End, model.IntAtom(eff.EffEnd)),
				)
				options = append(options, bd.and(conj))
			}
			lits := append([]model.Literal{c.Presence.Negate()}, options...)
			bd.clause(lits...)
		}
	}
}

// encodeTableConstraints implements §4.7.4: InTable constraints become
// "presence implies one of the table's rows matches" clauses.
func encodeTableConstraints(fp *problem.FiniteProblem, bd *binder) {
	for _, c := range fp.Chronicles {
		for _, cons := range c.Constraints {
			if cons.Kind != problem.InTable {
				continue
			}
			if int(cons.TableID) >= len(fp.Tables) {
				bd.fail(ErrArityMismatch)
				return
			}
			table := fp.Tables[cons.TableID]
			lines := make([]model.Literal, 0, len(table.Rows))
			for _, row := range table.Rows {
				conj := make([]model.Literal, 0, len(cons.Vars))
				for k, v := range cons.Vars {
					conj = append(conj, bd.eq(v, row[k]))
				}
				lines = append(lines, bd.and(conj))
			}
			lits := append([]model.Literal{c.Presence.Negate()}, lines...)
			bd.clause(lits...)
		}
	}
}

// encodeOrderConstraints implements §4.7.5: LT/EQ/NEQ constraints assert
// their atom relationship unconditionally.
func encodeOrderConstraints(fp *problem.FiniteProblem, bd *binder) {
	for _, c := range fp.Chronicles {
		for _, cons := range c.Constraints {
			switch cons.Kind {
			case problem.LT:
				bd.clause(bd.lt(cons.Vars[0], cons.Vars[1]))
			case problem.EQ:
				bd.clause(bd.eq(cons.Vars[0], cons.Vars[1]))
			case problem.NEQ:
				bd.clause(bd.neq(cons.Vars[0], cons.Vars[1]))
			}
		}
	}
}
