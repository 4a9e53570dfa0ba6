package stn

import (
	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/sat"
	"github.com/gitrdm/lcp/pkg/smt"
	"go.uber.org/zap"
)

// DiffLogicTheory adapts an STN into the smt.Theory contract, the Go
// counterpart of original_source/tnet/src/stn.rs's DiffLogicTheory /
// Theory impl: it claims Leq and Eq expressions over integer atoms,
// maps each IVar lazily onto a Timepoint, and mirrors the STN's own
// save/restore onto the driver's lockstep.
type DiffLogicTheory struct {
	stn *STN

	timepoints map[model.IVar]Timepoint
	ivars      map[Timepoint]model.IVar

	litOfEdge  map[EdgeID]model.Literal
	edgesOfLit map[model.Literal][]EdgeID
}

// NewDiffLogicTheory creates an empty STN-backed theory.
func NewDiffLogicTheory(log *zap.SugaredLogger) *DiffLogicTheory {
	return &DiffLogicTheory{
		stn:        New(log),
		timepoints: make(map[model.IVar]Timepoint),
		ivars:      make(map[Timepoint]model.IVar),
		litOfEdge:  make(map[EdgeID]model.Literal),
		edgesOfLit: make(map[model.Literal][]EdgeID),
	}
}

// STN exposes the underlying network.
func (t *DiffLogicTheory) STN() *STN { return t.stn }

func (t *DiffLogicTheory) timepointFor(v model.IVar, m *model.Model) Timepoint {
	if tp, ok := t.timepoints[v]; ok {
		return tp
	}
	d := m.Domain(v)
	tp := t.stn.AddTimepoint(d.LB, d.UB)
	t.timepoints[v] = tp
	t.ivars[tp] = v
	return tp
}

// atomEndpoint reduces an atom to (timepoint, constant offset): a.Var+a.Cst
// for a unit-coefficient integer atom, or (Origin, a.Cst) for a constant.
// The second return is false for anything the STN cannot represent
// (non-unit coefficients, Boolean/symbolic atoms), letting Bind answer
// Unsupported instead of misrepresenting the constraint.
func (t *DiffLogicTheory) atomEndpoint(a model.Atom, m *model.Model) (Timepoint, int32, bool) {
	switch a.Kind {
	case model.AtomConst:
		return Origin, a.Cst, true
	case model.AtomInt:
		if a.Coeff != 1 {
			return 0, 0, false
		}
		return t.timepointFor(a.Var, m), a.Cst, true
	default:
		return 0, 0, false
	}
}

func (t *DiffLogicTheory) bindLiteral(lit model.Literal, id EdgeID) {
	t.litOfEdge[id] = lit
	t.edgesOfLit[lit] = append(t.edgesOfLit[lit], id)

	negID := EdgeID{BaseID: id.BaseID, Negated: !id.Negated}
	negLit := lit.Negate()
	t.litOfEdge[negID] = negLit
	t.edgesOfLit[negLit] = append(t.edgesOfLit[negLit], negID)
}

// Bind implements smt.Theory. It enforces `a <= b` directly as a
// difference-logic edge; `a == b` is refined into `a<=b AND b<=a` and
// pushed back to the driver as three sub-bindings (one per Leq literal,
// plus lit to their And), the same decomposition original_source's
// Fun::Eq arm performs.
func (t *DiffLogicTheory) Bind(lit model.Literal, expr model.ExprHandle, m *model.Model, queue *smt.BindingQueue) smt.BindingResult {
	e := m.LookupExpr(expr)
	switch e.Kind {
	case model.ExprLeq:
		tpA, offA, okA := t.atomEndpoint(e.A, m)
		tpB, offB, okB := t.atomEndpoint(e.B, m)
		if !okA || !okB {
			return smt.Unsupported
		}
		// a <= b  <=>  tpA+offA <= tpB+offB  <=>  tpA - tpB <= offB-offA
		weight := offB - offA
		id, _ := t.stn.RecordConstraint(tpB, tpA, weight)
		t.bindLiteral(lit, id)
		return smt.Enforced

	case model.ExprEq:
		leqLit, leqHandle := m.LeqH(e.A, e.B)
		geqLit, geqHandle := m.LeqH(e.B, e.A)
		_, andHandle := m.InternExprWith(
			model.Expr{Kind: model.ExprAnd, Args: []model.Literal{leqLit, geqLit}},
			func() model.Literal { return model.Lit(m.NewBVar("eq_and")) },
		)
		queue.Push(smt.Binding{Lit: leqLit, Expr: leqHandle})
		queue.Push(smt.Binding{Lit: geqLit, Expr: geqHandle})
		queue.Push(smt.Binding{Lit: lit, Expr: andHandle})
		return smt.Refined

	default:
		return smt.Unsupported
	}
}

// Propagate implements smt.Theory: it activates every edge bound to a
// newly assigned literal, runs Cesta96 propagation, and mirrors any
// tightened timepoint bound back onto the shared model.
func (t *DiffLogicTheory) Propagate(events []model.Literal, m *model.Model) smt.TheoryResult {
	for _, lit := range events {
		for _, id := range t.edgesOfLit[lit] {
			t.stn.MarkActive(id)
		}
	}

	ok, explanation, changed := t.stn.PropagateAll()
	if !ok {
		clause := make(sat.Clause, 0, len(explanation))
		for _, id := range explanation {
			if lit, found := t.litOfEdge[id]; found {
				clause = append(clause, lit.Negate())
			}
		}
		return smt.Contradiction(clause)
	}

	for _, tp := range changed {
		v, ok := t.ivars[tp]
		if !ok {
			continue
		}
		cause := model.Cause{Theory: "stn"}
		if err := m.SetLB(v, t.stn.LB(tp), cause); err != nil {
			return smt.Contradiction(nil)
		}
		if err := m.SetUB(v, t.stn.UB(tp), cause); err != nil {
			return smt.Contradiction(nil)
		}
	}
	return smt.ConsistentResult()
}

// NumSaved implements backtrack.Saver.
func (t *DiffLogicTheory) NumSaved() int { return t.stn.NumSaved() }

// SaveState implements smt.Theory.
func (t *DiffLogicTheory) SaveState() int { return t.stn.SaveState() }

// RestoreLast implements smt.Theory.
func (t *DiffLogicTheory) RestoreLast() { t.stn.RestoreLast() }

// Restore implements smt.Theory.
func (t *DiffLogicTheory) Restore(level int) { t.stn.Restore(level) }
