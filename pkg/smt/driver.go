package smt

import (
	"fmt"

	"github.com/gitrdm/lcp/internal/config"
	"github.com/gitrdm/lcp/pkg/backtrack"
	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/sat"
	"go.uber.org/zap"
)

// Driver owns a Model, a Boolean Reasoner, a Brancher, and zero or more
// theories, and coordinates backtracking between them in strict lockstep
// (§5).
type Driver struct {
	m *model.Model
	r *sat.Reasoner
	b *sat.Brancher

	theories       []Theory
	theoryEventPos []int

	stats sat.Stats

	log *zap.SugaredLogger
}

// New wires a driver around an already-constructed model, reasoner, and
// brancher. Theories are added afterwards with RegisterTheory.
func New(m *model.Model, r *sat.Reasoner, b *sat.Brancher, log *zap.SugaredLogger) *Driver {
	return &Driver{m: m, r: r, b: b, log: log}
}

// RegisterTheory adds t to the set the driver propagates and
// backtracks in lockstep with every other component.
func (d *Driver) RegisterTheory(t Theory) {
	d.theories = append(d.theories, t)
	d.theoryEventPos = append(d.theoryEventPos, 0)
}

// Bind dispatches expr (already associated with lit) to the first
// registered theory that claims it, draining any sub-bindings the theory
// pushes back onto the queue. An expression no theory claims goes to the
// default Tseitin encoder in default.go; Bind returns an error only when
// that encoder has no encoding for the expression's kind either.
func (d *Driver) Bind(lit model.Literal, expr model.ExprHandle) error {
	q := &BindingQueue{}
	q.Push(Binding{Lit: lit, Expr: expr})
	for {
		b, ok := q.pop()
		if !ok {
			return nil
		}
		claimed := false
		for _, t := range d.theories {
			switch t.Bind(b.Lit, b.Expr, d.m, q) {
			case Enforced, Refined:
				claimed = true
			}
			if claimed {
				break
			}
		}
		if claimed {
			continue
		}
		if err := d.clausifyDefault(b.Lit, b.Expr); err != nil {
			return err
		}
	}
}

// saveStateAll opens a new backtracking level on every component.
func (d *Driver) saveStateAll() int {
	lvl := d.m.SaveState()
	d.r.SaveState()
	d.b.SaveState()
	for _, t := range d.theories {
		t.SaveState()
	}
	d.assertLockstep()
	return lvl
}

// restoreAll undoes every component down to (not including) level.
func (d *Driver) restoreAll(level int) {
	d.m.Restore(level)
	d.r.Restore(level)
	d.b.Restore(level)
	for _, t := range d.theories {
		t.Restore(level)
	}
	d.assertLockstep()
}

// assertLockstep is the §5 debug_assert that all num_saved agree,
// gated by internal/config.DebugAssertions so a release-profile caller
// can skip the overhead of scanning every theory on each backtrack.
func (d *Driver) assertLockstep() {
	if !config.DebugAssertions {
		return
	}
	components := make([]backtrack.Saver, 0, 3+len(d.theories))
	components = append(components, d.m, d.r, d.b)
	for _, t := range d.theories {
		components = append(components, t)
	}
	backtrack.AssertSameDepth(components...)
}

// propagateTheories pulls newly assigned literals into every theory in
// registration order, stopping at the first contradiction (§4.6 step 1).
func (d *Driver) propagateTheories() (sat.Clause, bool) {
	order := d.r.Order()
	for i, t := range d.theories {
		pos := d.theoryEventPos[i]
		if pos >= len(order) {
			continue
		}
		events := order[pos:]
		d.theoryEventPos[i] = len(order)
		res := t.Propagate(events, d.m)
		if !res.Consistent {
			return res.Learnt, true
		}
	}
	return nil, false
}

// resolveConflict runs 1-UIP analysis on conflict, backjumps every
// component to the computed level, and asserts the learnt clause.
// Returns false when the conflict is unresolvable (proven UNSAT).
func (d *Driver) resolveConflict(conflict sat.Clause) bool {
	if d.r.CurrentLevel() == 0 {
		return false
	}
	learnt, level := d.r.Analyze(conflict)
	d.restoreAll(level)
	d.rewindEventCursors()
	if _, err := d.r.AddClause(learnt); err != nil {
		return false
	}
	d.stats.NumConflicts++
	d.b.Decay()
	return true
}

// rewindEventCursors clamps each theory's "already delivered" cursor so it
// never exceeds the reasoner's order length. Must be called after
// restoreAll, once Reasoner.RestoreLast has actually truncated r.order —
// calling it first would read the pre-backtrack (longer) length and leave
// every cursor stale, making propagateTheories silently skip all literals
// assigned on the new search path until len(order) regrows past the old
// high-water mark.
func (d *Driver) rewindEventCursors() {
	n := len(d.r.Order())
	for i, pos := range d.theoryEventPos {
		if pos > n {
			d.theoryEventPos[i] = n
		}
	}
}

// Solve runs the §4.6 decision loop to completion, returning true if a
// satisfying assignment was found (left installed in the model) and
// false if the formula is unsatisfiable under the constraints added so
// far.
func (d *Driver) Solve() bool {
	for {
		if conflict, hasConflict := d.propagateTheories(); hasConflict {
			if !d.resolveConflict(conflict) {
				return false
			}
			continue
		}

		conflict, hasConflict := d.r.Propagate()
		if hasConflict {
			if !d.resolveConflict(conflict) {
				return false
			}
			continue
		}

		// Literals that unit propagation just assigned reach every theory
		// before the next decision or before a model is reported.
		undelivered := false
		for _, pos := range d.theoryEventPos {
			if pos < len(d.r.Order()) {
				undelivered = true
			}
		}
		if undelivered {
			continue
		}

		decision := d.b.NextDecision(d.stats)
		switch decision.Kind {
		case sat.DecisionNone:
			return true
		case sat.DecisionRestart:
			d.restoreAll(0)
			d.rewindEventCursors()
		case sat.DecisionSetLiteral:
			d.saveStateAll()
			if err := d.r.AssignDecision(decision.Lit); err != nil {
				if d.log != nil {
					d.log.Debugw("decision literal immediately contradicted existing bound", "lit", decision.Lit, "err", err)
				}
				if !d.resolveConflict(sat.Clause{decision.Lit.Negate()}) {
					return false
				}
			}
		}
	}
}
