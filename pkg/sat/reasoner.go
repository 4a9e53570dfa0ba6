package sat

import (
	"errors"

	"github.com/gitrdm/lcp/pkg/model"
	"go.uber.org/zap"
)

// ErrEmptyClause is returned by AddClause when the added clause has no
// literals — the formula is unconditionally false.
var ErrEmptyClause = errors.New("sat: empty clause added")

// Reasoner is the CDCL Boolean core described in §4.3. It owns the clause
// database and the watch lists, but delegates variable value storage to
// the shared *model.Model so §4.2's invariants stay single-sourced.
type Reasoner struct {
	m *model.Model

	clauses []Clause
	watch   map[model.Literal][]int

	order    []model.Literal          // assignment order, true-asserted form
	markTrail []int                    // order length at each decision level
	levelOf  map[model.BVar]int       // decision level a var was assigned at
	reasonOf map[model.Literal]Clause // antecedent clause for a propagated literal
	qhead    int

	log *zap.SugaredLogger
}

// New creates a Boolean reasoner writing assignments into m.
func New(m *model.Model, log *zap.SugaredLogger) *Reasoner {
	return &Reasoner{
		m:        m,
		watch:    make(map[model.Literal][]int),
		levelOf:  make(map[model.BVar]int),
		reasonOf: make(map[model.Literal]Clause),
		log:      log,
	}
}

// CurrentLevel returns the number of decision levels currently open.
func (r *Reasoner) CurrentLevel() int { return len(r.markTrail) }

// NumSaved implements backtrack.Saver.
func (r *Reasoner) NumSaved() int { return len(r.markTrail) }

// SaveState opens a new decision level in the reasoner's own bookkeeping.
// Must be called in lockstep with model.SaveState() and every registered
// theory's SaveState() (§5).
func (r *Reasoner) SaveState() int {
	r.markTrail = append(r.markTrail, len(r.order))
	return len(r.markTrail)
}

// RestoreLast undoes every assignment recorded since the last SaveState.
func (r *Reasoner) RestoreLast() {
	if len(r.markTrail) == 0 {
		return
	}
	mark := r.markTrail[len(r.markTrail)-1]
	r.markTrail = r.markTrail[:len(r.markTrail)-1]
	for i := len(r.order) - 1; i >= mark; i-- {
		lit := r.order[i]
		delete(r.levelOf, lit.Var)
		delete(r.reasonOf, lit)
	}
	r.order = r.order[:mark]
	if r.qhead > len(r.order) {
		r.qhead = len(r.order)
	}
}

// Restore undoes levels down to (not including) level.
func (r *Reasoner) Restore(level int) {
	for r.NumSaved() > level {
		r.RestoreLast()
	}
}

// AddClause registers a clause and sets up its initial two watches. A unit
// clause is propagated immediately; an empty clause returns ErrEmptyClause.
func (r *Reasoner) AddClause(c Clause) (int, error) {
	switch len(c) {
	case 0:
		return -1, ErrEmptyClause
	case 1:
		idx := len(r.clauses)
		r.clauses = append(r.clauses, c)
		if err := r.assign(c[0], -1); err != nil {
			return idx, err
		}
		return idx, nil
	default:
		idx := len(r.clauses)
		r.clauses = append(r.clauses, c)
		r.watch[c[0]] = append(r.watch[c[0]], idx)
		r.watch[c[1]] = append(r.watch[c[1]], idx)
		return idx, nil
	}
}

// AssignDecision assigns lit as a fresh decision (no antecedent clause).
// Callers must have already opened a new level via SaveState (on model,
// reasoner, and every theory) before calling this.
func (r *Reasoner) AssignDecision(lit model.Literal) error {
	return r.assign(lit, -1)
}

func (r *Reasoner) assign(lit model.Literal, reasonClause int) error {
	if err := r.m.Set(lit, model.Cause{Theory: "sat"}); err != nil {
		return err
	}
	r.order = append(r.order, lit)
	r.levelOf[lit.Var] = r.CurrentLevel()
	if reasonClause >= 0 {
		r.reasonOf[lit] = r.clauses[reasonClause]
	}
	return nil
}

// Propagate runs unit propagation to a fixed point. On conflict it returns
// the falsified clause and true; callers should feed that clause to
// Analyze. A nil clause and false means the fixed point was reached
// without conflict.
func (r *Reasoner) Propagate() (Clause, bool) {
	for r.qhead < len(r.order) {
		p := r.order[r.qhead]
		r.qhead++
		falsified := p.Negate()

		watchers := r.watch[falsified]
		kept := watchers[:0]
		for wi := 0; wi < len(watchers); wi++ {
			ci := watchers[wi]
			c := r.clauses[ci]

			if c[0] == falsified {
				c[0], c[1] = c[1], c[0]
			}
			blocker := c[0]
			if blocker != falsified && r.m.ValueOf(blocker) == model.True {
				kept = append(kept, ci)
				continue
			}

			movedWatch := false
			for k := 2; k < len(c); k++ {
				if r.m.ValueOf(c[k]) != model.False {
					c[1], c[k] = c[k], c[1]
					r.watch[c[1]] = append(r.watch[c[1]], ci)
					movedWatch = true
					break
				}
			}
			if movedWatch {
				continue
			}

			kept = append(kept, ci)
			if r.m.ValueOf(blocker) == model.False {
				r.watch[falsified] = append(kept, watchers[wi+1:]...)
				return c, true
			}
			if err := r.assign(blocker, ci); err != nil {
				r.watch[falsified] = append(kept, watchers[wi+1:]...)
				return c, true
			}
		}
		r.watch[falsified] = kept
	}
	return nil, false
}

// ValueOf reads the current value of a literal through the shared model.
func (r *Reasoner) ValueOf(l model.Literal) model.TriVal { return r.m.ValueOf(l) }

// Order returns the assignment trail, most recent last. Exposed for the
// brancher and the driver's model-extraction step.
func (r *Reasoner) Order() []model.Literal { return r.order }
