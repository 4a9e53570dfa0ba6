// Package smt implements the driver of §4.6: the decision loop that
// interleaves Boolean propagation, theory propagation, conflict analysis,
// and backjumping over a shared Model.
package smt

import (
	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/sat"
)

// BindingResult is a theory's answer to a Bind request.
type BindingResult uint8

const (
	// Unsupported means the theory does not recognize the expression;
	// the driver should offer it to the next registered theory.
	Unsupported BindingResult = iota
	// Enforced means the theory will itself maintain lit ↔ expr.
	Enforced
	// Refined means the theory decomposed expr into sub-bindings it
	// pushed onto the queue; the driver must keep draining the queue.
	Refined
)

// Binding is one pending (literal, expression) pair awaiting a theory's
// claim.
type Binding struct {
	Lit  model.Literal
	Expr model.ExprHandle
}

// BindingQueue accumulates sub-bindings a theory produces while refining
// an expression it cannot directly enforce (e.g. Eq decomposed into two
// Leq bindings — see §4.6).
type BindingQueue struct {
	items []Binding
}

// Push enqueues a new binding to be dispatched.
func (q *BindingQueue) Push(b Binding) { q.items = append(q.items, b) }

func (q *BindingQueue) pop() (Binding, bool) {
	if len(q.items) == 0 {
		return Binding{}, false
	}
	b := q.items[0]
	q.items = q.items[1:]
	return b, true
}

// TheoryResult is a theory's answer to a Propagate call.
type TheoryResult struct {
	Consistent bool
	// Learnt is the explanation clause when Consistent is false: a
	// disjunction of negated causes sufficient to block the
	// contradiction from recurring.
	Learnt sat.Clause
}

// ConsistentResult builds a successful TheoryResult.
func ConsistentResult() TheoryResult { return TheoryResult{Consistent: true} }

// Contradiction builds a failing TheoryResult carrying its explanation.
func Contradiction(learnt sat.Clause) TheoryResult {
	return TheoryResult{Consistent: false, Learnt: learnt}
}

// Theory is the contract every registered reasoning module (currently
// only the STN) must satisfy (§4.6, §5).
type Theory interface {
	// Bind claims or refines an expression newly associated with lit.
	Bind(lit model.Literal, expr model.ExprHandle, m *model.Model, queue *BindingQueue) BindingResult
	// Propagate consumes literal assignments made since the last call
	// and tightens the model's integer domains accordingly.
	Propagate(events []model.Literal, m *model.Model) TheoryResult

	NumSaved() int
	SaveState() int
	RestoreLast()
	Restore(level int)
}
