// Package backtrack implements the checkpointed event trail every
// backtrackable component (model, brancher, STN theory) is built on top
// of (§4.1). A Trail is a typed, append-only event log with level marks;
// restoring a level pops events in LIFO order, undoing each one through a
// caller-supplied function.
package backtrack

// Trail is a generic backtrackable event queue. E is the event type a
// given component records (domain-narrowing events for the model,
// forward/backward distance updates for the STN, and so on).
type Trail[E any] struct {
	events []E
	marks  []int
}

// NewTrail creates an empty trail.
func NewTrail[E any]() *Trail[E] {
	return &Trail[E]{}
}

// Push appends an event to the trail. Events pushed before the first
// Save() belong to decision level 0 and are never undone by RestoreLast.
func (t *Trail[E]) Push(e E) {
	t.events = append(t.events, e)
}

// Save records a checkpoint at the current trail length and returns the
// new level (the number of checkpoints now saved, i.e. NumSaved()).
func (t *Trail[E]) Save() int {
	t.marks = append(t.marks, len(t.events))
	return len(t.marks)
}

// NumSaved returns how many checkpoints are currently on the mark stack.
func (t *Trail[E]) NumSaved() int {
	return len(t.marks)
}

// Len returns the number of events currently on the trail. Events undone
// by RestoreLast/RestoreLastWith are dropped and no longer counted.
func (t *Trail[E]) Len() int {
	return len(t.events)
}

// RestoreLastWith pops events in LIFO order, calling undo on each, until
// the most recent level mark is reached and removed. A no-op if no level
// is currently saved.
func (t *Trail[E]) RestoreLastWith(undo func(E)) {
	if len(t.marks) == 0 {
		return
	}
	mark := t.marks[len(t.marks)-1]
	t.marks = t.marks[:len(t.marks)-1]
	for len(t.events) > mark {
		e := t.events[len(t.events)-1]
		t.events = t.events[:len(t.events)-1]
		undo(e)
	}
}

// RestoreWith pops level marks down to (and including undoing past) the
// given level, in order from the most recent mark backward. Calling
// RestoreWith(0, undo) undoes everything ever saved.
func (t *Trail[E]) RestoreWith(level int, undo func(E)) {
	for len(t.marks) > level {
		t.RestoreLastWith(undo)
	}
}

// EventsSince returns a view of the events recorded at or after the
// given trail offset, without consuming them. Used to extract a lazy
// sequence of updates produced by a single propagation call (§4.5) —
// callers capture Len() before propagating and pass it as since.
func (t *Trail[E]) EventsSince(since int) []E {
	return t.events[since:]
}

// Saver is the minimal capability a component exposes so the driver can
// check that paired trails stay at equal depth (§4.1, §5).
type Saver interface {
	NumSaved() int
}

// AssertSameDepth panics if any two of the given components disagree on
// how many levels they have saved. The SMT driver calls this after every
// save_state/restore in debug builds to catch a component falling out of
// lockstep with its siblings.
func AssertSameDepth(components ...Saver) {
	if len(components) == 0 {
		return
	}
	want := components[0].NumSaved()
	for _, c := range components[1:] {
		if c.NumSaved() != want {
			panic("backtrack: paired trails diverged in depth")
		}
	}
}
