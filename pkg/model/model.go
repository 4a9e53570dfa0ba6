package model

import (
	"github.com/gitrdm/lcp/pkg/backtrack"
	"github.com/gitrdm/lcp/pkg/collections"
	"go.uber.org/zap"
)

// Cause identifies what triggered a domain tightening, for explanation
// purposes (the STN and the Boolean reasoner both stamp their own cause
// values when they call into the model).
type Cause struct {
	// Theory names the subsystem responsible ("stn", "sat", "encoder", ...).
	Theory string
	// Detail is a short, theory-specific tag (an edge id, a clause index).
	Detail string
}

// Contradiction is returned when a mutation would make the model
// inconsistent (opposite literal value already set, or a domain narrowed
// past empty).
type Contradiction struct {
	Cause Cause
	Msg   string
}

func (c *Contradiction) Error() string { return "model: contradiction: " + c.Msg }

// intEvent records a single IVar bound tightening, enough to undo it.
type intEvent struct {
	v          IVar
	prevLB     int32
	prevUB     int32
}

// litEvent records a single BVar assignment, enough to undo it.
type litEvent struct {
	v    BVar
	prev TriVal
}

// Model is the backtrackable variable store described in §4.2. It owns
// two paired trails (integer bound events and literal assignment events)
// that must always be at equal depth — see backtrack.AssertSameDepth,
// invoked from Model.SaveState and Model.RestoreLast.
type Model struct {
	ivars     *collections.RefStore[ivarData]
	litValues []TriVal

	intTrail *backtrack.Trail[intEvent]
	litTrail *backtrack.Trail[litEvent]

	exprs    *exprTable
	bindings map[ExprHandle]Literal

	trueVar, falseVar BVar

	log *zap.SugaredLogger
}

// New creates an empty model, pre-seeded with permanently-fixed true/false
// literals (see True/False). log may be zap.NewNop().Sugar() in tests.
func New(log *zap.SugaredLogger) *Model {
	m := &Model{
		ivars:     collections.NewRefStore[ivarData](256),
		litValues: make([]TriVal, 0, 256),
		intTrail:  backtrack.NewTrail[intEvent](),
		litTrail:  backtrack.NewTrail[litEvent](),
		exprs:     newExprTable(),
		bindings:  make(map[ExprHandle]Literal),
		log:       log,
	}
	m.bootstrapConstants()
	return m
}

// NewIVar appends a fresh integer variable with the given closed domain
// and debug label. Requires lb <= ub.
func (m *Model) NewIVar(lb, ub int32, label string) IVar {
	if lb > ub {
		panic("model: NewIVar requires lb <= ub")
	}
	r := m.ivars.Push(ivarData{Domain: Domain{LB: lb, UB: ub}, Label: label})
	m.litValues = append(m.litValues, Undef)
	return IVar(r)
}

// NewBVar is NewIVar(0, 1, label) with the resulting variable treated as a
// Boolean (§4.2).
func (m *Model) NewBVar(label string) BVar {
	return BVar(m.NewIVar(0, 1, label))
}

// NumVars returns the number of integer variables created so far
// (including the ones aliased as Boolean variables) — used by callers
// that need to enumerate every variable after a construction pass, e.g.
// to register each Boolean one with a Brancher.
func (m *Model) NumVars() int { return m.ivars.Len() }

// Domain returns the current domain of v.
func (m *Model) Domain(v IVar) Domain {
	return m.ivars.Get(collections.Ref(v)).Domain
}

// Label returns the debug label of v.
func (m *Model) Label(v IVar) string {
	return m.ivars.Get(collections.Ref(v)).Label
}

// Value returns the current tri-state value of a Boolean variable.
func (m *Model) Value(v BVar) TriVal {
	return m.litValues[v]
}

// ValueOf returns the tri-state value observed through a literal (i.e.
// flipped if the literal is negative).
func (m *Model) ValueOf(l Literal) TriVal {
	v := m.litValues[l.Var]
	if !l.Pos {
		v = flip(v)
	}
	return v
}

func flip(v TriVal) TriVal {
	switch v {
	case True:
		return False
	case False:
		return True
	default:
		return Undef
	}
}

// SaveState checkpoints both trails and returns the new level. Panics (in
// the spirit of §5's lockstep debug_assert) if the trails were already out
// of sync before this call.
func (m *Model) SaveState() int {
	backtrack.AssertSameDepth(m.intTrail, m.litTrail)
	lvl := m.intTrail.Save()
	m.litTrail.Save()
	return lvl
}

// NumSaved implements backtrack.Saver.
func (m *Model) NumSaved() int { return m.intTrail.NumSaved() }

// RestoreLast undoes every event recorded since the last SaveState.
func (m *Model) RestoreLast() {
	m.intTrail.RestoreLastWith(func(e intEvent) {
		d := m.ivars.Get(collections.Ref(e.v))
		d.Domain.LB, d.Domain.UB = e.prevLB, e.prevUB
		m.ivars.Set(collections.Ref(e.v), d)
	})
	m.litTrail.RestoreLastWith(func(e litEvent) {
		m.litValues[e.v] = e.prev
	})
	backtrack.AssertSameDepth(m.intTrail, m.litTrail)
}

// Restore undoes levels down to (but not including) level.
func (m *Model) Restore(level int) {
	for m.NumSaved() > level {
		m.RestoreLast()
	}
}

// SetLB tightens v's lower bound to at least k. A no-op if the domain is
// already at least as tight. Mirrors the result onto v's bound literal, if
// any, when the tightening forces the domain to a single Boolean value.
func (m *Model) SetLB(v IVar, k int32, cause Cause) error {
	d := m.ivars.Get(collections.Ref(v))
	if k <= d.Domain.LB {
		return nil
	}
	prev := d.Domain
	d.Domain.LB = k
	if d.Domain.Empty() {
		return &Contradiction{Cause: cause, Msg: "lower bound tightened past upper bound"}
	}
	m.intTrail.Push(intEvent{v: v, prevLB: prev.LB, prevUB: prev.UB})
	m.ivars.Set(collections.Ref(v), d)
	return m.syncBoundLiteral(v, d, cause)
}

// SetUB tightens v's upper bound to at most k. Symmetric to SetLB.
func (m *Model) SetUB(v IVar, k int32, cause Cause) error {
	d := m.ivars.Get(collections.Ref(v))
	if k >= d.Domain.UB {
		return nil
	}
	prev := d.Domain
	d.Domain.UB = k
	if d.Domain.Empty() {
		return &Contradiction{Cause: cause, Msg: "upper bound tightened past lower bound"}
	}
	m.intTrail.Push(intEvent{v: v, prevLB: prev.LB, prevUB: prev.UB})
	m.ivars.Set(collections.Ref(v), d)
	return m.syncBoundLiteral(v, d, cause)
}

// syncBoundLiteral mirrors a 0/1 collapse of v's domain onto v's own
// Boolean value and, if v is bound, onto its bound literal, unless that
// value is already set to the implied one.
func (m *Model) syncBoundLiteral(v IVar, d ivarData, cause Cause) error {
	if !d.Domain.IsBoolean() {
		return nil
	}
	implied := d.Domain.FixedTo()
	if implied == Undef {
		return nil
	}
	switch own := m.litValues[BVar(v)]; own {
	case Undef:
		m.litTrail.Push(litEvent{v: BVar(v), prev: own})
		m.litValues[BVar(v)] = implied
	case implied:
	default:
		return &Contradiction{Cause: cause, Msg: "literal already set to the opposite value"}
	}
	if d.BoundLit == nil {
		return nil
	}
	want := implied == True
	target := *d.BoundLit
	if !target.Pos {
		want = !want
	}
	current := m.litValues[target.Var]
	wantVal := True
	if !want {
		wantVal = False
	}
	if current == wantVal {
		return nil
	}
	if current != Undef {
		return &Contradiction{Cause: cause, Msg: "bound literal already set to the opposite value"}
	}
	m.litTrail.Push(litEvent{v: target.Var, prev: current})
	m.litValues[target.Var] = wantVal
	return nil
}

// Bind links a Boolean variable bv to an arbitrary literal lit: whenever
// bv's domain collapses to 0 or 1, lit's value is mirrored (§4.2). The link
// runs in that direction only: assigning lit through Set does not change
// bv's domain. Each BVar may be bound at most once.
func (m *Model) Bind(bv BVar, lit Literal) error {
	d := m.ivars.Get(collections.Ref(IVar(bv)))
	if d.BoundLit != nil {
		return &Contradiction{Msg: "BVar already bound to a literal"}
	}
	d.BoundLit = &lit
	m.ivars.Set(collections.Ref(IVar(bv)), d)
	return nil
}

// Set assigns a Boolean variable through a literal. Fails with a
// Contradiction if the opposite value is already set; a no-op if the same
// value is already set. Mirrors the assignment onto the underlying
// integer domain (§4.2).
func (m *Model) Set(lit Literal, cause Cause) error {
	want := True
	if !lit.Pos {
		want = False
	}
	current := m.litValues[lit.Var]
	if current == want {
		return nil
	}
	if current != Undef {
		return &Contradiction{Cause: cause, Msg: "literal already set to the opposite value"}
	}
	m.litTrail.Push(litEvent{v: lit.Var, prev: current})
	m.litValues[lit.Var] = want

	v := IVar(lit.Var)
	if want == True {
		return m.SetLB(v, 1, cause)
	}
	return m.SetUB(v, 0, cause)
}

// InternExprWith returns the literal already bound to an expression, or
// creates one via makeLit and records the binding the first time the
// expression is asserted (§4.2 "intern_expr_with").
func (m *Model) InternExprWith(e Expr, makeLit func() Literal) (Literal, ExprHandle) {
	h, _ := m.exprs.intern(e)
	if l, ok := m.bindings[h]; ok {
		return l, h
	}
	l := makeLit()
	m.bindings[h] = l
	return l, h
}

// LookupExpr returns the structural form of a previously interned
// expression.
func (m *Model) LookupExpr(h ExprHandle) Expr {
	return m.exprs.get(h)
}

// ExprLiteral returns the literal bound to h, if any.
func (m *Model) ExprLiteral(h ExprHandle) (Literal, bool) {
	l, ok := m.bindings[h]
	return l, ok
}
