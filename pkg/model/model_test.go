package model

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestModel() *Model {
	return New(zap.NewNop().Sugar())
}

func TestNewIVarRequiresValidInterval(t *testing.T) {
	m := newTestModel()
	require.Panics(t, func() { m.NewIVar(5, 1, "bad") })
}

func TestSetLBSetUBAreMonotoneAndNoOpWhenSlacker(t *testing.T) {
	m := newTestModel()
	v := m.NewIVar(0, 10, "v")

	require.NoError(t, m.SetLB(v, 3, Cause{}))
	require.Equal(t, Domain{LB: 3, UB: 10}, m.Domain(v))

	// Slacker than current: no-op.
	require.NoError(t, m.SetLB(v, 1, Cause{}))
	require.Equal(t, Domain{LB: 3, UB: 10}, m.Domain(v))

	require.NoError(t, m.SetUB(v, 7, Cause{}))
	require.Equal(t, Domain{LB: 3, UB: 7}, m.Domain(v))
}

func TestSetLBPastUBIsContradiction(t *testing.T) {
	m := newTestModel()
	v := m.NewIVar(0, 5, "v")
	err := m.SetLB(v, 10, Cause{})
	require.Error(t, err)
	var c *Contradiction
	require.ErrorAs(t, err, &c)
}

func TestBoolVarValueMirrorsDomainCollapse(t *testing.T) {
	m := newTestModel()
	b := m.NewBVar("b")

	require.Equal(t, Undef, m.Value(b))

	require.NoError(t, m.SetLB(IVar(b), 1, Cause{}))
	require.Equal(t, True, m.Value(b))
}

func TestSetMirrorsOntoIntegerDomain(t *testing.T) {
	m := newTestModel()
	b := m.NewBVar("b")

	require.NoError(t, m.Set(Lit(b), Cause{}))
	require.Equal(t, Domain{LB: 1, UB: 1}, m.Domain(IVar(b)))

	// Re-asserting the same value is a no-op.
	require.NoError(t, m.Set(Lit(b), Cause{}))

	// Asserting the opposite is a contradiction.
	err := m.Set(Lit(b).Negate(), Cause{})
	require.Error(t, err)
}

func TestBindSynchronizesAnArbitraryLiteral(t *testing.T) {
	m := newTestModel()
	v := m.NewIVar(0, 1, "v")
	tracker := m.NewBVar("tracker")

	require.NoError(t, m.Bind(BVar(v), Lit(tracker)))
	require.NoError(t, m.SetLB(v, 1, Cause{}))
	require.Equal(t, True, m.Value(tracker))
}

func TestBindTwiceIsRejected(t *testing.T) {
	m := newTestModel()
	v := m.NewIVar(0, 1, "v")
	a := m.NewBVar("a")
	b := m.NewBVar("b")

	require.NoError(t, m.Bind(BVar(v), Lit(a)))
	err := m.Bind(BVar(v), Lit(b))
	require.Error(t, err)
}

func TestRoundTripBacktrackingOnModel(t *testing.T) {
	m := newTestModel()
	v := m.NewIVar(0, 10, "v")

	before := m.Domain(v)
	lvl := m.SaveState()
	require.NoError(t, m.SetLB(v, 4, Cause{}))
	require.NoError(t, m.SetUB(v, 6, Cause{}))
	require.NotEqual(t, before, m.Domain(v))

	m.Restore(lvl - 1)
	require.Equal(t, before, m.Domain(v))
}

func TestExprInterningIsStructural(t *testing.T) {
	m := newTestModel()
	v1 := m.NewIVar(0, 10, "x")
	v2 := m.NewIVar(0, 10, "y")

	l1 := m.Leq(IntAtom(v1), IntAtom(v2))
	l2 := m.Leq(IntAtom(v1), IntAtom(v2))
	require.Equal(t, l1, l2, "equal expressions must collapse to the same literal")

	l3 := m.Leq(IntAtom(v2), IntAtom(v1))
	require.NotEqual(t, l1, l3)
}

func TestAndOrShortCircuit(t *testing.T) {
	m := newTestModel()
	v := m.NewIVar(0, 10, "v")
	l := m.Leq(IntAtom(v), Const(5))

	require.Equal(t, m.False(), m.And(l, m.False()))
	require.Equal(t, m.True(), m.Or(l, m.True()))
	require.Equal(t, l, m.And(l, m.True()))
	require.Equal(t, l, m.Or(l, m.False()))
}

func TestNeqIsFreeNegationOfEq(t *testing.T) {
	m := newTestModel()
	v := m.NewIVar(0, 10, "v")
	eq := m.Eq(IntAtom(v), Const(3))
	neq := m.Neq(IntAtom(v), Const(3))
	require.Equal(t, eq.Negate(), neq)
}
