package sat

import (
	"testing"

	"github.com/gitrdm/lcp/pkg/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBrancherPicksHighestActivityUnassignedVar(t *testing.T) {
	m := model.New(zap.NewNop().Sugar())
	b := NewBrancher(m)

	v1 := m.NewBVar("v1")
	v2 := m.NewBVar("v2")
	b.RegisterVar(v1)
	b.RegisterVar(v2)

	b.BumpActivity(v2)
	b.BumpActivity(v2)
	b.BumpActivity(v1)

	d := b.NextDecision(Stats{})
	require.Equal(t, DecisionSetLiteral, d.Kind)
	require.Equal(t, v2, d.Lit.Var, "v2 has higher activity and should be decided first")
}

func TestBrancherSkipsAlreadyAssignedVars(t *testing.T) {
	m := model.New(zap.NewNop().Sugar())
	b := NewBrancher(m)

	v1 := m.NewBVar("v1")
	v2 := m.NewBVar("v2")
	b.RegisterVar(v1)
	b.RegisterVar(v2)

	require.NoError(t, m.Set(model.Lit(v1), model.Cause{}))

	d := b.NextDecision(Stats{})
	require.Equal(t, DecisionSetLiteral, d.Kind)
	require.Equal(t, v2, d.Lit.Var)
}

func TestBrancherEmitsNoneWhenExhausted(t *testing.T) {
	m := model.New(zap.NewNop().Sugar())
	b := NewBrancher(m)
	v1 := m.NewBVar("v1")
	b.RegisterVar(v1)
	require.NoError(t, m.Set(model.Lit(v1), model.Cause{}))

	d := b.NextDecision(Stats{})
	require.Equal(t, DecisionNone, d.Kind)
}

func TestBrancherRestartsAfterAllowedConflicts(t *testing.T) {
	m := model.New(zap.NewNop().Sugar())
	b := NewBrancher(m)
	b.allowedConflicts = 2
	v1 := m.NewBVar("v1")
	b.RegisterVar(v1)

	d := b.NextDecision(Stats{NumConflicts: 2})
	require.Equal(t, DecisionRestart, d.Kind)
	// The variable must still be available next call, not lost.
	d2 := b.NextDecision(Stats{NumConflicts: 2})
	require.Equal(t, DecisionSetLiteral, d2.Kind)
	require.Equal(t, v1, d2.Lit.Var)
}

func TestActivityRescalingPreservesHeapOrder(t *testing.T) {
	m := model.New(zap.NewNop().Sugar())
	b := NewBrancher(m)
	v1 := m.NewBVar("v1")
	v2 := m.NewBVar("v2")
	b.RegisterVar(v1)
	b.RegisterVar(v2)

	b.BumpActivity(v1)
	b.items[v1].activity = 1e101 // force a rescale on the next bump
	b.BumpActivity(v1)

	require.Less(t, b.items[v2].activity, b.items[v1].activity)
}

func TestBrancherRoundTripBacktracking(t *testing.T) {
	m := model.New(zap.NewNop().Sugar())
	b := NewBrancher(m)
	v1 := m.NewBVar("v1")
	b.RegisterVar(v1)

	lvl := b.SaveState()
	require.NoError(t, m.Set(model.Lit(v1), model.Cause{}))
	b.removeTop() // simulate the driver popping v1 off the heap on decision

	require.Equal(t, 0, b.pq.Len())
	b.Restore(lvl - 1)
	require.Equal(t, 1, b.pq.Len(), "restore must re-enqueue the removed variable")
}
