package chronicles

import (
	"testing"

	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/problem"
	"github.com/gitrdm/lcp/pkg/sat"
	"github.com/gitrdm/lcp/pkg/smt"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEncodeTableConstraintAllowsOnlyListedRows(t *testing.T) {
	p := &problem.Problem{
		InitialChronicle: trivialInitialChronicle(),
		Templates:        []problem.ChronicleTemplate{tableTemplate(0, "lookup")},
		Tables: []problem.Table{
			{Rows: [][]model.Atom{{model.Const(2)}, {model.Const(4)}}},
		},
		HorizonUB: 20,
	}
	fp, err := Finitize(p, map[problem.TemplateID]int{0: 1}, zap.NewNop().Sugar())
	require.NoError(t, err)

	d := buildDriver(fp)
	require.NoError(t, Encode(fp, d, NonePolicy{}))

	inst := fp.Chronicles[1]
	_, err = d.Reasoner().AddClause(sat.Clause{inst.Presence})
	require.NoError(t, err)
	smt.RegisterModelVars(fp.Model, d.Brancher())

	require.True(t, d.Solve())
	xDom := fp.Model.Domain(inst.Constraints[0].Vars[0].Var)
	require.True(t, xDom.LB == 2 || xDom.LB == 4)
	require.Equal(t, xDom.LB, xDom.UB)
}

func TestEncodeTableConstraintRejectsValueOutsideRows(t *testing.T) {
	p := &problem.Problem{
		InitialChronicle: trivialInitialChronicle(),
		Templates:        []problem.ChronicleTemplate{tableTemplate(0, "lookup")},
		Tables: []problem.Table{
			{Rows: [][]model.Atom{{model.Const(2)}, {model.Const(4)}}},
		},
		HorizonUB: 20,
	}
	fp, err := Finitize(p, map[problem.TemplateID]int{0: 1}, zap.NewNop().Sugar())
	require.NoError(t, err)

	d := buildDriver(fp)
	require.NoError(t, Encode(fp, d, NonePolicy{}))

	inst := fp.Chronicles[1]
	_, err = d.Reasoner().AddClause(sat.Clause{inst.Presence})
	require.NoError(t, err)

	x := inst.Constraints[0].Vars[0]
	assertLeqAtMost(t, d, x, 1)
	smt.RegisterModelVars(fp.Model, d.Brancher())

	require.False(t, d.Solve())
}

func TestEncodeOrderConstraintLTPropagatesThroughSTN(t *testing.T) {
	p := &problem.Problem{
		InitialChronicle: trivialInitialChronicle(),
		Templates:        []problem.ChronicleTemplate{orderTemplate(0, "order", problem.LT)},
		HorizonUB:        20,
	}
	fp, err := Finitize(p, map[problem.TemplateID]int{0: 1}, zap.NewNop().Sugar())
	require.NoError(t, err)

	d := buildDriver(fp)
	require.NoError(t, Encode(fp, d, NonePolicy{}))

	inst := fp.Chronicles[1]
	a, b := inst.Constraints[0].Vars[0], inst.Constraints[0].Vars[1]
	assertLeqAtLeast(t, d, a, 3)
	smt.RegisterModelVars(fp.Model, d.Brancher())

	require.True(t, d.Solve())
	bDom := fp.Model.Domain(b.Var)
	require.GreaterOrEqual(t, bDom.LB, int32(4))
}

func TestEncodeOrderConstraintNEQRejectsEqualValues(t *testing.T) {
	p := &problem.Problem{
		InitialChronicle: trivialInitialChronicle(),
		Templates:        []problem.ChronicleTemplate{orderTemplate(0, "order", problem.NEQ)},
		HorizonUB:        20,
	}
	fp, err := Finitize(p, map[problem.TemplateID]int{0: 1}, zap.NewNop().Sugar())
	require.NoError(t, err)

	d := buildDriver(fp)
	require.NoError(t, Encode(fp, d, NonePolicy{}))

	inst := fp.Chronicles[1]
	a, b := inst.Constraints[0].Vars[0], inst.Constraints[0].Vars[1]
	assertLeqAtMost(t, d, a, 2)
	assertLeqAtLeast(t, d, a, 2)
	assertLeqAtMost(t, d, b, 2)
	assertLeqAtLeast(t, d, b, 2)
	smt.RegisterModelVars(fp.Model, d.Brancher())

	require.False(t, d.Solve())
}

func TestSimplePolicyOrdersFreeActionStartsByInstantiationID(t *testing.T) {
	p := &problem.Problem{
		InitialChronicle: trivialInitialChronicle(),
		Templates:        []problem.ChronicleTemplate{simpleTemplate(0, "move")},
		HorizonUB:        20,
	}
	fp, err := Finitize(p, map[problem.TemplateID]int{0: 2}, zap.NewNop().Sugar())
	require.NoError(t, err)

	d := buildDriver(fp)
	require.NoError(t, Encode(fp, d, SimplePolicy{}))
	smt.RegisterModelVars(fp.Model, d.Brancher())

	first, second := fp.Chronicles[1], fp.Chronicles[2]
	assertLeqAtLeast(t, d, model.IntAtom(first.Start), 5)
	assertLeqAtMost(t, d, model.IntAtom(second.Start), 2)

	require.False(t, d.Solve())
}
