package problem

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gitrdm/lcp/pkg/model"
)

func TestGroundTemplateAtomResolveIgnoresParams(t *testing.T) {
	ta := GroundTemplateAtom(model.Const(7))
	require.Equal(t, model.Const(7), ta.Resolve(nil))
}

func TestParamAtomResolveSubstitutesParam(t *testing.T) {
	ta := ParamAtom(1)
	params := []model.Atom{model.Const(10), model.Const(20)}
	require.Equal(t, model.Const(20), ta.Resolve(params))
}

func TestTemplateAtomPlusShiftsAfterSubstitution(t *testing.T) {
	ta := ParamAtom(0).Plus(5)
	params := []model.Atom{model.Const(3)}
	require.Equal(t, model.Const(8), ta.Resolve(params))
}

func TestTemplateAtomScaleAppliesBeforePlus(t *testing.T) {
	ta := ParamAtom(0).Scale(2).Plus(1)
	params := []model.Atom{model.Const(3)}
	require.Equal(t, model.Const(7), ta.Resolve(params))
}

func TestTemplateAtomScaleOnIVarParam(t *testing.T) {
	m := model.New(zap.NewNop().Sugar())
	v := m.NewIVar(0, 10, "x")

	ta := ParamAtom(0).Scale(3)
	params := []model.Atom{model.IntAtom(v)}
	resolved := ta.Resolve(params)

	require.Equal(t, model.AtomInt, resolved.Kind)
	require.Equal(t, v, resolved.Var)
	require.EqualValues(t, 3, resolved.Coeff)
}
