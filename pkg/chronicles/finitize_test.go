package chronicles

import (
	"testing"

	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/problem"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// simpleTemplate builds a template with one bool presence param, two int
// start/end params bounded [0,10], and one int "loc" param bounded
// [0,3], plus a single effect writing "loc" over [start,start].
func simpleTemplate(id problem.TemplateID, name string) problem.ChronicleTemplate {
	return problem.ChronicleTemplate{
		ID:   id,
		Name: name,
		Parameters: []problem.Parameter{
			{Kind: problem.ParamBool, Name: "presence"},
			{Kind: problem.ParamInt, LB: 0, UB: 10, Name: "start"},
			{Kind: problem.ParamInt, LB: 0, UB: 10, Name: "end"},
			{Kind: problem.ParamInt, LB: 0, UB: 3, Name: "loc"},
		},
		Presence: 0,
		Start:    1,
		End:      2,
		Effects: []problem.EffectTemplate{
			{
				TransitionStart:  problem.ParamAtom(1),
				PersistenceStart: problem.ParamAtom(1),
				StateVar:         []problem.TemplateAtom{problem.GroundTemplateAtom(model.Const(1))},
				Value:            problem.ParamAtom(3),
			},
		},
	}
}

func trivialInitialChronicle() problem.ChronicleTemplate {
	return problem.ChronicleTemplate{
		Name: "initial",
		Parameters: []problem.Parameter{
			{Kind: problem.ParamBool, Name: "presence"},
			{Kind: problem.ParamInt, LB: 0, UB: 0, Name: "start"},
			{Kind: problem.ParamInt, LB: 0, UB: 0, Name: "end"},
		},
		Presence: 0,
		Start:    1,
		End:      2,
	}
}

func TestFinitizeInstantiatesOriginalAndTemplateCopies(t *testing.T) {
	p := &problem.Problem{
		InitialChronicle: trivialInitialChronicle(),
		Templates:        []problem.ChronicleTemplate{simpleTemplate(0, "move")},
		HorizonUB:        20,
	}

	fp, err := Finitize(p, map[problem.TemplateID]int{0: 2}, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Len(t, fp.Chronicles, 3)

	require.Equal(t, problem.Original, fp.Chronicles[0].Origin.Kind)
	require.Equal(t, problem.FreeActionOrigin, fp.Chronicles[1].Origin.Kind)
	require.EqualValues(t, 0, fp.Chronicles[1].Origin.InstantiationID)
	require.EqualValues(t, 1, fp.Chronicles[2].Origin.InstantiationID)

	require.NotEqual(t, fp.Chronicles[1].Effects[0].EffEnd, fp.Chronicles[2].Effects[0].EffEnd)
	require.NotEqual(t, fp.Chronicles[1].Presence, fp.Chronicles[2].Presence)
}

// orderTemplate builds a template with one bool presence param and two
// int params "a"/"b" bounded [0,10], plus a single order constraint of
// the given kind between them.
func orderTemplate(id problem.TemplateID, name string, kind problem.ConstraintKind) problem.ChronicleTemplate {
	return problem.ChronicleTemplate{
		ID:   id,
		Name: name,
		Parameters: []problem.Parameter{
			{Kind: problem.ParamBool, Name: "presence"},
			{Kind: problem.ParamInt, LB: 0, UB: 10, Name: "a"},
			{Kind: problem.ParamInt, LB: 0, UB: 10, Name: "b"},
		},
		Presence: 0,
		Start:    1,
		End:      1,
		Constraints: []problem.ConstraintTemplate{
			{Kind: kind, Vars: []problem.TemplateAtom{problem.ParamAtom(1), problem.ParamAtom(2)}},
		},
	}
}

// tableTemplate builds a template with one bool presence param and one
// int "x" param bounded [0,5], plus an InTable constraint against table 0.
func tableTemplate(id problem.TemplateID, name string) problem.ChronicleTemplate {
	return problem.ChronicleTemplate{
		ID:   id,
		Name: name,
		Parameters: []problem.Parameter{
			{Kind: problem.ParamBool, Name: "presence"},
			{Kind: problem.ParamInt, LB: 0, UB: 5, Name: "x"},
		},
		Presence: 0,
		Start:    1,
		End:      1,
		Constraints: []problem.ConstraintTemplate{
			{Kind: problem.InTable, TableID: 0, Vars: []problem.TemplateAtom{problem.ParamAtom(1)}},
		},
	}
}

func TestFinitizeRejectsOutOfRangePresenceIndex(t *testing.T) {
	tpl := simpleTemplate(0, "move")
	tpl.Presence = 99
	p := &problem.Problem{
		InitialChronicle: trivialInitialChronicle(),
		Templates:        []problem.ChronicleTemplate{tpl},
		HorizonUB:        20,
	}

	_, err := Finitize(p, map[problem.TemplateID]int{0: 1}, zap.NewNop().Sugar())
	require.ErrorIs(t, err, ErrArityMismatch)
}
