package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/problem"
	"github.com/gitrdm/lcp/pkg/smt"
)

// oneActionProblem builds a minimal Problem with a trivial initial
// chronicle and one finitizable "move" template, enough to drive run()
// end to end without a real parser.
func oneActionProblem() *problem.Problem {
	return &problem.Problem{
		InitialChronicle: problem.ChronicleTemplate{
			Name: "initial",
			Parameters: []problem.Parameter{
				{Kind: problem.ParamBool, Name: "presence"},
				{Kind: problem.ParamInt, LB: 0, UB: 0, Name: "start"},
				{Kind: problem.ParamInt, LB: 0, UB: 0, Name: "end"},
			},
			Presence: 0, Start: 1, End: 2,
		},
		Templates: []problem.ChronicleTemplate{
			{
				ID:   0,
				Name: "move",
				Parameters: []problem.Parameter{
					{Kind: problem.ParamBool, Name: "presence"},
					{Kind: problem.ParamInt, LB: 0, UB: 10, Name: "start"},
					{Kind: problem.ParamInt, LB: 0, UB: 10, Name: "end"},
					{Kind: problem.ParamInt, LB: 0, UB: 3, Name: "loc"},
				},
				Presence: 0, Start: 1, End: 2,
				Effects: []problem.EffectTemplate{
					{
						TransitionStart:  problem.ParamAtom(1),
						PersistenceStart: problem.ParamAtom(1),
						StateVar:         []problem.TemplateAtom{problem.GroundTemplateAtom(model.Const(1))},
						Value:            problem.ParamAtom(3),
					},
				},
			},
		},
		HorizonUB: 20,
	}
}

func touchFiles(t *testing.T, dir string) (problemPath, domainPath string) {
	t.Helper()
	problemPath = filepath.Join(dir, "problem.pddl")
	domainPath = filepath.Join(dir, "domain.pddl")
	require.NoError(t, os.WriteFile(problemPath, []byte("(define (problem p))"), 0o644))
	require.NoError(t, os.WriteFile(domainPath, []byte("(define (domain d))"), 0o644))
	return problemPath, domainPath
}

func TestRunPrintsPlanForSatisfiableProblem(t *testing.T) {
	dir := t.TempDir()
	problemPath, _ := touchFiles(t, dir)

	orig := parseProblem
	parseProblem = func(string, string) (*problem.Problem, error) { return oneActionProblem(), nil }
	defer func() { parseProblem = orig }()

	var out bytes.Buffer
	err := run(&out, runOptions{problemPath: problemPath, minActions: 1, maxActions: 1}, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Contains(t, out.String(), "move")
}

func TestRunPrintsEmptyPlanWhenZeroActionsSuffice(t *testing.T) {
	dir := t.TempDir()
	problemPath, _ := touchFiles(t, dir)

	orig := parseProblem
	parseProblem = func(string, string) (*problem.Problem, error) { return oneActionProblem(), nil }
	defer func() { parseProblem = orig }()

	var out bytes.Buffer
	err := run(&out, runOptions{problemPath: problemPath, minActions: 0, maxActions: 0}, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Empty(t, out.String())
}

func TestRunReturnsErrNoSolutionWhenRangeExhausted(t *testing.T) {
	dir := t.TempDir()
	problemPath, _ := touchFiles(t, dir)

	orig := parseProblem
	parseProblem = func(string, string) (*problem.Problem, error) {
		p := oneActionProblem()
		// An order constraint between two equal constants is
		// unconditionally unsatisfiable regardless of action count.
		p.InitialChronicle.Constraints = []problem.ConstraintTemplate{
			{Kind: problem.NEQ, Vars: []problem.TemplateAtom{
				problem.GroundTemplateAtom(model.Const(5)),
				problem.GroundTemplateAtom(model.Const(5)),
			}},
		}
		return p, nil
	}
	defer func() { parseProblem = orig }()

	var out bytes.Buffer
	err := run(&out, runOptions{problemPath: problemPath, minActions: 0, maxActions: 2}, zap.NewNop().Sugar())
	require.ErrorIs(t, err, smt.ErrNoSolution)
}

func TestRunWrapsMissingProblemFile(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, runOptions{problemPath: "/no/such/file.pddl"}, zap.NewNop().Sugar())
	require.Error(t, err)
}
