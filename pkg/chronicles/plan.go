package chronicles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/problem"
)

// PlanStep is one line of a decoded plan: the chronicle's start time and
// its symbolic name, per §6.3.
type PlanStep struct {
	Start int32
	Name  string
}

// DecodePlan reads a satisfying assignment off fp.Model and returns one
// PlanStep per present, non-original chronicle instance, sorted by start
// time (§6.3 "sorted by start time; one line per present, non-original
// chronicle instance").
func DecodePlan(fp *problem.FiniteProblem) []PlanStep {
	var steps []PlanStep
	for _, c := range fp.Chronicles {
		if c.Origin.Kind == problem.Original {
			continue
		}
		if fp.Model.ValueOf(c.Presence) != model.True {
			continue
		}
		steps = append(steps, PlanStep{
			Start: fp.Model.Domain(c.Start).LB,
			Name:  planName(fp.Model, c),
		})
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Start < steps[j].Start })
	return steps
}

func planName(m *model.Model, c *problem.ChronicleInstance) string {
	parts := make([]string, 0, len(c.Params)+1)
	parts = append(parts, c.Name)
	for _, p := range c.Params {
		parts = append(parts, atomString(m, p))
	}
	return strings.Join(parts, " ")
}

func atomString(m *model.Model, a model.Atom) string {
	switch a.Kind {
	case model.AtomConst:
		return fmt.Sprintf("%d", a.Cst)
	case model.AtomInt:
		d := m.Domain(a.Var)
		return fmt.Sprintf("%d", a.Coeff*d.LB+a.Cst)
	case model.AtomBool:
		if m.ValueOf(a.Lit) == model.True {
			return "true"
		}
		return "false"
	case model.AtomSym:
		return fmt.Sprintf("sym%d", a.Sym)
	default:
		return "?"
	}
}

// String formats a PlanStep as spec.md §6.3's "<start>: <name>" line,
// right-justifying the start field to a width of 3.
func (s PlanStep) String() string {
	return fmt.Sprintf("%3d: %s", s.Start, s.Name)
}
