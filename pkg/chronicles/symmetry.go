package chronicles

import (
	"sort"

	"github.com/gitrdm/lcp/internal/config"
	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/problem"
)

// SymmetryPolicy is the pluggable symmetry-breaking strategy §4.7.6
// requires ("the core must not assume the simple policy is always
// applied" — §9).
type SymmetryPolicy interface {
	Apply(fp *problem.FiniteProblem, bd *binder)
}

// NonePolicy emits no symmetry-breaking constraints at all.
type NonePolicy struct{}

// Apply implements SymmetryPolicy.
func (NonePolicy) Apply(*problem.FiniteProblem, *binder) {}

// SimplePolicy imposes a canonical order on same-template free-action
// instances: for every pair with instantiation_id1 < instantiation_id2,
// presence_1 implies presence_2 and start_1 <= start_2.
type SimplePolicy struct{}

// Apply implements SymmetryPolicy.
func (SimplePolicy) Apply(fp *problem.FiniteProblem, bd *binder) {
	byTemplate := make(map[problem.TemplateID][]*problem.ChronicleInstance)
	for _, c := range fp.Chronicles {
		if c.Origin.Kind != problem.FreeActionOrigin {
			continue
		}
		byTemplate[c.Origin.TemplateID] = append(byTemplate[c.Origin.TemplateID], c)
	}

	for _, group := range byTemplate {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Origin.InstantiationID < group[j].Origin.InstantiationID
		})
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				bd.clause(a.Presence.Negate(), b.Presence)
				bd.clause(bd.leq(model.IntAtom(a.Start), model.IntAtom(b.Start)))
			}
		}
	}
}

// PolicyFromEnv selects NonePolicy or SimplePolicy per
// ARIES_LCP_SYMMETRY_BREAKING (§6.2), defaulting to SimplePolicy.
func PolicyFromEnv() SymmetryPolicy {
	if config.SymmetryBreakingFromEnv() == config.SymmetryBreakingNone {
		return NonePolicy{}
	}
	return SimplePolicy{}
}
