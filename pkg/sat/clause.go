// Package sat implements the Boolean reasoner (§4.3) and its brancher
// (§4.4): two-watched-literal unit propagation, 1-UIP conflict analysis
// with backjumping, and an activity-ordered decision heap with restarts.
// It reads and writes literal assignments through a *model.Model rather
// than keeping its own copy of variable values, so the invariants of
// §4.2 (literal <-> domain consistency) are only ever mutated in one
// place.
package sat

import "github.com/gitrdm/lcp/pkg/model"

// Clause is a disjunction of literals. Propagate reorders a stored clause's
// literals in place as watches move; callers must not assume clause
// literal order is stable after it has been added.
type Clause []model.Literal
