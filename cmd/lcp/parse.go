package main

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/gitrdm/lcp/pkg/problem"
)

// ErrParsingNotImplemented marks the one seam this binary deliberately
// leaves unfilled: the PDDL-like problem/domain parser is out of scope
// (spec.md §1, SPEC_FULL §6.4) — the core only ever consumes the
// post-parse pkg/problem.Problem value. parseProblem is the integration
// point a real parser would replace.
var ErrParsingNotImplemented = errors.New("lcp: problem/domain parsing is not implemented; construct a pkg/problem.Problem directly")

// parseProblem is a package variable rather than a plain function so an
// embedder (or a future parser package) can swap it in without touching
// the rest of the CLI's wiring.
var parseProblem = func(problemPath, domainPath string) (*problem.Problem, error) {
	return nil, ErrParsingNotImplemented
}

// conventionalDomainPath guesses the domain file path next to problemPath
// when --domain is not given: same directory, "domain.pddl" (§6
// "discovered from conventional location next to the problem file").
func conventionalDomainPath(problemPath string) string {
	return filepath.Join(filepath.Dir(problemPath), "domain.pddl")
}
