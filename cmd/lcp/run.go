package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gitrdm/lcp/pkg/chronicles"
	"github.com/gitrdm/lcp/pkg/problem"
	"github.com/gitrdm/lcp/pkg/sat"
	"github.com/gitrdm/lcp/pkg/smt"
	"github.com/gitrdm/lcp/pkg/stn"
)

type runOptions struct {
	problemPath string
	domainPath  string
	minActions  int
	maxActions  int
	optimize    bool
}

// run wires the full pipeline: load the post-parse Problem, finitize +
// encode + solve for the first action count in range that's satisfiable
// (or, with --optimize, keep minimizing the makespan once one is found),
// and print the resulting plan to out.
func run(out io.Writer, opts runOptions, log *zap.SugaredLogger) error {
	if _, err := os.Stat(opts.problemPath); err != nil {
		return errors.Wrapf(err, "lcp: problem file %q", opts.problemPath)
	}
	domainPath := opts.domainPath
	if domainPath == "" {
		domainPath = conventionalDomainPath(opts.problemPath)
	}
	if _, err := os.Stat(domainPath); err != nil {
		return errors.Wrapf(err, "lcp: domain file %q", domainPath)
	}

	p, err := parseProblem(opts.problemPath, domainPath)
	if err != nil {
		return errors.Wrap(err, "lcp: parse")
	}

	policy := chronicles.PolicyFromEnv()

	var fp *problem.FiniteProblem
	build := func(n int) (*smt.Driver, error) {
		counts := make(map[problem.TemplateID]int, len(p.Templates))
		for _, tpl := range p.Templates {
			counts[tpl.ID] = n
		}
		built, err := chronicles.Finitize(p, counts, log)
		if err != nil {
			return nil, err
		}
		fp = built

		r := sat.New(fp.Model, log)
		b := sat.NewBrancher(fp.Model)
		d := smt.New(fp.Model, r, b, log)
		d.RegisterTheory(stn.NewDiffLogicTheory(log))

		if err := chronicles.Encode(fp, d, policy); err != nil {
			return nil, err
		}
		smt.RegisterModelVars(fp.Model, d.Brancher())
		return d, nil
	}

	attempt, err := smt.SolveForActionCounts(opts.minActions, opts.maxActions, build)
	if err != nil {
		return errors.Wrap(err, "lcp: finitize/encode")
	}
	if !attempt.Solved {
		return smt.ErrNoSolution
	}

	if opts.optimize {
		_, found := attempt.Driver.MinimizeWith(fp.Horizon, func(value int32) {
			fmt.Fprintf(out, "# makespan %d\n", value)
			printPlan(out, fp)
		})
		if !found {
			return smt.ErrNoSolution
		}
		return nil
	}

	printPlan(out, fp)
	return nil
}

func printPlan(out io.Writer, fp *problem.FiniteProblem) {
	for _, step := range chronicles.DecodePlan(fp) {
		fmt.Fprintln(out, step.String())
	}
}
