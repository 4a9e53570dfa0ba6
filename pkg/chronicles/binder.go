package chronicles

import (
	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/sat"
	"github.com/gitrdm/lcp/pkg/smt"
)

// binder wraps a Driver with a sticky first-error (the bufio.Scanner
// idiom: every method is a no-op once err is set, so a long chain of
// encoding calls can be written without checking an error after each
// one) and a cache of expression handles already routed through
// Driver.Bind, so re-deriving the same Leq/Eq/And atom twice (common —
// the same state-variable pair shows up in both a mutex and a support
// clause) doesn't re-enter theory binding.
type binder struct {
	d     *smt.Driver
	bound map[model.ExprHandle]bool
	err   error
}

func newBinder(d *smt.Driver) *binder {
	return &binder{d: d, bound: make(map[model.ExprHandle]bool)}
}

func (b *binder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *binder) ensure(h model.ExprHandle, lit model.Literal) model.Literal {
	if b.bound[h] {
		return lit
	}
	b.bound[h] = true
	if err := b.d.Bind(lit, h); err != nil {
		b.fail(err)
	}
	return lit
}

// leq binds and returns the literal for a <= c.
func (b *binder) leq(a, c model.Atom) model.Literal {
	lit, h := b.d.Model().LeqH(a, c)
	return b.ensure(h, lit)
}

// lt binds and returns the literal for a < c.
func (b *binder) lt(a, c model.Atom) model.Literal {
	lit, h := b.d.Model().LtH(a, c)
	return b.ensure(h, lit)
}

// eq binds and returns the literal for a == c.
func (b *binder) eq(a, c model.Atom) model.Literal {
	lit, h := b.d.Model().EqH(a, c)
	return b.ensure(h, lit)
}

// neq is the free negation of eq — no separate expression handle, per
// model.Neq.
func (b *binder) neq(a, c model.Atom) model.Literal {
	return b.eq(a, c).Negate()
}

// and binds and returns the literal for the conjunction of lits,
// short-circuiting the degenerate 0/1-argument cases without interning.
func (b *binder) and(lits []model.Literal) model.Literal {
	switch len(lits) {
	case 0:
		return b.d.Model().True()
	case 1:
		return lits[0]
	}
	lit, h := b.d.Model().InternExprWith(
		model.Expr{Kind: model.ExprAnd, Args: lits},
		func() model.Literal { return model.Lit(b.d.Model().NewBVar("supp")) },
	)
	return b.ensure(h, lit)
}

// clause asserts lits as a unit-level SAT clause, recording the first
// failure (if any) instead of returning it — see binder's doc comment.
func (b *binder) clause(lits ...model.Literal) {
	if b.err != nil {
		return
	}
	if _, err := b.d.Reasoner().AddClause(sat.Clause(lits)); err != nil {
		b.fail(err)
	}
}
