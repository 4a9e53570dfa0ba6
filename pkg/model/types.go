// Package model implements the backtrackable integer/Boolean model (§4.2):
// a variable store that unifies integer domain intervals with Boolean
// literals, binds expressions to literals on demand, and records every
// mutation on a pair of trails so the SMT driver can undo it in lockstep
// with the Boolean reasoner and every registered theory.
package model

import (
	"fmt"

	"github.com/gitrdm/lcp/pkg/collections"
)

// IVar is a dense index identifying an integer variable.
type IVar collections.Ref

// BVar is an IVar whose domain is constrained to a subset of {0,1}. It is
// a distinct Go type so call sites can't accidentally pass an arbitrary
// IVar where a Boolean is expected, even though underneath it addresses
// the exact same variable store (§3 "Boolean variable: alias of an
// integer variable").
type BVar IVar

// SymbolID and TypeID identify entries in the symbol table the
// out-of-scope parser builds; the core only ever treats them as opaque
// tags carried by symbolic atoms.
type SymbolID uint32
type TypeID uint32

// TriVal is the tri-state value of a Boolean literal: unset, true, or
// false. Kept as its own small type (rather than *bool) so the zero value
// is meaningfully "undefined".
type TriVal int8

const (
	Undef TriVal = iota
	True
	False
)

func (t TriVal) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "undef"
	}
}

// Literal is a signed reference to a BVar: Pos true reads the variable's
// assigned value directly, Pos false reads its negation.
type Literal struct {
	Var BVar
	Pos bool
}

// Lit constructs the positive literal of v.
func Lit(v BVar) Literal { return Literal{Var: v, Pos: true} }

// Negate returns the opposite-polarity literal over the same variable.
func (l Literal) Negate() Literal { return Literal{Var: l.Var, Pos: !l.Pos} }

func (l Literal) String() string {
	if l.Pos {
		return fmt.Sprintf("b%d", l.Var)
	}
	return fmt.Sprintf("¬b%d", l.Var)
}

// Domain is a closed integer interval [LB, UB]. An empty domain (LB > UB)
// is never observable outside of the instant a Contradiction is raised —
// every mutator that would produce one returns an error instead of
// committing it.
type Domain struct {
	LB, UB int32
}

// Empty reports whether the domain has been driven inconsistent.
func (d Domain) Empty() bool { return d.LB > d.UB }

// IsBoolean reports whether d is a subset of {0,1}, the precondition for
// a variable to carry a bound literal.
func (d Domain) IsBoolean() bool { return d.LB >= 0 && d.UB <= 1 }

// FixedTo reports whether d forces the Boolean reading of the variable to
// exactly one of true/false, or leaves it Undef.
func (d Domain) FixedTo() TriVal {
	switch {
	case d.LB >= 1:
		return True
	case d.UB <= 0:
		return False
	default:
		return Undef
	}
}

// ivarData is the value stored per IVar: its current domain, a debugging
// label, and an optional literal this variable's 0/1 collapse should be
// mirrored onto (§3 "optional bound Boolean literal").
type ivarData struct {
	Domain   Domain
	Label    string
	BoundLit *Literal
}
