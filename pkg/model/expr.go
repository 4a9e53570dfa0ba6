package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gitrdm/lcp/pkg/collections"
)

// ExprKind tags the compound Boolean expression shapes the model can
// intern (§3 "Expression handle").
type ExprKind uint8

const (
	ExprAnd ExprKind = iota
	ExprOr
	ExprLeq
	ExprEq
	ExprNeq
	ExprImplies
	ExprNot
)

// ExprHandle is an intern id for a compound Boolean expression. Equal
// expressions always collapse to the same handle (§3 "Expression
// interning is sound").
type ExprHandle collections.Ref

// Expr is the decoded structural form of an interned expression: Leq/Eq/Neq
// carry two atoms, Not carries a single operand literal, And/Or/Implies
// carry an argument list of literals (Implies a→b is stored as the
// two-element list [¬a, b], its clausal form, so the SAT theory never
// needs a separate case for it).
type Expr struct {
	Kind ExprKind
	A, B Atom
	Args []Literal
}

// exprTable interns Expr values by a canonical string key built from their
// structural content. A hand-rolled table (rather than collections.RefPool)
// because Expr embeds a slice and so is not itself comparable; the key is
// the structural hash collections.RefPool would otherwise compute via the
// comparable constraint.
type exprTable struct {
	byKey map[string]ExprHandle
	store *collections.RefStore[Expr]
}

func newExprTable() *exprTable {
	return &exprTable{
		byKey: make(map[string]ExprHandle, 64),
		store: collections.NewRefStore[Expr](64),
	}
}

// intern returns the handle for e, creating one on first sight. The
// second return value is true exactly when a fresh entry was created.
func (t *exprTable) intern(e Expr) (ExprHandle, bool) {
	key := canonicalKey(e)
	if h, ok := t.byKey[key]; ok {
		return h, false
	}
	h := ExprHandle(t.store.Push(e))
	t.byKey[key] = h
	return h, true
}

func (t *exprTable) get(h ExprHandle) Expr {
	return t.store.Get(collections.Ref(h))
}

func atomKey(a Atom) string {
	switch a.Kind {
	case AtomInt:
		return fmt.Sprintf("i:%d*%d+%d", a.Var, a.Coeff, a.Cst)
	case AtomConst:
		return fmt.Sprintf("c:%d", a.Cst)
	case AtomBool:
		return fmt.Sprintf("b:%s", a.Lit)
	case AtomSym:
		return fmt.Sprintf("s:%d:%d", a.Sym, a.Type)
	default:
		return "?"
	}
}

func litKey(l Literal) string { return l.String() }

// canonicalKey builds the structural key used for interning. And/Or
// arguments are sorted in ascending atom-id order before hashing: the
// source specification leaves commutative-operator argument order
// unspecified, and ascending atom-id order is the resolution spec.md §9
// calls out explicitly — sorted numerically by (Var, Pos), not by the
// lexicographic order of their rendered "b%d"/"¬b%d" strings (which would
// put "b10" before "b2").
func canonicalKey(e Expr) string {
	switch e.Kind {
	case ExprLeq, ExprEq, ExprNeq:
		return fmt.Sprintf("%d(%s,%s)", e.Kind, atomKey(e.A), atomKey(e.B))
	case ExprNot:
		return fmt.Sprintf("%d(%s)", e.Kind, litKey(e.Args[0]))
	case ExprAnd, ExprOr, ExprImplies:
		args := e.Args
		if e.Kind != ExprImplies {
			args = append([]Literal(nil), e.Args...)
			sort.Slice(args, func(i, j int) bool {
				if args[i].Var != args[j].Var {
					return args[i].Var < args[j].Var
				}
				return !args[i].Pos && args[j].Pos
			})
		}
		keys := make([]string, len(args))
		for i, l := range args {
			keys[i] = litKey(l)
		}
		return fmt.Sprintf("%d[%s]", e.Kind, strings.Join(keys, ","))
	default:
		return "?"
	}
}
