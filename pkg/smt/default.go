package smt

import (
	"fmt"

	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/sat"
)

// clausifyDefault is the fallback every Bind call reaches once no
// registered theory claims an expression: a Tseitin encoding straight
// into the reasoner's clause database for the purely-Boolean shapes
// (And/Or/Implies/Not) no domain theory ever needs to see. Implies is
// already stored in its clausal form [¬a, b] (see model/expr.go), so it
// is encoded exactly like Or.
func (d *Driver) clausifyDefault(lit model.Literal, expr model.ExprHandle) error {
	e := d.m.LookupExpr(expr)
	switch e.Kind {
	case model.ExprAnd:
		return d.clausifyAnd(lit, e.Args)
	case model.ExprOr, model.ExprImplies:
		return d.clausifyOr(lit, e.Args)
	case model.ExprNot:
		return d.clausifyNot(lit, e.Args[0])
	default:
		return fmt.Errorf("smt: no theory claimed expression and no default encoding exists for kind %v", e.Kind)
	}
}

// clausifyAnd encodes lit <-> (arg1 AND arg2 AND ...):
//
//	(lit -> argI)   for each argI      ==  (¬lit ∨ argI)
//	(AND argI -> lit)                  ==  (lit ∨ ¬arg1 ∨ ¬arg2 ∨ ...)
func (d *Driver) clausifyAnd(lit model.Literal, args []model.Literal) error {
	for _, a := range args {
		if _, err := d.r.AddClause(sat.Clause{lit.Negate(), a}); err != nil {
			return err
		}
	}
	big := make(sat.Clause, 0, len(args)+1)
	big = append(big, lit)
	for _, a := range args {
		big = append(big, a.Negate())
	}
	_, err := d.r.AddClause(big)
	return err
}

// clausifyOr encodes lit <-> (arg1 OR arg2 OR ...):
//
//	(argI -> lit)   for each argI      ==  (¬argI ∨ lit)
//	(lit -> OR argI)                   ==  (¬lit ∨ arg1 ∨ arg2 ∨ ...)
func (d *Driver) clausifyOr(lit model.Literal, args []model.Literal) error {
	for _, a := range args {
		if _, err := d.r.AddClause(sat.Clause{a.Negate(), lit}); err != nil {
			return err
		}
	}
	big := make(sat.Clause, 0, len(args)+1)
	big = append(big, lit.Negate())
	big = append(big, args...)
	_, err := d.r.AddClause(big)
	return err
}

// clausifyNot encodes lit <-> ¬operand, which is just literal identity:
// asserting lit == ¬operand as two binary clauses.
func (d *Driver) clausifyNot(lit model.Literal, operand model.Literal) error {
	if _, err := d.r.AddClause(sat.Clause{lit.Negate(), operand.Negate()}); err != nil {
		return err
	}
	_, err := d.r.AddClause(sat.Clause{lit, operand})
	return err
}
