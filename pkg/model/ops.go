package model

// bootstrapConstants creates the two permanently-fixed Boolean variables
// every model needs: an always-true and an always-false literal, used as
// the short-circuit results of And/Or and as sentinels callers can
// compare against.
func (m *Model) bootstrapConstants() {
	t := m.NewBVar("true")
	_ = m.SetLB(IVar(t), 1, Cause{Theory: "model", Detail: "bootstrap"})
	f := m.NewBVar("false")
	_ = m.SetUB(IVar(f), 0, Cause{Theory: "model", Detail: "bootstrap"})
	m.trueVar, m.falseVar = t, f
}

// True returns the permanently-true literal.
func (m *Model) True() Literal { return Lit(m.trueVar) }

// False returns the permanently-false literal.
func (m *Model) False() Literal { return Lit(m.falseVar) }

func (m *Model) freshExprLit(prefix string) func() Literal {
	return func() Literal { return Lit(m.NewBVar(prefix)) }
}

// Leq interns a <= b, returning the literal it is (lazily) bound to.
func (m *Model) Leq(a, b Atom) Literal {
	l, _ := m.LeqH(a, b)
	return l
}

// LeqH is Leq, additionally returning the expression handle so a caller
// (the chronicle encoder, the SMT driver) can bind it to a theory.
func (m *Model) LeqH(a, b Atom) (Literal, ExprHandle) {
	return m.InternExprWith(Expr{Kind: ExprLeq, A: a, B: b}, m.freshExprLit("leq"))
}

// Lt interns a < b over integer-valued atoms, expressed as a+1 <= b.
func (m *Model) Lt(a, b Atom) Literal {
	l, _ := m.LtH(a, b)
	return l
}

// LtH is Lt, additionally returning the expression handle.
func (m *Model) LtH(a, b Atom) (Literal, ExprHandle) {
	if a.Kind != AtomInt && a.Kind != AtomConst {
		panic("model: Lt requires an integer-valued left atom")
	}
	return m.LeqH(a.Plus(1), b)
}

// Eq interns a == b.
func (m *Model) Eq(a, b Atom) Literal {
	l, _ := m.EqH(a, b)
	return l
}

// EqH is Eq, additionally returning the expression handle.
func (m *Model) EqH(a, b Atom) (Literal, ExprHandle) {
	return m.InternExprWith(Expr{Kind: ExprEq, A: a, B: b}, m.freshExprLit("eq"))
}

// Neq interns a != b as the negation of Eq(a, b). Literal negation is
// free (it flips a polarity bit), so this never creates a second
// expression handle or a second reasoner variable.
func (m *Model) Neq(a, b Atom) Literal {
	return m.Eq(a, b).Negate()
}

// And interns the conjunction of lits, short-circuiting on trivially
// true/false arguments (§4.2).
func (m *Model) And(lits ...Literal) Literal {
	falseLit := m.False()
	trueLit := m.True()
	kept := make([]Literal, 0, len(lits))
	for _, l := range lits {
		if l == falseLit {
			return falseLit
		}
		if l == trueLit {
			continue
		}
		kept = append(kept, l)
	}
	switch len(kept) {
	case 0:
		return trueLit
	case 1:
		return kept[0]
	default:
		l, _ := m.InternExprWith(Expr{Kind: ExprAnd, Args: kept}, m.freshExprLit("and"))
		return l
	}
}

// Or interns the disjunction of lits, short-circuiting on trivially
// true/false arguments (§4.2).
func (m *Model) Or(lits ...Literal) Literal {
	falseLit := m.False()
	trueLit := m.True()
	kept := make([]Literal, 0, len(lits))
	for _, l := range lits {
		if l == trueLit {
			return trueLit
		}
		if l == falseLit {
			continue
		}
		kept = append(kept, l)
	}
	switch len(kept) {
	case 0:
		return falseLit
	case 1:
		return kept[0]
	default:
		l, _ := m.InternExprWith(Expr{Kind: ExprOr, Args: kept}, m.freshExprLit("or"))
		return l
	}
}

// Implies interns a -> b as Or(Not(a), b).
func (m *Model) Implies(a, b Literal) Literal {
	return m.Or(a.Negate(), b)
}

// Not returns the negation of l. Free: flips a polarity bit, no interning.
func (m *Model) Not(l Literal) Literal { return l.Negate() }
