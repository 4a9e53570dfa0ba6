package model

// AtomKind tags which case of the Atom union is populated.
type AtomKind uint8

const (
	// AtomInt represents the linear term Coeff*Var + Cst.
	AtomInt AtomKind = iota
	// AtomBool wraps a Literal directly.
	AtomBool
	// AtomSym is an opaque symbol-table reference carrying a type tag.
	AtomSym
	// AtomConst is a bare integer constant, the degenerate case of AtomInt
	// with no variable (Coeff == 0); kept distinct so callers can test for
	// it without a zero-IVar sentinel check.
	AtomConst
)

// Atom is the tagged union over integer atoms (α·v + k), Boolean atoms,
// symbolic atoms, and bare constants (§3).
type Atom struct {
	Kind  AtomKind
	Var   IVar
	Coeff int32
	Cst   int32
	Lit   Literal
	Sym   SymbolID
	Type  TypeID
}

// IntAtom builds the atom 1*v + 0.
func IntAtom(v IVar) Atom { return Atom{Kind: AtomInt, Var: v, Coeff: 1} }

// Const builds a constant atom equal to k.
func Const(k int32) Atom { return Atom{Kind: AtomConst, Cst: k} }

// BoolAtom wraps a literal as an atom.
func BoolAtom(l Literal) Atom { return Atom{Kind: AtomBool, Lit: l} }

// SymAtom builds a symbolic atom.
func SymAtom(s SymbolID, t TypeID) Atom { return Atom{Kind: AtomSym, Sym: s, Type: t} }

// Plus returns the atom shifted by k (α·v + (Cst+k)). Only meaningful for
// AtomInt/AtomConst; panics otherwise since shifting a symbol or a bare
// literal by an integer offset is not a defined operation.
func (a Atom) Plus(k int32) Atom {
	switch a.Kind {
	case AtomInt:
		return Atom{Kind: AtomInt, Var: a.Var, Coeff: a.Coeff, Cst: a.Cst + k}
	case AtomConst:
		return Atom{Kind: AtomConst, Cst: a.Cst + k}
	default:
		panic("model: Plus is only defined over integer atoms")
	}
}

// Scale returns the atom with its coefficient and constant multiplied by
// k. Only meaningful for AtomInt/AtomConst.
func (a Atom) Scale(k int32) Atom {
	switch a.Kind {
	case AtomInt:
		return Atom{Kind: AtomInt, Var: a.Var, Coeff: a.Coeff * k, Cst: a.Cst * k}
	case AtomConst:
		return Atom{Kind: AtomConst, Cst: a.Cst * k}
	default:
		panic("model: Scale is only defined over integer atoms")
	}
}

// IsGround reports whether the atom carries no variable reference at all
// (a bare constant).
func (a Atom) IsGround() bool { return a.Kind == AtomConst }
