package chronicles

import "github.com/gitrdm/lcp/pkg/model"

// compareAtoms classifies a structural relationship between two atoms
// without touching the model: equal is true when they are provably the
// same value without needing a theory literal (so a disequality/equality
// literal for this position would be redundant — §4.7.2 "Equal positions
// contribute no disequality literal, they cannot separate"); neverEqual
// is true when they are provably different ground values (so the whole
// pair is trivially non-unifiable and should be skipped — §4.7.2 "Skip
// trivially non-unifiable pairs").
func compareAtoms(a, b model.Atom) (equal, neverEqual bool) {
	switch {
	case a.Kind == model.AtomConst && b.Kind == model.AtomConst:
		return a.Cst == b.Cst, a.Cst != b.Cst
	case a.Kind == model.AtomSym && b.Kind == model.AtomSym:
		same := a.Sym == b.Sym && a.Type == b.Type
		return same, !same
	case a.Kind == model.AtomBool && b.Kind == model.AtomBool:
		return a.Lit == b.Lit, false
	case a.Kind == model.AtomInt && b.Kind == model.AtomInt:
		same := a.Var == b.Var && a.Coeff == b.Coeff && a.Cst == b.Cst
		return same, false
	default:
		return false, false
	}
}

// unifiableSignature reports whether two state-variable signatures can
// possibly match: same arity and no position pair is provably unequal.
// diseqPositions lists the positions that do need a dynamic disequality
// literal (every position except those compareAtoms already proved
// equal).
func unifiableSignature(a, b []model.Atom) (ok bool, diseqPositions []int) {
	if len(a) != len(b) {
		return false, nil
	}
	for k := range a {
		eq, ne := compareAtoms(a[k], b[k])
		if ne {
			return false, nil
		}
		if !eq {
			diseqPositions = append(diseqPositions, k)
		}
	}
	return true, diseqPositions
}
