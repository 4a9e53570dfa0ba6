package sat

import "github.com/gitrdm/lcp/pkg/model"

// levelOfLit returns the decision level of l's underlying variable,
// independent of polarity. Variables never assigned by this reasoner
// (the model's permanent true/false constants, or variables another
// theory assigned directly) read as level 0, which conflict analysis
// treats the same as "fixed, never part of a learnt clause" — exactly
// the behavior §4.3 wants for those.
func (r *Reasoner) levelOfLit(l model.Literal) int { return r.levelOf[l.Var] }

// analyzer carries the working state of one 1-UIP derivation (§4.3, §4.6
// step 3). Ported from the conflict-set/pending-set formulation in
// etsangsplk/go-sat's solver.go (cH/cP/cN/cL), generalized from raw CNF
// literals to model.Literal.
type analyzer struct {
	r  *Reasoner
	cH map[model.Literal]struct{} // every falsified literal currently in the working clause
	cP map[model.Literal]struct{} // the subset from earlier decision levels (destined for the learnt clause)
	cL model.Literal              // most recently asserted literal whose negation is in cH
	cN int                        // count of cH literals at the current decision level
}

func (a *analyzer) add(l model.Literal) {
	if _, ok := a.cH[l]; ok {
		return
	}
	level := a.r.levelOfLit(l)
	if level == 0 {
		return
	}
	a.cH[l] = struct{}{}
	if level == a.r.CurrentLevel() {
		a.cN++
	} else {
		a.cP[l] = struct{}{}
	}
}

func (a *analyzer) remove(l model.Literal) {
	delete(a.cH, l)
	if a.r.levelOfLit(l) == a.r.CurrentLevel() {
		a.cN--
	} else {
		delete(a.cP, l)
	}
}

// findLast scans the trail backward for the most recently asserted
// literal whose negation still blocks resolution (is in cH).
func (a *analyzer) findLast() {
	for i := len(a.r.order) - 1; i >= 0; i-- {
		cand := a.r.order[i]
		if _, ok := a.cH[cand.Negate()]; ok {
			a.cL = cand
			return
		}
	}
}

// explain resolves lit's negation out of the working clause by replacing
// it with the rest of lit's antecedent clause.
func (a *analyzer) explain(lit model.Literal) {
	a.remove(lit.Negate())
	reason := a.r.reasonOf[lit]
	for _, l := range reason {
		if l != lit {
			a.add(l)
		}
	}
	a.findLast()
}

// Analyze derives a 1-UIP learnt clause from a falsified clause and
// returns it along with the backjump level: the highest decision level
// among the learnt clause's non-asserting literals, or 0 if none remain
// (meaning the driver must undo all the way to the root).
func (r *Reasoner) Analyze(conflict Clause) (learnt Clause, backjumpLevel int) {
	a := &analyzer{r: r, cH: make(map[model.Literal]struct{}), cP: make(map[model.Literal]struct{})}
	for _, l := range conflict {
		a.add(l)
	}
	a.findLast()
	for a.cN != 1 {
		a.explain(a.cL)
	}

	learnt = make(Clause, 0, len(a.cP)+1)
	level := 0
	for l := range a.cP {
		learnt = append(learnt, l)
		if lv := r.levelOfLit(l); lv > level {
			level = lv
		}
	}
	learnt = append(learnt, a.cL.Negate())
	return learnt, level
}
