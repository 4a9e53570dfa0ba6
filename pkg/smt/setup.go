package smt

import (
	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/sat"
)

// RegisterModelVars registers every Boolean-domain variable currently in
// m with b. Variable creation (in finitization and encoding) happens
// before a Brancher exists to register them with, so callers run this
// once per fresh model — typically right before the first Solve — rather
// than threading the brancher through every NewBVar call site.
func RegisterModelVars(m *model.Model, b *sat.Brancher) {
	for i := 0; i < m.NumVars(); i++ {
		v := model.IVar(i)
		if m.Domain(v).IsBoolean() {
			b.RegisterVar(model.BVar(v))
		}
	}
}
