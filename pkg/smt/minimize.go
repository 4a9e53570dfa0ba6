package smt

import (
	"github.com/gitrdm/lcp/pkg/model"
	"github.com/gitrdm/lcp/pkg/sat"
)

// MinimizeWith implements §4.6's minimize_with: repeatedly solve, report
// each improving assignment to callback, then assert objective < value
// and resolve again. It returns the last reported value once the Boolean
// layer proves no further improvement is possible; found is false if no
// satisfying assignment existed at all.
func (d *Driver) MinimizeWith(objective model.IVar, callback func(value int32)) (lastValue int32, found bool) {
	for {
		if !d.Solve() {
			return lastValue, found
		}
		value := d.Model().Domain(objective).UB
		callback(value)
		lastValue, found = value, true

		lit, handle := d.Model().LtH(model.IntAtom(objective), model.Const(value))
		if err := d.Bind(lit, handle); err != nil {
			return lastValue, found
		}
		if d.r.CurrentLevel() != 0 {
			d.restoreAll(0)
			d.rewindEventCursors()
		}
		if _, err := d.r.AddClause(sat.Clause{lit}); err != nil {
			return lastValue, found
		}
	}
}

// Model exposes the driver's underlying model, needed by callers that
// read off a satisfying assignment (the chronicle decoder, the CLI's
// plan printer).
func (d *Driver) Model() *model.Model { return d.m }

// Reasoner exposes the driver's Boolean reasoner, needed for reading the
// final assignment order when decoding a plan.
func (d *Driver) Reasoner() *sat.Reasoner { return d.r }

// Brancher exposes the driver's decision heap, needed by callers that
// must register newly created Boolean variables (encoding happens after
// New but before the first Solve) via smt.RegisterModelVars.
func (d *Driver) Brancher() *sat.Brancher { return d.b }
