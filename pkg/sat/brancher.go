package sat

import (
	"container/heap"

	"github.com/gitrdm/lcp/pkg/backtrack"
	"github.com/gitrdm/lcp/pkg/model"
)

// No third-party priority-queue library is used here: nothing in the
// retrieved corpus imports one for an in-process, non-persistent decision
// heap like this — katalvlaran/lvlath's own Dijkstra implementation
// reaches for container/heap directly for the same reason (see
// DESIGN.md's stdlib-only justifications).

type heapItem struct {
	v        model.BVar
	activity float64
	index    int
}

type activityHeap []*heapItem

func (h activityHeap) Len() int            { return len(h) }
func (h activityHeap) Less(i, j int) bool  { return h[i].activity > h[j].activity }
func (h activityHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *activityHeap) Push(x interface{}) {
	item := x.(*heapItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *activityHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// DecisionKind tags the three possible results of NextDecision (§4.4).
type DecisionKind uint8

const (
	DecisionNone DecisionKind = iota
	DecisionSetLiteral
	DecisionRestart
)

// Decision is the result of one NextDecision call.
type Decision struct {
	Kind DecisionKind
	Lit  model.Literal
}

// Stats carries the conflict counters the brancher uses to decide
// whether to restart.
type Stats struct {
	NumConflicts int
}

// Brancher implements the activity-indexed decision heap of §4.4.
type Brancher struct {
	m *model.Model

	items map[model.BVar]*heapItem
	pq    activityHeap

	varInc        float64
	varDecay      float64
	increaseRatio float64

	preferredValue bool
	defaultValue   map[model.BVar]bool

	allowedConflicts       int
	conflictsAtLastRestart int

	undo *backtrack.Trail[model.BVar]
}

// NewBrancher creates a brancher with the defaults from §4.4.
func NewBrancher(m *model.Model) *Brancher {
	return &Brancher{
		m:                m,
		items:            make(map[model.BVar]*heapItem),
		varInc:           1.0,
		varDecay:         0.95,
		increaseRatio:    1.5,
		preferredValue:   false,
		defaultValue:     make(map[model.BVar]bool),
		allowedConflicts: 100,
		undo:             backtrack.NewTrail[model.BVar](),
	}
}

// RegisterVar adds v to the decision heap with zero activity. Called once
// per decision variable as it is created; not itself backtrackable (the
// variable exists for the lifetime of the model).
func (b *Brancher) RegisterVar(v model.BVar) {
	if _, ok := b.items[v]; ok {
		return
	}
	item := &heapItem{v: v, activity: 0}
	b.items[v] = item
	heap.Push(&b.pq, item)
}

// BumpActivity adds varInc to v's priority, rescaling every priority (and
// varInc itself) if any activity would exceed 1e100. Rescaling multiplies
// every priority by the same positive factor, so heap order is preserved
// without needing to re-heapify (§4.4, §8 "Activity rescaling preserves
// the heap order").
func (b *Brancher) BumpActivity(v model.BVar) {
	item, ok := b.items[v]
	if !ok {
		return
	}
	item.activity += b.varInc
	if item.activity > 1e100 {
		for _, it := range b.items {
			it.activity *= 1e-100
		}
		b.varInc *= 1e-100
	}
	if item.index >= 0 && item.index < len(b.pq) && b.pq[item.index] == item {
		heap.Fix(&b.pq, item.index)
	}
}

// Decay divides varInc by varDecay, making future bumps progressively
// larger (standard VSIDS decay).
func (b *Brancher) Decay() {
	b.varInc /= b.varDecay
}

// NumSaved implements backtrack.Saver.
func (b *Brancher) NumSaved() int { return b.undo.NumSaved() }

// SaveState opens a new backtracking level for the heap-removal trail.
func (b *Brancher) SaveState() int { return b.undo.Save() }

// RestoreLast re-enqueues every variable removed from the heap since the
// last SaveState.
func (b *Brancher) RestoreLast() {
	b.undo.RestoreLastWith(func(v model.BVar) {
		item, ok := b.items[v]
		if !ok {
			return
		}
		heap.Push(&b.pq, item)
	})
}

// Restore undoes levels down to (not including) level.
func (b *Brancher) Restore(level int) {
	for b.NumSaved() > level {
		b.RestoreLast()
	}
}

// SetDefaultAssignment caches the polarity v held in the most recent
// satisfying assignment, consulted by future decisions before falling
// back to preferredValue.
func (b *Brancher) SetDefaultAssignment(v model.BVar, value bool) {
	b.defaultValue[v] = value
}

func (b *Brancher) removeTop() *heapItem {
	item := heap.Pop(&b.pq).(*heapItem)
	b.undo.Push(item.v)
	return item
}

// NextDecision implements the §4.4 decision procedure.
func (b *Brancher) NextDecision(stats Stats) Decision {
	for b.pq.Len() > 0 && b.m.Value(b.pq[0].v) != model.Undef {
		b.removeTop()
	}
	if b.pq.Len() == 0 {
		return Decision{Kind: DecisionNone}
	}

	if stats.NumConflicts-b.conflictsAtLastRestart >= b.allowedConflicts {
		b.conflictsAtLastRestart = stats.NumConflicts
		b.allowedConflicts = int(float64(b.allowedConflicts) * b.increaseRatio)
		return Decision{Kind: DecisionRestart}
	}

	item := b.removeTop()
	polarity := b.preferredValue
	if pref, ok := b.defaultValue[item.v]; ok {
		polarity = pref
	}
	return Decision{Kind: DecisionSetLiteral, Lit: model.Literal{Var: item.v, Pos: polarity}}
}
