package stn

import "go.uber.org/zap"

// Origin is always timepoint 0: a node fixed to [0, 0] by construction.
const Origin Timepoint = 0

type distance struct {
	initialized bool

	forward        int32
	forwardCause   EdgeID
	hasForwardCause bool
	forwardPending bool

	backward        int32
	backwardCause   EdgeID
	hasBackwardCause bool
	backwardPending bool
}

type fwdActive struct {
	target Timepoint
	weight int32
	id     EdgeID
}

type bwdActive struct {
	source Timepoint
	weight int32
	id     EdgeID
}

type eventKind uint8

const (
	evLevel eventKind = iota
	evNodeReserved
	evNodeInitialized
	evEdgeAdded
	evNewPendingActivation
	evEdgeActivated
	evForwardUpdate
	evBackwardUpdate
)

type event struct {
	kind eventKind

	level int

	tp Timepoint

	edge EdgeID

	prevDist     int32
	prevCause    EdgeID
	hadPrevCause bool
}

type activation struct {
	isBacktrackPoint bool
	level            int
	edge             EdgeID
}

// STN is the incremental Simple Temporal Network of §4.5. The zero value
// is not usable; construct with New.
type STN struct {
	constraints *constraintDB

	activeForward  [][]fwdActive
	activeBackward [][]bwdActive
	distances      []distance

	trail []event
	level int

	pendingActivations []activation

	explanation []EdgeID

	propagateQueue []Timepoint
	visited        map[Timepoint]struct{}

	log *zap.SugaredLogger
}

// New creates an STN containing only the origin timepoint, fixed to
// [0, 0]. Initialization is not itself undoable: SaveState/RestoreLast
// only ever see state created after New returns.
func New(log *zap.SugaredLogger) *STN {
	s := &STN{
		constraints: newConstraintDB(),
		visited:     make(map[Timepoint]struct{}),
		log:         log,
	}
	origin := s.AddTimepoint(0, 0)
	if origin != Origin {
		panic("stn: origin must be timepoint 0")
	}
	s.trail = s.trail[:0]
	return s
}

func (s *STN) numNodes() int { return len(s.activeForward) }

// LB returns node's current lower bound.
func (s *STN) LB(tp Timepoint) int32 { return -s.distances[tp].backward }

// UB returns node's current upper bound.
func (s *STN) UB(tp Timepoint) int32 { return s.distances[tp].forward }

// ReserveTimepoint allocates a new node without fixing its bounds; callers
// must follow with InitTimepoint before using it in constraints.
func (s *STN) ReserveTimepoint() Timepoint {
	id := Timepoint(s.numNodes())
	s.activeForward = append(s.activeForward, nil)
	s.activeBackward = append(s.activeBackward, nil)
	s.distances = append(s.distances, distance{})
	s.trail = append(s.trail, event{kind: evNodeReserved})
	return id
}

// InitTimepoint fixes tp's initial bounds, synthesizing the two hidden
// edges Origin --(ub)--> tp and tp --(-lb)--> Origin. Panics if tp is
// already initialized or lb > ub.
func (s *STN) InitTimepoint(tp Timepoint, lb, ub int32) {
	if int(tp) >= s.numNodes() {
		panic("stn: unreserved timepoint")
	}
	if s.distances[tp].initialized {
		panic("stn: timepoint already initialized")
	}
	if lb > ub {
		panic("stn: lb > ub")
	}
	fwdEdge, _ := s.addInactiveConstraint(Origin, tp, ub, true)
	bwdEdge, _ := s.addInactiveConstraint(tp, Origin, -lb, true)
	s.markActive(fwdEdge)
	s.markActive(bwdEdge)
	s.distances[tp] = distance{
		initialized:      true,
		forward:          ub,
		forwardCause:     fwdEdge,
		hasForwardCause:  true,
		backward:         -lb,
		backwardCause:    bwdEdge,
		hasBackwardCause: true,
	}
	s.trail = append(s.trail, event{kind: evNodeInitialized, tp: tp})
}

// AddTimepoint reserves and initializes a node with domain [lb, ub] in one
// step, returning its id.
func (s *STN) AddTimepoint(lb, ub int32) Timepoint {
	tp := s.ReserveTimepoint()
	s.InitTimepoint(tp, lb, ub)
	return tp
}

// AddEdge records and activates the constraint target - source <= weight.
// The caller must call PropagateAll afterwards to see its effects.
func (s *STN) AddEdge(source, target Timepoint, weight int32) EdgeID {
	id := s.AddInactiveEdge(source, target, weight)
	s.markActive(id)
	return id
}

// AddInactiveEdge records target - source <= weight without activating it.
// The network remains consistent since the edge does not yet participate
// in propagation; activate it later with MarkActive.
func (s *STN) AddInactiveEdge(source, target Timepoint, weight int32) EdgeID {
	id, _ := s.addInactiveConstraint(source, target, weight, false)
	return id
}

// RecordConstraint records (but does not activate) target - source <=
// weight, unifying with an existing edge if one is structurally
// identical. Exported for the SMT binding layer (DiffLogicTheory), which
// must record an edge before it knows whether its literal will ever be
// asserted true.
func (s *STN) RecordConstraint(source, target Timepoint, weight int32) (EdgeID, bool) {
	return s.addInactiveConstraint(source, target, weight, false)
}

func (s *STN) addInactiveConstraint(source, target Timepoint, weight int32, hidden bool) (EdgeID, bool) {
	if int(source) >= s.numNodes() || int(target) >= s.numNodes() {
		panic("stn: unrecorded timepoint")
	}
	id, created := s.constraints.push(Edge{Source: source, Target: target, Weight: weight}, hidden)
	if created {
		s.trail = append(s.trail, event{kind: evEdgeAdded})
	}
	return id, created
}

func (s *STN) markActive(edge EdgeID) {
	s.pendingActivations = append(s.pendingActivations, activation{edge: edge})
	s.trail = append(s.trail, event{kind: evNewPendingActivation})
}

// MarkActive enqueues edge for activation on the next PropagateAll. No
// change is visible until that call.
func (s *STN) MarkActive(edge EdgeID) {
	if !s.constraints.hasEdge(edge) {
		panic("stn: unknown edge")
	}
	s.markActive(edge)
}

// PropagateAll activates every pending edge and runs Cesta96 incremental
// propagation to a fixed point. On success it returns (true, nil, changed)
// with the timepoints whose bounds moved; on inconsistency it returns
// (false, explanation, nil) where explanation is a negative cycle of edge
// ids. The cycle may include the hidden bound edges InitTimepoint
// synthesized; callers that surface it externally filter those.
func (s *STN) PropagateAll() (bool, []EdgeID, []Timepoint) {
	trailOffset := len(s.trail)
	for len(s.pendingActivations) > 0 {
		act := s.pendingActivations[0]
		s.pendingActivations = s.pendingActivations[1:]
		if act.isBacktrackPoint {
			continue
		}
		edge := act.edge
		c := s.constraints.get(edge)
		e := c.edge
		if e.Source == e.Target {
			if e.Weight < 0 {
				s.explanation = s.explanation[:0]
				s.explanation = append(s.explanation, edge)
				return false, s.explanation, nil
			}
			continue
		}
		if c.active {
			continue
		}
		c.active = true
		s.activeForward[e.Source] = append(s.activeForward[e.Source], fwdActive{target: e.Target, weight: e.Weight, id: edge})
		s.activeBackward[e.Target] = append(s.activeBackward[e.Target], bwdActive{source: e.Source, weight: e.Weight, id: edge})
		s.trail = append(s.trail, event{kind: evEdgeActivated, edge: edge})
		if ok, explanation := s.propagate(edge); !ok {
			return false, explanation, nil
		}
	}
	return true, nil, s.changedTimepointsSince(trailOffset)
}

// changedTimepointsSince returns, in first-touched order, every timepoint
// whose forward or backward distance was updated since the given trail
// offset (§4.5's "lazy sequence of VarEvent" exposed to theory callers).
func (s *STN) changedTimepointsSince(offset int) []Timepoint {
	if offset >= len(s.trail) {
		return nil
	}
	seen := make(map[Timepoint]struct{})
	var out []Timepoint
	for _, ev := range s.trail[offset:] {
		if ev.kind != evForwardUpdate && ev.kind != evBackwardUpdate {
			continue
		}
		if _, ok := seen[ev.tp]; ok {
			continue
		}
		seen[ev.tp] = struct{}{}
		out = append(out, ev.tp)
	}
	return out
}

// propagate implements [Cesta96]: it propagates a newly activated edge
// through a consistent network, ported from original_source/tnet's
// IncSTN::propagate.
func (s *STN) propagate(newEdge EdgeID) (bool, []EdgeID) {
	s.propagateQueue = s.propagateQueue[:0]
	c := s.constraints.get(newEdge)
	source, target := c.edge.Source, c.edge.Target
	if source == target {
		panic("stn: propagate does not support self loops")
	}
	s.propagateQueue = append(s.propagateQueue, source, target)

	s.distances[source].forwardPending = true
	s.distances[source].backwardPending = true
	s.distances[target].forwardPending = true
	s.distances[target].backwardPending = true

	targetUpdatedUB := false
	sourceUpdatedLB := false

	for len(s.propagateQueue) > 0 {
		u := s.propagateQueue[0]
		s.propagateQueue = s.propagateQueue[1:]

		if s.distances[u].forwardPending {
			for _, out := range s.activeForward[u] {
				src := u
				prev := s.distances[out.target].forward
				candidate := saturatingAdd(s.distances[src].forward, out.weight)
				if candidate < prev {
					s.trail = append(s.trail, event{
						kind: evForwardUpdate, tp: out.target,
						prevDist: prev, prevCause: s.distances[out.target].forwardCause,
						hadPrevCause: s.distances[out.target].hasForwardCause,
					})
					s.distances[out.target].forward = candidate
					s.distances[out.target].forwardCause = out.id
					s.distances[out.target].hasForwardCause = true
					s.distances[out.target].forwardPending = true

					if saturatingAdd(candidate, s.distances[out.target].backward) < 0 {
						return false, s.extractCycle(out.target)
					}
					if out.target == target {
						if targetUpdatedUB {
							return false, s.extractCycle(out.target)
						}
						targetUpdatedUB = true
					}
					s.propagateQueue = append(s.propagateQueue, out.target)
				}
			}
		}

		if s.distances[u].backwardPending {
			for _, in := range s.activeBackward[u] {
				tgt := u
				prev := s.distances[in.source].backward
				candidate := saturatingAdd(s.distances[tgt].backward, in.weight)
				if candidate < prev {
					s.trail = append(s.trail, event{
						kind: evBackwardUpdate, tp: in.source,
						prevDist: prev, prevCause: s.distances[in.source].backwardCause,
						hadPrevCause: s.distances[in.source].hasBackwardCause,
					})
					s.distances[in.source].backward = candidate
					s.distances[in.source].backwardCause = in.id
					s.distances[in.source].hasBackwardCause = true
					s.distances[in.source].backwardPending = true

					if saturatingAdd(candidate, s.distances[in.source].forward) < 0 {
						return false, s.extractCycle(in.source)
					}
					if in.source == source {
						if sourceUpdatedLB {
							return false, s.extractCycle(in.source)
						}
						sourceUpdatedLB = true
					}
					s.propagateQueue = append(s.propagateQueue, in.source)
				}
			}
		}

		s.distances[u].forwardPending = false
		s.distances[u].backwardPending = false
	}
	return true, nil
}

// SetBacktrackPoint opens a new backtracking level. Panics if a
// propagation is pending, matching the teacher's precondition (§8 Open
// Question resolution: the precondition is kept, not silently drained —
// see DESIGN.md).
func (s *STN) SetBacktrackPoint() int {
	if len(s.pendingActivations) > 0 {
		panic("stn: cannot set a backtrack point with a pending propagation")
	}
	s.level++
	s.pendingActivations = append(s.pendingActivations, activation{isBacktrackPoint: true, level: s.level})
	s.trail = append(s.trail, event{kind: evLevel, level: s.level})
	return s.level
}

// NumSaved implements backtrack.Saver.
func (s *STN) NumSaved() int { return s.level }

// SaveState is an alias for SetBacktrackPoint, named to match the
// Model/Reasoner/Brancher lockstep interface (§5).
func (s *STN) SaveState() int { return s.SetBacktrackPoint() }

// UndoToLastBacktrackPoint reverts every change made since the most
// recent SetBacktrackPoint call, or does nothing if there is none.
func (s *STN) UndoToLastBacktrackPoint() {
	if s.level == 0 {
		return
	}
	for len(s.pendingActivations) > 0 {
		act := s.pendingActivations[len(s.pendingActivations)-1]
		s.pendingActivations = s.pendingActivations[:len(s.pendingActivations)-1]
		if act.isBacktrackPoint {
			break
		}
	}
	for len(s.trail) > 0 {
		ev := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		switch ev.kind {
		case evLevel:
			s.level--
			return
		case evNodeReserved:
			s.activeForward = s.activeForward[:len(s.activeForward)-1]
			s.activeBackward = s.activeBackward[:len(s.activeBackward)-1]
			s.distances = s.distances[:len(s.distances)-1]
		case evNodeInitialized:
			s.distances[ev.tp].initialized = false
		case evEdgeAdded:
			s.constraints.popLast()
		case evNewPendingActivation:
			if len(s.pendingActivations) > 0 {
				s.pendingActivations = s.pendingActivations[:len(s.pendingActivations)-1]
			}
		case evEdgeActivated:
			c := s.constraints.get(ev.edge)
			s.activeForward[c.edge.Source] = s.activeForward[c.edge.Source][:len(s.activeForward[c.edge.Source])-1]
			s.activeBackward[c.edge.Target] = s.activeBackward[c.edge.Target][:len(s.activeBackward[c.edge.Target])-1]
			c.active = false
		case evForwardUpdate:
			d := &s.distances[ev.tp]
			d.forward = ev.prevDist
			d.forwardCause = ev.prevCause
			d.hasForwardCause = ev.hadPrevCause
		case evBackwardUpdate:
			d := &s.distances[ev.tp]
			d.backward = ev.prevDist
			d.backwardCause = ev.prevCause
			d.hasBackwardCause = ev.hadPrevCause
		}
	}
}

// RestoreLast implements the Model/Reasoner/Brancher lockstep interface.
func (s *STN) RestoreLast() { s.UndoToLastBacktrackPoint() }

// Restore undoes levels down to (not including) level.
func (s *STN) Restore(level int) {
	for s.NumSaved() > level {
		s.RestoreLast()
	}
}
