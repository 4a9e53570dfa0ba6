package stn

// extractCycleImpl rebuilds a negative cycle through culprit by following
// causes: first backward through forward_cause (the standard case, where
// culprit's own forward distance was the one that went negative), then,
// if that walk reaches the origin without closing a cycle, forward
// through backward_cause. Ported from
// original_source/tnet/src/stn.rs's IncSTN::extract_cycle_impl.
func (s *STN) extractCycleImpl(culprit Timepoint) {
	s.explanation = s.explanation[:0]
	for k := range s.visited {
		delete(s.visited, k)
	}

	current := culprit
	for {
		s.visited[current] = struct{}{}
		d := &s.distances[current]
		if !d.hasForwardCause {
			panic("stn: no cause on member of cycle")
		}
		nextID := d.forwardCause
		next := s.constraints.get(nextID).edge.Source
		s.explanation = append(s.explanation, nextID)
		if next == current {
			if current != Origin {
				panic("stn: self loop only expected on origin")
			}
			break
		}
		current = next
		if current == culprit {
			return
		}
		if current == Origin {
			break
		}
		if _, seen := s.visited[current]; seen {
			cycleStart := -1
			for i, id := range s.explanation {
				if s.constraints.get(id).edge.Target == current {
					cycleStart = i
					break
				}
			}
			s.explanation = s.explanation[cycleStart:]
			return
		}
	}

	addedByBackwardPass := len(s.explanation)
	current = culprit
	for k := range s.visited {
		delete(s.visited, k)
	}
	for {
		s.visited[current] = struct{}{}
		d := &s.distances[current]
		if !d.hasBackwardCause {
			panic("stn: no cause on member of cycle")
		}
		nextID := d.backwardCause
		s.explanation = append(s.explanation, nextID)
		current = s.constraints.get(nextID).edge.Target

		if current == Origin {
			return
		}
		if current == culprit {
			s.explanation = s.explanation[addedByBackwardPass:]
			return
		}
		if _, seen := s.visited[current]; seen {
			cycleStart := -1
			for i, id := range s.explanation[addedByBackwardPass:] {
				if s.constraints.get(id).edge.Source == current {
					cycleStart = addedByBackwardPass + i
					break
				}
			}
			s.explanation = s.explanation[cycleStart:]
			return
		}
	}
}

// extractCycle returns the explanation slice after rebuilding it around
// culprit. The returned slice aliases s.explanation and is only valid
// until the next propagation or extraction.
func (s *STN) extractCycle(culprit Timepoint) []EdgeID {
	s.extractCycleImpl(culprit)
	return s.explanation
}
