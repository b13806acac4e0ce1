package solver

import "context"

// Weak-link discovery: for every open candidate, speculatively set it on
// a clone and propagate singles; every candidate that disappears from
// another cell is an implication the graph can carry as a weak link. A
// trial that dies proves the candidate itself is impossible and removes
// it from the host. Runs inside finalize, iterated to fixpoint, so the
// graph is still immutable by the time user-facing solves start.
func (s *Solver) DiscoverWeakLinks(ctx context.Context) (LogicResult, error) {
	overall := LogicNone
	for {
		changed := false
		for cell := 0; cell < NumCells; cell++ {
			m := s.board[cell]
			if m.IsSet() {
				continue
			}
			for v := 1; v <= MaxValue; v++ {
				if err := ctx.Err(); err != nil {
					return overall, err
				}
				if !m.Has(v) {
					continue
				}
				trial := s.Clone(false)
				ok := trial.SetValueByIndex(cell, v)
				if ok {
					res, err := trial.ApplySingles(ctx)
					if err != nil {
						return overall, err
					}
					ok = res != LogicInvalid
				}
				ci := CandidateIndex(cell, v)
				if !ok {
					// The candidate is impossible outright.
					if !s.ClearCandidate(ci) {
						return LogicInvalid, nil
					}
					m = s.board[cell]
					overall = LogicChanged
					changed = true
					continue
				}
				for other := 0; other < NumCells; other++ {
					if other == cell {
						continue
					}
					removed := s.board[other].Candidates() &^ trial.board[other].Candidates()
					for ov := 1; ov <= MaxValue; ov++ {
						if !removed.Has(ov) {
							continue
						}
						oci := CandidateIndex(other, ov)
						if !s.IsWeakLink(ci, oci) {
							s.AddWeakLink(ci, oci)
							changed = true
						}
					}
				}
			}
		}
		if !changed {
			return overall, nil
		}
	}
}
