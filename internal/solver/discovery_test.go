package solver

import (
	"context"
	"testing"
)

func TestDiscoverWeakLinksStaysSymmetric(t *testing.T) {
	s := NewSolver(Config{EnableWeakLinkDiscovery: true})
	if res, err := s.FinalizeConstraints(context.Background()); err != nil || res == LogicInvalid {
		t.Fatalf("Finalize with discovery failed: res=%v err=%v", res, err)
	}
	for ci := 0; ci < NumCandidates; ci++ {
		list := s.WeakLinkList(ci)
		for i := 1; i < len(list); i++ {
			if list[i-1] >= list[i] {
				t.Fatalf("Adjacency of %d unsorted after discovery", ci)
			}
		}
		for _, other := range list {
			if !s.IsWeakLink(int(other), ci) {
				t.Fatalf("Discovery broke symmetry: %d -> %d", ci, other)
			}
		}
	}
}

func TestDiscoveredLinksAreSound(t *testing.T) {
	// On the canonical puzzle, discovery must only add links that singles
	// propagation does not contradict: after setting candidate a and
	// propagating singles, no candidate b linked to a may end up placed.
	s := NewSolver(Config{})
	if res, err := s.FinalizeConstraints(context.Background()); err != nil || res == LogicInvalid {
		t.Fatalf("Finalize failed: res=%v err=%v", res, err)
	}
	applyGivens(t, s, canonicalGivens)

	base := s.Clone(true)
	if res, err := s.DiscoverWeakLinks(context.Background()); err != nil || res == LogicInvalid {
		t.Fatalf("Discovery failed: res=%v err=%v", res, err)
	}

	// Sample a handful of open candidates and verify their links.
	checked := 0
	for cell := 0; cell < NumCells && checked < 5; cell++ {
		m := s.board[cell]
		if m.IsSet() || m.Count() < 2 {
			continue
		}
		v := m.Min()
		ci := CandidateIndex(cell, v)
		trial := base.Clone(true)
		if !trial.SetValueByIndex(cell, v) {
			continue
		}
		if res, err := trial.ApplySingles(context.Background()); err != nil || res == LogicInvalid {
			continue
		}
		for _, other := range s.WeakLinkList(ci) {
			oc, ov := CandidateCell(int(other)), CandidateValue(int(other))
			if trial.board[oc].IsSet() && trial.board[oc].Value() == ov {
				t.Fatalf("Unsound link: %s claims to exclude %s but propagation places it",
					CandidateName(ci), CandidateName(int(other)))
			}
		}
		checked++
	}
	if checked == 0 {
		t.Skip("No open multi-candidate cells to sample")
	}
}
