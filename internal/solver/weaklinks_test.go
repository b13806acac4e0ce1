package solver

import (
	"context"
	"testing"
)

func newStandardSolver(t *testing.T) *Solver {
	t.Helper()
	s := NewSolver(Config{})
	if res, err := s.FinalizeConstraints(context.Background()); err != nil || res == LogicInvalid {
		t.Fatalf("Finalize failed: res=%v err=%v", res, err)
	}
	return s
}

func TestWeakLinkSymmetryAndOrder(t *testing.T) {
	s := newStandardSolver(t)

	// Every adjacency list is sorted, duplicate-free, and mirrored.
	for ci := 0; ci < NumCandidates; ci++ {
		list := s.WeakLinkList(ci)
		for i := 1; i < len(list); i++ {
			if list[i-1] >= list[i] {
				t.Fatalf("Adjacency of %d not strictly sorted at %d", ci, i)
			}
		}
		for _, other := range list {
			if !s.IsWeakLink(int(other), ci) {
				t.Fatalf("Asymmetric link: %d -> %d", ci, other)
			}
		}
	}
}

func TestGroupImpliedLinksExist(t *testing.T) {
	s := newStandardSolver(t)

	// For every group, every cell pair, every value: the same-value pair
	// must be weak-linked.
	for _, g := range s.Groups() {
		for i := 0; i < len(g.Cells); i++ {
			for j := i + 1; j < len(g.Cells); j++ {
				for v := 1; v <= MaxValue; v++ {
					if !s.IsWeakLink(CandidateIndex(g.Cells[i], v), CandidateIndex(g.Cells[j], v)) {
						t.Fatalf("Missing group link: %s and %s value %d in %s",
							CellName(g.Cells[i]), CellName(g.Cells[j]), v, g.Name)
					}
				}
			}
		}
	}
}

func TestValueSetExclusivityLinks(t *testing.T) {
	s := newStandardSolver(t)

	// A cell holds one value: all in-cell value pairs are linked.
	for cell := 0; cell < NumCells; cell++ {
		for v0 := 1; v0 <= MaxValue; v0++ {
			for v1 := 1; v1 <= MaxValue; v1++ {
				got := s.IsWeakLink(CandidateIndex(cell, v0), CandidateIndex(cell, v1))
				want := v0 != v1
				if got != want {
					t.Fatalf("Cell %s values %d/%d: link=%v want %v", CellName(cell), v0, v1, got, want)
				}
			}
		}
	}
}

func TestAddWeakLinkKeepsInvariants(t *testing.T) {
	s := newStandardSolver(t)

	a := CandidateIndex(CellIndex(0, 0), 1)
	b := CandidateIndex(CellIndex(8, 8), 9)
	if s.IsWeakLink(a, b) {
		t.Fatal("Unrelated corner candidates should not start linked")
	}
	s.AddWeakLink(a, b)
	s.AddWeakLink(a, b) // duplicate insert must be a no-op
	if !s.IsWeakLink(a, b) || !s.IsWeakLink(b, a) {
		t.Fatal("AddWeakLink did not record both directions")
	}
	count := 0
	for _, other := range s.WeakLinkList(a) {
		if int(other) == b {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Expected exactly one entry for the link, got %d", count)
	}
}

func TestCalcElims(t *testing.T) {
	s := newStandardSolver(t)

	// Value 5 in r1c1 and r1c2: both see the rest of row 1 and the
	// top-left box, so 5 is eliminated from the common peers.
	a := CandidateIndex(CellIndex(0, 0), 5)
	b := CandidateIndex(CellIndex(0, 1), 5)
	elims := s.CalcElims(a, b)
	if len(elims) == 0 {
		t.Fatal("Expected eliminations for two candidates sharing a row")
	}
	want := map[int]bool{}
	// The remaining 7 cells of row 1 plus the 6 box cells in rows 2 and 3.
	for c := 2; c < Width; c++ {
		want[CandidateIndex(CellIndex(0, c), 5)] = true
	}
	for r := 1; r < BoxHeight; r++ {
		for c := 0; c < BoxWidth; c++ {
			want[CandidateIndex(CellIndex(r, c), 5)] = true
		}
	}
	if len(elims) != len(want) {
		t.Fatalf("Expected %d eliminations, got %d", len(want), len(elims))
	}
	for _, ci := range elims {
		if !want[ci] {
			t.Fatalf("Unexpected elimination %s", CandidateName(ci))
		}
	}
}
