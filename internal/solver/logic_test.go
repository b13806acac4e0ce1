package solver

import (
	"strings"
	"testing"
)

func TestNakedSingleStep(t *testing.T) {
	s := newStandardSolver(t)
	// Leave r1c1 with just the 7.
	if res := s.KeepMask(0, 0, ValueMask(7)); res != LogicChanged {
		t.Fatalf("KeepMask = %v", res)
	}

	sink := &StepSink{}
	if res := s.FindNakedSingles(sink); res != LogicChanged {
		t.Fatalf("Expected a naked single, got %v", res)
	}
	if got := s.Cell(0, 0); !got.IsSet() || got.Value() != 7 {
		t.Fatalf("r1c1 should be 7, got %s", got)
	}
	if len(sink.Steps) != 1 || !sink.Steps[0].IsSingle {
		t.Fatalf("Expected one single step, got %+v", sink.Steps)
	}
	if !strings.Contains(sink.Steps[0].Description, "r1c1=7") {
		t.Errorf("Step description should name the placement: %q", sink.Steps[0].Description)
	}
}

func TestHiddenSingleStep(t *testing.T) {
	s := newStandardSolver(t)
	// Remove 4 from every row-1 cell except r1c5.
	for c := 0; c < Width; c++ {
		if c == 4 {
			continue
		}
		if !s.ClearValue(0, c, 4) {
			t.Fatalf("ClearValue emptied r1c%d", c+1)
		}
	}

	sink := &StepSink{}
	if res := s.FindHiddenSingles(sink); res != LogicChanged {
		t.Fatalf("Expected a hidden single, got %v", res)
	}
	if got := s.Cell(0, 4); !got.IsSet() || got.Value() != 4 {
		t.Fatalf("r1c5 should be 4, got %s", got)
	}
}

func TestHiddenSingleDetectsMissingValue(t *testing.T) {
	s := newStandardSolver(t)
	// Remove 4 from the whole of row 1: no place left, proof of
	// invalidity.
	for c := 0; c < Width; c++ {
		s.ClearValue(0, c, 4)
	}
	if res := s.FindHiddenSingles(nil); res != LogicInvalid {
		t.Errorf("Expected invalid, got %v", res)
	}
}

func TestNakedPairElimination(t *testing.T) {
	s := newStandardSolver(t)
	pairMask := ValueMask(1) | ValueMask(2)
	s.KeepMask(0, 0, pairMask)
	s.KeepMask(0, 1, pairMask)

	sink := &StepSink{}
	if res := s.FindNakedPairs(sink); res != LogicChanged {
		t.Fatalf("Expected pair eliminations, got %v", res)
	}
	// 1 and 2 must be gone from the rest of row 1 and of box 1.
	for c := 2; c < Width; c++ {
		if s.Cell(0, c).Has(1) || s.Cell(0, c).Has(2) {
			t.Errorf("r1c%d still holds a pair digit: %s", c+1, s.Cell(0, c))
		}
	}
	for r := 1; r < BoxHeight; r++ {
		for c := 0; c < BoxWidth; c++ {
			if s.Cell(r, c).Has(1) || s.Cell(r, c).Has(2) {
				t.Errorf("r%dc%d still holds a pair digit: %s", r+1, c+1, s.Cell(r, c))
			}
		}
	}
}

func TestPointingElimination(t *testing.T) {
	s := newStandardSolver(t)
	// Confine 3 within box 1 to r1c1 and r1c2: pointing eliminates 3
	// from the rest of row 1.
	for r := 0; r < BoxHeight; r++ {
		for c := 0; c < BoxWidth; c++ {
			if r == 0 && c < 2 {
				continue
			}
			if !s.ClearValue(r, c, 3) {
				t.Fatalf("ClearValue emptied r%dc%d", r+1, c+1)
			}
		}
	}

	sink := &StepSink{}
	if res := s.FindPointing(sink); res != LogicChanged {
		t.Fatalf("Expected pointing eliminations, got %v", res)
	}
	for c := 2; c < Width; c++ {
		if s.Cell(0, c).Has(3) {
			t.Errorf("r1c%d should have lost 3", c+1)
		}
	}
	// Other rows keep their 3s outside the box.
	if !s.Cell(1, 8).Has(3) {
		t.Error("r2c9 should still hold 3")
	}
}

func TestCellForcingViaExtraLinks(t *testing.T) {
	s := newStandardSolver(t)
	// Give r1c1 two candidates and link both to 5r5c5 — whichever is
	// true, 5r5c5 dies.
	s.KeepMask(0, 0, ValueMask(1)|ValueMask(2))
	target := CandidateIndex(CellIndex(4, 4), 5)
	s.AddWeakLink(CandidateIndex(CellIndex(0, 0), 1), target)
	s.AddWeakLink(CandidateIndex(CellIndex(0, 0), 2), target)

	if res := s.FindCellForcing(nil); res != LogicChanged {
		t.Fatalf("Expected cell forcing, got %v", res)
	}
	if s.Cell(4, 4).Has(5) {
		t.Error("5r5c5 should be eliminated by cell forcing")
	}
}

func TestFindBilocalValue(t *testing.T) {
	s := newStandardSolver(t)
	// Confine 6 in row 3 to two cells.
	for c := 0; c < Width; c++ {
		if c == 2 || c == 7 {
			continue
		}
		if !s.ClearValue(2, c, 6) {
			t.Fatalf("ClearValue emptied r3c%d", c+1)
		}
	}
	ci0, ci1, ok := s.FindBilocalValue()
	if !ok {
		t.Fatal("Expected a bilocal value")
	}
	cells := map[int]bool{CandidateCell(ci0): true, CandidateCell(ci1): true}
	if !cells[CellIndex(2, 2)] || !cells[CellIndex(2, 7)] {
		t.Errorf("Bilocal found wrong cells: %s, %s", CandidateName(ci0), CandidateName(ci1))
	}
	if CandidateValue(ci0) != 6 || CandidateValue(ci1) != 6 {
		t.Errorf("Bilocal found wrong value: %s, %s", CandidateName(ci0), CandidateName(ci1))
	}
}

func TestEvaluatorTieBreakBranch(t *testing.T) {
	low := stepRunner{name: "easy", difficulty: 2}
	high := stepRunner{name: "hard", difficulty: 8}

	// With PreferEffectiveness < 0.5 and equal combined scores, the
	// secondary key is difficulty: the easier step wins.
	a := &evaluatedStep{runner: low, combined: 1.0, secondary: low.difficulty}
	b := &evaluatedStep{runner: high, combined: 1.0, secondary: high.difficulty}
	if !a.better(b) || b.better(a) {
		t.Error("Equal combined scores must fall through to the secondary key")
	}

	// Invalid-revealing steps outrank everything.
	inv := &evaluatedStep{runner: high, invalid: true}
	if !inv.better(a) {
		t.Error("Invalid-revealing step must outrank scored steps")
	}
}
