package solver

import "testing"

func TestMaskBasics(t *testing.T) {
	m := ValueMask(1) | ValueMask(2) | ValueMask(5)

	if m.Count() != 3 {
		t.Errorf("Expected 3 candidates, got %d", m.Count())
	}
	if m.Min() != 1 || m.Max() != 5 {
		t.Errorf("Expected min 1 max 5, got min %d max %d", m.Min(), m.Max())
	}
	if m.IsSet() {
		t.Error("Mask without the set flag reported as set")
	}
	if m.String() != "125" {
		t.Errorf("Expected candidate string 125, got %q", m.String())
	}

	fixed := setMask(7)
	if !fixed.IsSet() || fixed.Value() != 7 || fixed.Count() != 1 {
		t.Errorf("setMask(7) broken: set=%v value=%d count=%d", fixed.IsSet(), fixed.Value(), fixed.Count())
	}
}

func TestMaskRanges(t *testing.T) {
	// Values strictly below 4: 1, 2, 3.
	if got := MaskStrictlyLower(4); got.Count() != 3 || got.Max() != 3 {
		t.Errorf("MaskStrictlyLower(4) = %s", got)
	}
	// Values strictly above 7: 8, 9.
	if got := MaskStrictlyHigher(7); got.Count() != 2 || got.Min() != 8 {
		t.Errorf("MaskStrictlyHigher(7) = %s", got)
	}
	if got := MaskBetweenInclusive(3, 5); got.String() != "345" {
		t.Errorf("MaskBetweenInclusive(3,5) = %s", got)
	}
	if got := MaskBetweenInclusive(6, 2); got != 0 {
		t.Errorf("Inverted range should be empty, got %s", got)
	}
}

func TestCandidateIndexRoundTrip(t *testing.T) {
	for cell := 0; cell < NumCells; cell++ {
		for v := 1; v <= MaxValue; v++ {
			ci := CandidateIndex(cell, v)
			if ci < 0 || ci >= NumCandidates {
				t.Fatalf("Candidate index %d out of range", ci)
			}
			if CandidateCell(ci) != cell || CandidateValue(ci) != v {
				t.Fatalf("Round trip failed for cell %d value %d: got cell %d value %d",
					cell, v, CandidateCell(ci), CandidateValue(ci))
			}
		}
	}
}

func TestCellNaming(t *testing.T) {
	if name := CellName(CellIndex(4, 4)); name != "r5c5" {
		t.Errorf("Expected r5c5, got %q", name)
	}
	if name := CandidateName(CandidateIndex(CellIndex(2, 6), 5)); name != "5r3c7" {
		t.Errorf("Expected 5r3c7, got %q", name)
	}
	if b := BoxIndex(CellIndex(4, 4)); b != 4 {
		t.Errorf("r5c5 should be in box 5 (index 4), got %d", b)
	}
}
