package solver

import (
	"context"
	"testing"
)

func isValidSolution(t *testing.T, s *Solver, board Board) {
	t.Helper()
	if !board.IsComplete() {
		t.Fatal("Solution board has unset cells")
	}
	for _, g := range s.Groups() {
		var seen Mask
		for _, cell := range g.Cells {
			v := board[cell].Value()
			if seen.Has(v) {
				t.Fatalf("Duplicate %d in %s", v, g.Name)
			}
			seen |= ValueMask(v)
		}
	}
}

func TestFindRandomSolutionIsValid(t *testing.T) {
	s := newStandardSolver(t)
	board, err := s.FindRandomSolution(context.Background(), 12345)
	if err != nil {
		t.Fatalf("FindRandomSolution failed: %v", err)
	}
	if board == nil {
		t.Fatal("Empty grid must have a random solution")
	}
	isValidSolution(t, s, board)

	// Same seed, same solution: the randomization is deterministic per
	// seed.
	again, err := s.FindRandomSolution(context.Background(), 12345)
	if err != nil {
		t.Fatalf("Second FindRandomSolution failed: %v", err)
	}
	if board.String() != again.String() {
		t.Error("Same seed produced different solutions")
	}
}

func TestSolveLeavesHostUntouched(t *testing.T) {
	s := newStandardSolver(t)
	applyGivens(t, s, canonicalGivens)
	snapshot := s.BoardSnapshot()

	if _, err := s.Solve(context.Background()); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	for cell := 0; cell < NumCells; cell++ {
		if s.board[cell] != snapshot[cell] {
			t.Fatalf("Solve mutated the host board at %s", CellName(cell))
		}
	}
}

func TestSolveInvalidPuzzle(t *testing.T) {
	s := newStandardSolver(t)
	applyGivens(t, s, canonicalGivens)
	// Contradict the known solution cell r1c1=4 by removing 4.
	if !s.ClearValue(0, 0, 4) {
		t.Fatal("ClearValue emptied the cell")
	}
	board, err := s.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if board != nil {
		t.Error("Contradicted puzzle must have no solution")
	}
	count, err := s.CountSolutions(context.Background(), 5)
	if err != nil {
		t.Fatalf("CountSolutions failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 solutions, got %d", count)
	}
}

func TestFillRealCandidates(t *testing.T) {
	// On a unique-solution puzzle, the true candidates are exactly the
	// solution digits.
	s := newStandardSolver(t)
	applyGivens(t, s, canonicalGivens)
	res, err := s.FillRealCandidates(context.Background())
	if err != nil {
		t.Fatalf("FillRealCandidates failed: %v", err)
	}
	if res != LogicChanged {
		t.Fatalf("Expected changes, got %v", res)
	}
	for cell := 0; cell < NumCells; cell++ {
		m := s.board[cell]
		want := int(canonicalSolution[cell] - '0')
		if m.Count() != 1 || m.Min() != want {
			t.Fatalf("Cell %s true candidates = %s, want exactly %d", CellName(cell), m, want)
		}
	}
}

func TestGetLeastCandidateCellPrefersNarrow(t *testing.T) {
	s := newStandardSolver(t)
	s.KeepMask(3, 3, ValueMask(4)|ValueMask(8))
	if got := s.GetLeastCandidateCell(); got != CellIndex(3, 3) {
		t.Errorf("Expected the 2-candidate cell r4c4, got %s", CellName(got))
	}
}

func TestBranchOptionsBilocal(t *testing.T) {
	s := newStandardSolver(t)
	// Confine 6 in row 3 to two cells; every cell still has >3
	// candidates, so branching should pick the bilocal pair.
	for c := 0; c < Width; c++ {
		if c == 2 || c == 7 {
			continue
		}
		s.ClearValue(2, c, 6)
	}
	opts := s.branchOptions(true, nil)
	if len(opts) != 2 {
		t.Fatalf("Expected a 2-way bilocal branch, got %d options", len(opts))
	}
	for _, opt := range opts {
		if opt.value != 6 {
			t.Errorf("Bilocal branch on wrong value %d", opt.value)
		}
		if opt.cell != CellIndex(2, 2) && opt.cell != CellIndex(2, 7) {
			t.Errorf("Bilocal branch on wrong cell %s", CellName(opt.cell))
		}
	}
}
