package solver

import (
	"context"
	"fmt"
	"testing"
)

const (
	// Canonical single-solution puzzle and its unique solution.
	canonicalGivens   = "003020600900305001001806400008102900700000008006708200002609500800203009005010300"
	canonicalSolution = "483921657967345821251876493548132976729564138136798245372689514814253769695417382"
)

func applyGivens(t *testing.T, s *Solver, givens string) {
	t.Helper()
	for i, ch := range givens {
		if ch == '0' {
			continue
		}
		if !s.SetValueByIndex(i, int(ch-'0')) {
			t.Fatalf("Given %c at cell %s rejected", ch, CellName(i))
		}
	}
}

func TestCountSolutionsEmptyGridCap(t *testing.T) {
	// An empty standard grid has an astronomical number of solutions;
	// any cap >= 2 must short-circuit at exactly the cap.
	s := newStandardSolver(t)
	count, err := s.CountSolutions(context.Background(), 2)
	if err != nil {
		t.Fatalf("CountSolutions failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected the cap of 2, got %d", count)
	}
}

func TestSolveCanonicalPuzzle(t *testing.T) {
	s := newStandardSolver(t)
	applyGivens(t, s, canonicalGivens)

	board, err := s.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if board == nil {
		t.Fatal("Expected a solution, got none")
	}
	if board.String() != canonicalSolution {
		t.Errorf("Wrong solution:\n got %s\nwant %s", board.String(), canonicalSolution)
	}
}

func TestCountCanonicalPuzzleIsUnique(t *testing.T) {
	s := newStandardSolver(t)
	applyGivens(t, s, canonicalGivens)

	count, err := s.CountSolutions(context.Background(), 10)
	if err != nil {
		t.Fatalf("CountSolutions failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Canonical puzzle should have exactly 1 solution, got %d", count)
	}
}

// twoSolutionGivens is the canonical solution with an unavoidable
// rectangle erased: r2c1/r2c8 hold 9/2 and r3c1/r3c8 hold 2/9, and both
// rows share the top band, so the two assignments are interchangeable.
func twoSolutionGivens() string {
	b := []byte(canonicalSolution)
	b[CellIndex(1, 0)] = '0'
	b[CellIndex(1, 7)] = '0'
	b[CellIndex(2, 0)] = '0'
	b[CellIndex(2, 7)] = '0'
	return string(b)
}

func TestAmbiguousPuzzle(t *testing.T) {
	// Brute force sees both solutions.
	s := newStandardSolver(t)
	applyGivens(t, s, twoSolutionGivens())
	count, err := s.CountSolutions(context.Background(), 10)
	if err != nil {
		t.Fatalf("CountSolutions failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Deadly rectangle puzzle should have exactly 2 solutions, got %d", count)
	}

	// The logical solver must exhaust deductions without branching and
	// report ambiguity rather than invent a placement.
	s2 := newStandardSolver(t)
	applyGivens(t, s2, twoSolutionGivens())
	status, err := s2.LogicalSolve(context.Background(), &StepSink{}, DefaultEvaluatorOptions())
	if err != nil {
		t.Fatalf("LogicalSolve failed: %v", err)
	}
	if status != StatusAmbiguous {
		t.Errorf("Expected %v, got %v", StatusAmbiguous, status)
	}
}

func TestSetValuePropagatesWeakLinks(t *testing.T) {
	s := newStandardSolver(t)
	if !s.SetValue(4, 4, 5) {
		t.Fatal("SetValue on an empty grid rejected")
	}
	if got := s.Cell(4, 4); !got.IsSet() || got.Value() != 5 {
		t.Fatalf("r5c5 not set to 5: %s", got)
	}
	// Every peer lost candidate 5; every removed candidate is
	// weak-linked to the placement.
	placed := CandidateIndex(CellIndex(4, 4), 5)
	for _, peer := range s.SeenCells(CellIndex(4, 4)) {
		if s.CellMask(peer).Has(5) {
			t.Fatalf("Peer %s still has 5 after placement", CellName(peer))
		}
		if !s.IsWeakLink(placed, CandidateIndex(peer, 5)) {
			t.Fatalf("Removed candidate 5%s is not weak-linked to the placement", CellName(peer))
		}
	}
	// Unrelated cell untouched.
	if s.Cell(0, 8).Count() != MaxValue {
		t.Errorf("r1c9 lost candidates without reason: %s", s.Cell(0, 8))
	}
}

func TestConsolidateIsIdempotent(t *testing.T) {
	s := newStandardSolver(t)
	applyGivens(t, s, canonicalGivens)

	if _, err := s.ConsolidateBoard(context.Background()); err != nil {
		t.Fatalf("ConsolidateBoard failed: %v", err)
	}
	snapshot := s.BoardSnapshot()

	// A second consolidation at the fixpoint must change nothing.
	res, err := s.ConsolidateBoard(context.Background())
	if err != nil {
		t.Fatalf("Second ConsolidateBoard failed: %v", err)
	}
	if res == LogicChanged {
		t.Error("Second consolidation reported changes at a fixpoint")
	}
	for cell := 0; cell < NumCells; cell++ {
		if s.board[cell] != snapshot[cell] {
			t.Fatalf("Cell %s changed across idempotent consolidation", CellName(cell))
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	s := newStandardSolver(t)
	applyGivens(t, s, canonicalGivens)

	clone := s.Clone(true)
	parentSnapshot := s.BoardSnapshot()

	if _, err := clone.ConsolidateBoard(context.Background()); err != nil {
		t.Fatalf("Clone consolidation failed: %v", err)
	}
	if !clone.SetValue(0, 0, clone.Cell(0, 0).Min()) {
		t.Fatal("Clone SetValue rejected")
	}

	// The parent board must be untouched by clone mutations.
	for cell := 0; cell < NumCells; cell++ {
		if s.board[cell] != parentSnapshot[cell] {
			t.Fatalf("Parent cell %s changed after clone mutation", CellName(cell))
		}
	}
	// Weak-link graph reads agree between parent and clone.
	a := CandidateIndex(CellIndex(0, 0), 1)
	b := CandidateIndex(CellIndex(0, 1), 1)
	if s.IsWeakLink(a, b) != clone.IsWeakLink(a, b) {
		t.Error("Weak-link reads disagree between parent and clone")
	}
}

func TestLogicalSolveDeterministic(t *testing.T) {
	trace := func() string {
		s := newStandardSolver(t)
		applyGivens(t, s, canonicalGivens)
		sink := &StepSink{}
		status, err := s.LogicalSolve(context.Background(), sink, DefaultEvaluatorOptions())
		if err != nil {
			t.Fatalf("LogicalSolve failed: %v", err)
		}
		return fmt.Sprintf("%v|%+v", status, sink.Steps)
	}
	first := trace()
	second := trace()
	if first != second {
		t.Error("Two identical logical solves produced different traces")
	}
}

func TestLogicalSolveCanonical(t *testing.T) {
	s := newStandardSolver(t)
	applyGivens(t, s, canonicalGivens)
	sink := &StepSink{}
	status, err := s.LogicalSolve(context.Background(), sink, DefaultEvaluatorOptions())
	if err != nil {
		t.Fatalf("LogicalSolve failed: %v", err)
	}
	if status != StatusSolved {
		t.Fatalf("Expected solved, got %v (after %d steps)", status, len(sink.Steps))
	}
	if got := s.BoardSnapshot().String(); got != canonicalSolution {
		t.Errorf("Logical solve reached wrong solution: %s", got)
	}
	if len(sink.Steps) == 0 {
		t.Error("A solved trace must contain steps")
	}
}

func TestIsInheritOf(t *testing.T) {
	parent := newStandardSolver(t)
	child := newStandardSolver(t)
	applyGivens(t, child, canonicalGivens)

	// The restricted board inherits the empty one; not vice versa.
	if !child.IsInheritOf(parent) {
		t.Error("Givens-restricted solver should inherit the empty solver")
	}
	if parent.IsInheritOf(child) {
		t.Error("Empty solver must not inherit the restricted one")
	}
	// Reflexive.
	if !child.IsInheritOf(child) {
		t.Error("Inheritance must be reflexive")
	}
}

func TestApplySinglesSolvesEasyTail(t *testing.T) {
	// Fill all but the last cell of a solved grid: one naked single
	// remains and ApplySingles must finish the board.
	s := newStandardSolver(t)
	for i := 0; i < NumCells-1; i++ {
		if !s.SetValueByIndex(i, int(canonicalSolution[i]-'0')) {
			t.Fatalf("Placement %d rejected", i)
		}
	}
	res, err := s.ApplySingles(context.Background())
	if err != nil {
		t.Fatalf("ApplySingles failed: %v", err)
	}
	if res != LogicComplete {
		t.Fatalf("Expected complete, got %v", res)
	}
	if got := s.BoardSnapshot().String(); got != canonicalSolution {
		t.Errorf("Singles filled the wrong value: %s", got)
	}
}

func TestCancellation(t *testing.T) {
	s := newStandardSolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.CountSolutions(ctx, 0); err == nil {
		t.Error("Cancelled count must surface the context error")
	}
	if _, err := s.ConsolidateBoard(ctx); err == nil {
		t.Error("Cancelled consolidation must surface the context error")
	}
}
