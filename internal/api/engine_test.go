package api

import (
	"context"
	"testing"

	"github.com/rawblock/sudoku-engine/pkg/models"
)

const canonicalGivens = "003020600900305001001806400008102900700000008006708200002609500800203009005010300"
const canonicalSolution = "483921657967345821251876493548132976729564138136798245372689514814253769695417382"

func TestExecuteSolve(t *testing.T) {
	result, err := ExecuteOperation(context.Background(), models.PuzzleDefinition{Givens: canonicalGivens}, OpSolve, 0)
	if err != nil {
		t.Fatalf("ExecuteOperation failed: %v", err)
	}
	if result.Status != "solved" || result.Solution != canonicalSolution {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestExecuteCountEmptyGrid(t *testing.T) {
	result, err := ExecuteOperation(context.Background(), models.PuzzleDefinition{}, OpCount, 2)
	if err != nil {
		t.Fatalf("ExecuteOperation failed: %v", err)
	}
	if result.Count != 2 || result.CountCap != 2 {
		t.Errorf("Expected count 2 at cap 2, got %d/%d", result.Count, result.CountCap)
	}
	if result.Status != "ambiguous" {
		t.Errorf("Multiple solutions should report ambiguous, got %s", result.Status)
	}
}

func TestExecuteLogicalTrace(t *testing.T) {
	result, err := ExecuteOperation(context.Background(), models.PuzzleDefinition{Givens: canonicalGivens}, OpLogical, 0)
	if err != nil {
		t.Fatalf("ExecuteOperation failed: %v", err)
	}
	if result.Status != "solved" {
		t.Fatalf("Expected solved, got %s", result.Status)
	}
	if len(result.Steps) == 0 {
		t.Error("Logical solve must produce a step trace")
	}
	if result.Solution != canonicalSolution {
		t.Errorf("Wrong solution: %s", result.Solution)
	}
}

func TestExecuteCheckWithKiller(t *testing.T) {
	def := models.PuzzleDefinition{
		Constraints: []models.ConstraintSpec{{Name: "killer", Options: "6;r1c1r1c2r1c3"}},
	}
	result, err := ExecuteOperation(context.Background(), def, OpCheck, 0)
	if err != nil {
		t.Fatalf("ExecuteOperation failed: %v", err)
	}
	if result.Status != "open" {
		t.Fatalf("Expected open, got %s", result.Status)
	}
	for i := 0; i < 3; i++ {
		if result.Candidates[i] != "123" {
			t.Errorf("Cage cell %d candidates = %q, want 123", i, result.Candidates[i])
		}
	}
}

func TestExecuteRejectsBadDefinition(t *testing.T) {
	def := models.PuzzleDefinition{Givens: "123"}
	if _, err := ExecuteOperation(context.Background(), def, OpSolve, 0); err == nil {
		t.Error("Malformed givens must error")
	}
	if _, err := ExecuteOperation(context.Background(), models.PuzzleDefinition{}, "bogus", 0); err == nil {
		t.Error("Unknown operation must error")
	}
}
