package puzzle

import (
	"context"
	"testing"

	"github.com/rawblock/sudoku-engine/internal/solver"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

func TestParseGivens(t *testing.T) {
	givens, err := ParseGivens("")
	if err != nil || len(givens) != solver.NumCells {
		t.Fatalf("Empty givens should parse to a blank board: %v", err)
	}

	spec := "003020600900305001001806400008102900700000008006708200002609500800203009005010300"
	givens, err = ParseGivens(spec)
	if err != nil {
		t.Fatalf("ParseGivens failed: %v", err)
	}
	if givens[2] != 3 || givens[0] != 0 || givens[80] != 0 {
		t.Errorf("Parsed values wrong: %v", givens[:3])
	}

	if _, err := ParseGivens("123"); err == nil {
		t.Error("Short givens string must fail")
	}
	if _, err := ParseGivens(spec[:80] + "x"); err == nil {
		t.Error("Non-digit givens must fail")
	}
}

func TestBuildWithConstraints(t *testing.T) {
	def := models.PuzzleDefinition{
		Constraints: []models.ConstraintSpec{
			{Name: "killer", Options: "6;r1c1r1c2r1c3"},
			{Name: "antiknight"},
		},
	}
	s, ok, err := Build(context.Background(), def)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !ok {
		t.Fatal("Consistent definition reported invalid")
	}
	if len(s.Constraints()) != 2 {
		t.Errorf("Expected 2 constraints, got %d", len(s.Constraints()))
	}
}

func TestBuildRejectsUnknownConstraint(t *testing.T) {
	def := models.PuzzleDefinition{
		Constraints: []models.ConstraintSpec{{Name: "nosuch"}},
	}
	if _, _, err := Build(context.Background(), def); err == nil {
		t.Error("Unknown constraint must fail the load")
	}
}

func TestBuildDetectsContradictoryGivens(t *testing.T) {
	// Two 5s in one row.
	b := make([]byte, solver.NumCells)
	for i := range b {
		b[i] = '0'
	}
	b[0], b[1] = '5', '5'
	_, ok, err := Build(context.Background(), models.PuzzleDefinition{Givens: string(b)})
	if err != nil {
		t.Fatalf("Build errored instead of reporting invalid: %v", err)
	}
	if ok {
		t.Error("Contradictory givens must report invalid")
	}
}
