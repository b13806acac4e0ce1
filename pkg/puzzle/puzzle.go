// Package puzzle turns wire-level puzzle definitions into finalized
// solvers and solver output back into wire form. Importing it links the
// whole constraint registry.
package puzzle

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/rawblock/sudoku-engine/internal/constraints"
	"github.com/rawblock/sudoku-engine/internal/solver"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

// ParseGivens parses an 81-character digit string; '0' and '.' are empty
// cells.
func ParseGivens(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return make([]int, solver.NumCells), nil
	}
	if len(s) != solver.NumCells {
		return nil, fmt.Errorf("givens must be %d characters, got %d", solver.NumCells, len(s))
	}
	givens := make([]int, solver.NumCells)
	for i, ch := range s {
		switch {
		case ch == '0' || ch == '.':
			givens[i] = 0
		case ch >= '1' && ch <= '9':
			givens[i] = int(ch - '0')
		default:
			return nil, fmt.Errorf("bad givens character %q at position %d", ch, i)
		}
	}
	return givens, nil
}

// Build constructs, finalizes and fills a solver from a definition.
// A false ok means the givens or constraints are contradictory; err
// covers malformed definitions and cancellation.
func Build(ctx context.Context, def models.PuzzleDefinition) (s *solver.Solver, ok bool, err error) {
	givens, err := ParseGivens(def.Givens)
	if err != nil {
		return nil, false, err
	}
	s = solver.NewSolver(solver.Config{EnableWeakLinkDiscovery: def.DiscoverWeakLinks})
	for _, spec := range def.Constraints {
		if err := s.AddConstraintByName(spec.Name, spec.Options); err != nil {
			return nil, false, err
		}
	}
	res, err := s.FinalizeConstraints(ctx)
	if err != nil {
		return nil, false, err
	}
	if res == solver.LogicInvalid {
		return s, false, nil
	}
	for cell, v := range givens {
		if v == 0 {
			continue
		}
		if !s.CellMask(cell).Has(v) || !s.SetValueByIndex(cell, v) {
			return s, false, nil
		}
	}
	return s, true, nil
}

// CandidateStrings renders every cell's remaining candidates ("1259",
// or the single digit for a set cell), row by row.
func CandidateStrings(s *solver.Solver) []string {
	out := make([]string, solver.NumCells)
	for cell := 0; cell < solver.NumCells; cell++ {
		out[cell] = s.CellMask(cell).String()
	}
	return out
}

// TraceToWire converts engine step descriptions into wire form.
func TraceToWire(steps []solver.LogicalStepDesc) []models.StepTrace {
	out := make([]models.StepTrace, len(steps))
	for i, st := range steps {
		out[i] = models.StepTrace{
			Description:          st.Description,
			SourceCandidates:     candidateNames(st.SourceCandidates),
			EliminatedCandidates: candidateNames(st.EliminatedCandidates),
			HighlightCells:       cellNames(st.HighlightCells),
			SubSteps:             TraceToWire(st.SubSteps),
			IsInvalid:            st.IsInvalid,
			IsSingle:             st.IsSingle,
		}
	}
	return out
}

func candidateNames(cis []int) []string {
	if len(cis) == 0 {
		return nil
	}
	out := make([]string, len(cis))
	for i, ci := range cis {
		out[i] = solver.CandidateName(ci)
	}
	return out
}

func cellNames(cells []int) []string {
	if len(cells) == 0 {
		return nil
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = solver.CellName(c)
	}
	return out
}
