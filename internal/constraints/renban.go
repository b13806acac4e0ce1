package constraints

import (
	"fmt"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("renban", newRenban)
}

// Renban forces its cells to hold a set of consecutive, distinct digits
// in any order.
type Renban struct {
	solver.ConstraintBase
	Cells []int
}

// newRenban parses a cell list. The line is registered as an extra
// group: renban digits are distinct by rule.
func newRenban(s *solver.Solver, options string) ([]solver.Constraint, error) {
	cells, err := ParseCells(options)
	if err != nil {
		return nil, err
	}
	if len(cells) < 2 {
		return nil, fmt.Errorf("renban needs at least 2 cells")
	}
	if len(cells) > solver.MaxValue {
		return nil, fmt.Errorf("renban has %d cells; max is %d", len(cells), solver.MaxValue)
	}
	specific := fmt.Sprintf("Renban %s", solver.DescribeCells(cells))
	if err := s.AddGroup(solver.NewGroup(specific, cells)); err != nil {
		return nil, err
	}
	c := &Renban{
		ConstraintBase: solver.ConstraintBase{ConstraintName: "Renban", Specific: specific},
		Cells:          cells,
	}
	return []solver.Constraint{c}, nil
}

// InitLinks: two renban values further apart than the line is long can
// never share the window.
func (c *Renban) InitLinks(s *solver.Solver) solver.LogicResult {
	n := len(c.Cells)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for a := 1; a <= solver.MaxValue; a++ {
				for b := 1; b <= solver.MaxValue; b++ {
					if abs(a-b) >= n {
						s.AddWeakLink(solver.CandidateIndex(c.Cells[i], a), solver.CandidateIndex(c.Cells[j], b))
					}
				}
			}
		}
	}
	return solver.LogicNone
}

// StepLogic intersects the candidates with the union of the viable
// consecutive windows. A window is viable when its digits can actually
// be distributed over the cells.
func (c *Renban) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	return applyMaskChange(s, sink, c.Specific, c.Cells, func() solver.LogicResult {
		n := len(c.Cells)
		var union solver.Mask
		windowValues := make([]int, n)
		for start := 1; start+n-1 <= solver.MaxValue; start++ {
			window := solver.MaskBetweenInclusive(start, start+n-1)
			viable := true
			for _, cell := range c.Cells {
				if s.CellMask(cell).Candidates()&window == 0 {
					viable = false
					break
				}
			}
			if !viable {
				continue
			}
			for i := range windowValues {
				windowValues[i] = start + i
			}
			ok, err := s.CanPlaceDigitsAnyOrder(c.Cells, windowValues)
			if err != nil || !ok {
				continue
			}
			union |= window
		}
		if union == 0 {
			return solver.LogicInvalid
		}
		result := solver.LogicNone
		for _, cell := range c.Cells {
			switch s.KeepMask(solver.CellRow(cell), solver.CellCol(cell), union) {
			case solver.LogicInvalid:
				return solver.LogicInvalid
			case solver.LogicChanged:
				result = solver.LogicChanged
			}
		}
		return result
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
