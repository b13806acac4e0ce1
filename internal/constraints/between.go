package constraints

import (
	"fmt"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("betweenline", newBetweenLine)
}

// BetweenLine forces every middle cell strictly between the two
// endpoint values.
type BetweenLine struct {
	solver.ConstraintBase
	Cells []int // endpoints are first and last
}

// newBetweenLine parses the full line, endpoints first and last:
// "r1c1r1c2r1c3r1c4".
func newBetweenLine(s *solver.Solver, options string) ([]solver.Constraint, error) {
	cells, err := ParseCells(options)
	if err != nil {
		return nil, err
	}
	if len(cells) < 3 {
		return nil, fmt.Errorf("between line needs at least 3 cells")
	}
	c := &BetweenLine{
		ConstraintBase: solver.ConstraintBase{
			ConstraintName: "Between Line",
			Specific:       fmt.Sprintf("Between Line %s", solver.DescribeCells(cells)),
		},
		Cells: cells,
	}
	return []solver.Constraint{c}, nil
}

func (c *BetweenLine) middles() []int { return c.Cells[1 : len(c.Cells)-1] }

// StepLogic enumerates viable endpoint pairs. A pair (a, b) needs a gap
// wide enough for the middles — at least the number of forced-distinct
// middles — and every middle needs a candidate inside the open
// interval. Viable pairs vote on endpoints and middles alike.
func (c *BetweenLine) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	return applyMaskChange(s, sink, c.Specific, c.Cells, func() solver.LogicResult {
		e0, e1 := c.Cells[0], c.Cells[len(c.Cells)-1]
		middles := c.middles()
		minDistinct := s.MinimumUniqueValues(middles)

		var keep0, keep1, keepMiddle solver.Mask
		for a := 1; a <= solver.MaxValue; a++ {
			if !s.CellMask(e0).Has(a) {
				continue
			}
			for b := 1; b <= solver.MaxValue; b++ {
				if !s.CellMask(e1).Has(b) {
					continue
				}
				lo, hi := a, b
				if lo > hi {
					lo, hi = hi, lo
				}
				if hi-lo-1 < minDistinct {
					continue
				}
				window := solver.MaskBetweenInclusive(lo+1, hi-1)
				viable := true
				for _, mid := range middles {
					if s.CellMask(mid).Candidates()&window == 0 {
						viable = false
						break
					}
				}
				if !viable {
					continue
				}
				keep0 |= solver.ValueMask(a)
				keep1 |= solver.ValueMask(b)
				keepMiddle |= window
			}
		}
		if keep0 == 0 || keep1 == 0 {
			return solver.LogicInvalid
		}

		result := solver.LogicNone
		apply := func(cell int, mask solver.Mask) solver.LogicResult {
			return s.KeepMask(solver.CellRow(cell), solver.CellCol(cell), mask)
		}
		for _, op := range []struct {
			cell int
			mask solver.Mask
		}{{e0, keep0}, {e1, keep1}} {
			switch apply(op.cell, op.mask) {
			case solver.LogicInvalid:
				return solver.LogicInvalid
			case solver.LogicChanged:
				result = solver.LogicChanged
			}
		}
		for _, mid := range middles {
			switch apply(mid, keepMiddle) {
			case solver.LogicInvalid:
				return solver.LogicInvalid
			case solver.LogicChanged:
				result = solver.LogicChanged
			}
		}
		return result
	})
}
