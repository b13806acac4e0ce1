package constraints

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("sandwich", newSandwich)
}

// Sandwich fixes the sum of the digits strictly between 1 and 9 in one
// row or column.
type Sandwich struct {
	solver.ConstraintBase
	Cells []int // the full line, in reading order
	Sum   int
}

// newSandwich parses "line;sum" where line is r# or c#: "r5;26".
func newSandwich(s *solver.Solver, options string) ([]solver.Constraint, error) {
	parts, err := splitOptions(options, 2)
	if err != nil {
		return nil, err
	}
	line := strings.ToLower(parts[0])
	sum, err := strconv.Atoi(parts[1])
	if err != nil || sum < 0 {
		return nil, fmt.Errorf("bad sandwich sum %q", parts[1])
	}
	if len(line) != 2 || (line[0] != 'r' && line[0] != 'c') {
		return nil, fmt.Errorf("bad sandwich line %q (want r# or c#)", parts[0])
	}
	idx := int(line[1] - '1')
	if idx < 0 || idx >= solver.MaxValue {
		return nil, fmt.Errorf("sandwich line %q out of range", parts[0])
	}
	cells := make([]int, solver.MaxValue)
	for i := 0; i < solver.MaxValue; i++ {
		if line[0] == 'r' {
			cells[i] = solver.CellIndex(idx, i)
		} else {
			cells[i] = solver.CellIndex(i, idx)
		}
	}
	c := &Sandwich{
		ConstraintBase: solver.ConstraintBase{
			ConstraintName: "Sandwich",
			Specific:       fmt.Sprintf("Sandwich %s=%d", parts[0], sum),
		},
		Cells: cells,
		Sum:   sum,
	}
	return []solver.Constraint{c}, nil
}

// crustMask marks the sandwich crusts (1 and 9).
var crustMask = solver.ValueMask(1) | solver.ValueMask(solver.MaxValue)

// StepLogic enumerates the possible crust positions: for each (i, j)
// placement of 1 and 9, the cells between them must attain the clue
// using non-crust digits. Surviving placements vote on what every cell
// of the line may still hold.
func (c *Sandwich) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	return applyMaskChange(s, sink, c.Specific, c.Cells, func() solver.LogicResult {
		keep := make([]solver.Mask, len(c.Cells))
		found := false
		for i := 0; i < len(c.Cells); i++ {
			for j := 0; j < len(c.Cells); j++ {
				if i == j {
					continue
				}
				if !s.CellMask(c.Cells[i]).Has(1) || !s.CellMask(c.Cells[j]).Has(solver.MaxValue) {
					continue
				}
				lo, hi := i, j
				if lo > hi {
					lo, hi = hi, lo
				}
				between := c.Cells[lo+1 : hi]
				if !c.fillingFeasible(s, between) {
					continue
				}
				found = true
				keep[i] |= solver.ValueMask(1)
				keep[j] |= solver.ValueMask(solver.MaxValue)
				for k := range c.Cells {
					if k == i || k == j {
						continue
					}
					extra := s.CellMask(c.Cells[k]).Candidates() &^ crustMask
					keep[k] |= extra
				}
			}
		}
		if !found {
			return solver.LogicInvalid
		}
		result := solver.LogicNone
		for k, cell := range c.Cells {
			switch s.KeepMask(solver.CellRow(cell), solver.CellCol(cell), keep[k]) {
			case solver.LogicInvalid:
				return solver.LogicInvalid
			case solver.LogicChanged:
				result = solver.LogicChanged
			}
		}
		return result
	})
}

// fillingFeasible checks the between cells can total the clue without
// using a crust digit; the exclude-value form of the sum range handles
// the crust ban.
func (c *Sandwich) fillingFeasible(s *solver.Solver, between []int) bool {
	if len(between) == 0 {
		return c.Sum == 0
	}
	for _, cell := range between {
		if m := s.CellMask(cell); m.IsSet() && crustMask.Has(m.Value()) {
			return false
		}
	}
	group := solver.NewSumGroupForCells(between)
	lo, hi := group.MinMaxSumWithout(s, crustMask)
	if lo == 0 && hi == 0 {
		return false
	}
	return lo <= c.Sum && c.Sum <= hi
}
