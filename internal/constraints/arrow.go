package constraints

import (
	"fmt"
	"sort"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("arrow", newArrow)
}

// Arrow forces the shaft cells to sum to the circle value. A two-cell
// pill reads as a two-digit number (tens cell first).
type Arrow struct {
	solver.ConstraintBase
	Circle []int // 1 cell, or 2 for a pill
	Shaft  []int
	helper *solver.SumCellsHelper
}

// newArrow parses "circle;shaft", e.g. "r1c1;r1c2r1c3".
func newArrow(s *solver.Solver, options string) ([]solver.Constraint, error) {
	parts, err := splitOptions(options, 2)
	if err != nil {
		return nil, err
	}
	circle, err := ParseCells(parts[0])
	if err != nil {
		return nil, err
	}
	if len(circle) < 1 || len(circle) > 2 {
		return nil, fmt.Errorf("arrow circle must be 1 or 2 cells, got %d", len(circle))
	}
	shaft, err := ParseCells(parts[1])
	if err != nil {
		return nil, err
	}
	if len(shaft) == 0 {
		return nil, fmt.Errorf("arrow needs a shaft")
	}
	c := &Arrow{
		ConstraintBase: solver.ConstraintBase{
			ConstraintName: "Arrow",
			Specific:       fmt.Sprintf("Arrow %s → %s", solver.DescribeCells(circle), solver.DescribeCells(shaft)),
		},
		Circle: circle,
		Shaft:  shaft,
	}
	return []solver.Constraint{c}, nil
}

func (c *Arrow) ensureHelper(s *solver.Solver) *solver.SumCellsHelper {
	if c.helper == nil {
		c.helper = solver.NewSumCellsHelper(s, c.Shaft)
	}
	return c.helper
}

// circleTotals enumerates the totals the circle can currently display.
func (c *Arrow) circleTotals(s *solver.Solver) []int {
	var totals []int
	if len(c.Circle) == 1 {
		m := s.CellMask(c.Circle[0])
		for v := 1; v <= solver.MaxValue; v++ {
			if m.Has(v) {
				totals = append(totals, v)
			}
		}
		return totals
	}
	tens, ones := s.CellMask(c.Circle[0]), s.CellMask(c.Circle[1])
	for t := 1; t <= solver.MaxValue; t++ {
		if !tens.Has(t) {
			continue
		}
		for o := 1; o <= solver.MaxValue; o++ {
			if !ones.Has(o) {
				continue
			}
			if t == o && s.IsSeen(c.Circle[0], c.Circle[1]) {
				continue
			}
			totals = append(totals, 10*t+o)
		}
	}
	sort.Ints(totals)
	return totals
}

func (c *Arrow) InitCandidates(s *solver.Solver) solver.LogicResult {
	return c.StepLogic(s, nil, true)
}

// EnforceConstraint checks the shaft range still overlaps some circle
// total after a placement touching the arrow.
func (c *Arrow) EnforceConstraint(s *solver.Solver, row, col, v int) bool {
	cell := solver.CellIndex(row, col)
	mine := false
	for _, cc := range append(append([]int(nil), c.Circle...), c.Shaft...) {
		if cc == cell {
			mine = true
			break
		}
	}
	if !mine {
		return true
	}
	lo, hi := c.ensureHelper(s).MinMaxSum(s)
	if lo == 0 && hi == 0 {
		return false
	}
	for _, total := range c.circleTotals(s) {
		if total >= lo && total <= hi {
			return true
		}
	}
	return false
}

// StepLogic narrows both ends: circle totals must be attainable shaft
// sums, and shaft candidates must participate in some circle total.
func (c *Arrow) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	all := append(append([]int(nil), c.Circle...), c.Shaft...)
	return applyMaskChange(s, sink, c.Specific, all, func() solver.LogicResult {
		helper := c.ensureHelper(s)
		possible := helper.PossibleSums(s)
		if len(possible) == 0 {
			return solver.LogicInvalid
		}
		attainable := make(map[int]bool, len(possible))
		for _, t := range possible {
			attainable[t] = true
		}

		result := solver.LogicNone
		// Narrow the circle to attainable totals.
		if len(c.Circle) == 1 {
			var keep solver.Mask
			for v := 1; v <= solver.MaxValue; v++ {
				if attainable[v] {
					keep |= solver.ValueMask(v)
				}
			}
			switch s.KeepMask(solver.CellRow(c.Circle[0]), solver.CellCol(c.Circle[0]), keep) {
			case solver.LogicInvalid:
				return solver.LogicInvalid
			case solver.LogicChanged:
				result = solver.LogicChanged
			}
		} else {
			var keepTens, keepOnes solver.Mask
			for _, total := range c.circleTotals(s) {
				if attainable[total] {
					keepTens |= solver.ValueMask(total / 10)
					keepOnes |= solver.ValueMask(total % 10)
				}
			}
			if res := s.KeepMask(solver.CellRow(c.Circle[0]), solver.CellCol(c.Circle[0]), keepTens); res == solver.LogicInvalid {
				return solver.LogicInvalid
			} else if res == solver.LogicChanged {
				result = solver.LogicChanged
			}
			if res := s.KeepMask(solver.CellRow(c.Circle[1]), solver.CellCol(c.Circle[1]), keepOnes); res == solver.LogicInvalid {
				return solver.LogicInvalid
			} else if res == solver.LogicChanged {
				result = solver.LogicChanged
			}
		}

		// Narrow the shaft to sums the circle can display.
		displayable := c.circleTotals(s)
		if len(displayable) == 0 {
			return solver.LogicInvalid
		}
		switch helper.RestrictSums(s, displayable) {
		case solver.LogicInvalid:
			return solver.LogicInvalid
		case solver.LogicChanged:
			result = solver.LogicChanged
		}
		return result
	})
}
