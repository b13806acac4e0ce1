package constraints

import (
	"fmt"
	"strings"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("xsum", newXSum)
}

// XSum fixes the sum of the first N cells of a line, where N is the
// value of the first cell.
type XSum struct {
	solver.ConstraintBase
	Cells []int // the full line, starting at the clue edge
	Sum   int
}

// newXSum parses "line;sum" where line is r#l, r#r, c#t or c#b (row 5
// from the left: "r5l;20").
func newXSum(s *solver.Solver, options string) ([]solver.Constraint, error) {
	parts, err := splitOptions(options, 2)
	if err != nil {
		return nil, err
	}
	sum, err := parseSum(parts[1])
	if err != nil {
		return nil, err
	}
	line := strings.ToLower(parts[0])
	if len(line) != 3 {
		return nil, fmt.Errorf("bad xsum line %q (want e.g. r5l, c2t)", parts[0])
	}
	idx := int(line[1] - '1')
	if idx < 0 || idx >= solver.MaxValue {
		return nil, fmt.Errorf("xsum line %q out of range", parts[0])
	}
	cells := make([]int, solver.MaxValue)
	switch {
	case line[0] == 'r' && line[2] == 'l':
		for i := range cells {
			cells[i] = solver.CellIndex(idx, i)
		}
	case line[0] == 'r' && line[2] == 'r':
		for i := range cells {
			cells[i] = solver.CellIndex(idx, solver.Width-1-i)
		}
	case line[0] == 'c' && line[2] == 't':
		for i := range cells {
			cells[i] = solver.CellIndex(i, idx)
		}
	case line[0] == 'c' && line[2] == 'b':
		for i := range cells {
			cells[i] = solver.CellIndex(solver.Height-1-i, idx)
		}
	default:
		return nil, fmt.Errorf("bad xsum line %q", parts[0])
	}
	c := &XSum{
		ConstraintBase: solver.ConstraintBase{
			ConstraintName: "X-Sum",
			Specific:       fmt.Sprintf("X-Sum %s=%d", parts[0], sum),
		},
		Cells: cells,
		Sum:   sum,
	}
	return []solver.Constraint{c}, nil
}

func (c *XSum) InitCandidates(s *solver.Solver) solver.LogicResult {
	return c.StepLogic(s, nil, true)
}

// StepLogic tests each candidate length N of the first cell: the prefix
// of length N (with the first cell contributing N itself) must be able
// to reach the clue. When one length survives, the prefix is restricted
// to the clue outright.
func (c *XSum) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	return applyMaskChange(s, sink, c.Specific, c.Cells, func() solver.LogicResult {
		first := c.Cells[0]
		var keep solver.Mask
		lastViable := 0
		viable := 0
		for n := 1; n <= solver.MaxValue; n++ {
			if !s.CellMask(first).Has(n) {
				continue
			}
			if c.prefixFeasible(s, n) {
				keep |= solver.ValueMask(n)
				lastViable = n
				viable++
			}
		}
		if keep == 0 {
			return solver.LogicInvalid
		}
		result := solver.LogicNone
		switch s.KeepMask(solver.CellRow(first), solver.CellCol(first), keep) {
		case solver.LogicInvalid:
			return solver.LogicInvalid
		case solver.LogicChanged:
			result = solver.LogicChanged
		}
		if viable == 1 {
			if !s.CellMask(first).IsSet() {
				if !s.SetValueByIndex(first, lastViable) {
					return solver.LogicInvalid
				}
				result = solver.LogicChanged
			}
			helper := solver.NewSumCellsHelper(s, c.Cells[:lastViable])
			switch helper.RestrictSums(s, []int{c.Sum}) {
			case solver.LogicInvalid:
				return solver.LogicInvalid
			case solver.LogicChanged:
				result = solver.LogicChanged
			}
		}
		return result
	})
}

// prefixFeasible checks whether first = n and prefix total = clue is
// still attainable.
func (c *XSum) prefixFeasible(s *solver.Solver, n int) bool {
	if n == 1 {
		return c.Sum == 1
	}
	rest := solver.NewSumGroupForCells(c.Cells[1:n])
	lo, hi := rest.MinMaxSumWithout(s, solver.ValueMask(n))
	if lo == 0 && hi == 0 {
		return false
	}
	target := c.Sum - n
	return lo <= target && target <= hi
}
