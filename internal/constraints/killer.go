package constraints

import (
	"fmt"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("killer", newKillerCage)
}

// KillerCage forces distinct digits over its cells summing to the clue.
// A zero clue is a cage with no sum (distinctness only).
type KillerCage struct {
	solver.ConstraintBase
	Cells  []int
	Sum    int
	helper *solver.SumCellsHelper
}

// newKillerCage parses "sum;cells", e.g. "6;r1c1r1c2r1c3". The cage is
// registered as an extra group: cage digits never repeat.
func newKillerCage(s *solver.Solver, options string) ([]solver.Constraint, error) {
	parts, err := splitOptions(options, 2)
	if err != nil {
		return nil, err
	}
	sum := 0
	if parts[0] != "" {
		if sum, err = parseSum(parts[0]); err != nil {
			return nil, err
		}
	}
	cells, err := ParseCells(parts[1])
	if err != nil {
		return nil, err
	}
	if len(cells) > solver.MaxValue {
		return nil, fmt.Errorf("cage has %d cells; max is %d", len(cells), solver.MaxValue)
	}
	maxSum := 0
	for i := 0; i < len(cells); i++ {
		maxSum += solver.MaxValue - i
	}
	if sum > maxSum {
		return nil, fmt.Errorf("cage sum %d unreachable with %d cells", sum, len(cells))
	}
	specific := fmt.Sprintf("Killer Cage %s=%d", solver.DescribeCells(cells), sum)
	if err := s.AddGroup(solver.NewGroup(specific, cells)); err != nil {
		return nil, err
	}
	c := &KillerCage{
		ConstraintBase: solver.ConstraintBase{ConstraintName: "Killer Cage", Specific: specific},
		Cells:          cells,
		Sum:            sum,
	}
	return []solver.Constraint{c}, nil
}

func (c *KillerCage) ensureHelper(s *solver.Solver) *solver.SumCellsHelper {
	if c.helper == nil {
		c.helper = solver.NewSumCellsHelper(s, c.Cells)
	}
	return c.helper
}

func (c *KillerCage) InitCandidates(s *solver.Solver) solver.LogicResult {
	if c.Sum == 0 {
		return solver.LogicNone
	}
	return c.ensureHelper(s).RestrictSums(s, []int{c.Sum})
}

// EnforceConstraint rejects a placement that pushes the cage's
// attainable range off the clue.
func (c *KillerCage) EnforceConstraint(s *solver.Solver, row, col, v int) bool {
	if c.Sum == 0 {
		return true
	}
	cell := solver.CellIndex(row, col)
	inCage := false
	for _, cc := range c.Cells {
		if cc == cell {
			inCage = true
			break
		}
	}
	if !inCage {
		return true
	}
	lo, hi := c.ensureHelper(s).MinMaxSum(s)
	if lo == 0 && hi == 0 {
		return false
	}
	return lo <= c.Sum && c.Sum <= hi
}

func (c *KillerCage) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	if c.Sum == 0 {
		return solver.LogicNone
	}
	return applyMaskChange(s, sink, c.Specific, c.Cells, func() solver.LogicResult {
		return c.ensureHelper(s).RestrictSums(s, []int{c.Sum})
	})
}

// SeenCells: cage members see each other (the cage group also reports
// this; the constraint answers for callers probing the constraint
// alone).
func (c *KillerCage) SeenCells(cell int) []int {
	for _, cc := range c.Cells {
		if cc == cell {
			out := make([]int, 0, len(c.Cells)-1)
			for _, o := range c.Cells {
				if o != cell {
					out = append(out, o)
				}
			}
			return out
		}
	}
	return nil
}

func (c *KillerCage) SeenCellsByValueMask(cell int, mask solver.Mask) []int {
	return c.SeenCells(cell)
}
