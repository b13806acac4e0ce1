package constraints

import (
	"fmt"
	"strings"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("littlekiller", newLittleKiller)
}

// LittleKiller sums a full diagonal to the clue. Digits along the
// diagonal may repeat unless Sudoku rules say otherwise, which is
// exactly what the sum helper's group splitting models.
type LittleKiller struct {
	solver.ConstraintBase
	Cells  []int
	Sum    int
	helper *solver.SumCellsHelper
}

// newLittleKiller parses "sum;start;direction" with direction one of
// ur, dr, dl, ul — e.g. "15;r1c2;dl" runs down-left from r1c2.
func newLittleKiller(s *solver.Solver, options string) ([]solver.Constraint, error) {
	parts, err := splitOptions(options, 3)
	if err != nil {
		return nil, err
	}
	sum, err := parseSum(parts[0])
	if err != nil {
		return nil, err
	}
	start, err := ParseCells(parts[1])
	if err != nil {
		return nil, err
	}
	if len(start) != 1 {
		return nil, fmt.Errorf("little killer start must be one cell")
	}
	var dr, dc int
	switch strings.ToLower(parts[2]) {
	case "ur":
		dr, dc = -1, 1
	case "dr":
		dr, dc = 1, 1
	case "dl":
		dr, dc = 1, -1
	case "ul":
		dr, dc = -1, -1
	default:
		return nil, fmt.Errorf("bad direction %q (want ur/dr/dl/ul)", parts[2])
	}
	var cells []int
	r, c := solver.CellRow(start[0]), solver.CellCol(start[0])
	for r >= 0 && r < solver.Height && c >= 0 && c < solver.Width {
		cells = append(cells, solver.CellIndex(r, c))
		r += dr
		c += dc
	}
	lk := &LittleKiller{
		ConstraintBase: solver.ConstraintBase{
			ConstraintName: "Little Killer",
			Specific:       fmt.Sprintf("Little Killer %s %s=%d", solver.CellName(start[0]), parts[2], sum),
		},
		Cells: cells,
		Sum:   sum,
	}
	return []solver.Constraint{lk}, nil
}

func (c *LittleKiller) ensureHelper(s *solver.Solver) *solver.SumCellsHelper {
	if c.helper == nil {
		c.helper = solver.NewSumCellsHelper(s, c.Cells)
	}
	return c.helper
}

func (c *LittleKiller) InitCandidates(s *solver.Solver) solver.LogicResult {
	return c.ensureHelper(s).RestrictSums(s, []int{c.Sum})
}

func (c *LittleKiller) EnforceConstraint(s *solver.Solver, row, col, v int) bool {
	cell := solver.CellIndex(row, col)
	mine := false
	for _, cc := range c.Cells {
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
	return lo <= c.Sum && c.Sum <= hi
}

func (c *LittleKiller) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	return applyMaskChange(s, sink, c.Specific, c.Cells, func() solver.LogicResult {
		return c.ensureHelper(s).RestrictSums(s, []int{c.Sum})
	})
}
