package constraints

import (
	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("antiknight", func(s *solver.Solver, options string) ([]solver.Constraint, error) {
		return []solver.Constraint{newChessMove("Anti-Knight", knightOffsets)}, nil
	})
	solver.RegisterConstraint("antiking", func(s *solver.Solver, options string) ([]solver.Constraint, error) {
		return []solver.Constraint{newChessMove("Anti-King", kingOffsets)}, nil
	})
}

var knightOffsets = [][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

var kingOffsets = [][2]int{
	{-1, -1}, {-1, 0}, {-1, 1}, {0, -1},
	{0, 1}, {1, -1}, {1, 0}, {1, 1},
}

// ChessMove bans equal digits a chess move apart. The whole constraint
// is its seen-cell contribution: the solver turns it into weak links and
// the seen map at finalize, so enforcement and propagation need no
// constraint-local code.
type ChessMove struct {
	solver.ConstraintBase
	offsets [][2]int
}

func newChessMove(name string, offsets [][2]int) *ChessMove {
	return &ChessMove{
		ConstraintBase: solver.ConstraintBase{ConstraintName: name, Specific: name},
		offsets:        offsets,
	}
}

func (c *ChessMove) SeenCells(cell int) []int {
	return offsetCells(cell, c.offsets)
}

func (c *ChessMove) SeenCellsByValueMask(cell int, mask solver.Mask) []int {
	return offsetCells(cell, c.offsets)
}
