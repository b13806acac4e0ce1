package constraints

import (
	"fmt"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("even", func(s *solver.Solver, options string) ([]solver.Constraint, error) {
		return newParity(options, "Even", evenMask())
	})
	solver.RegisterConstraint("odd", func(s *solver.Solver, options string) ([]solver.Constraint, error) {
		return newParity(options, "Odd", oddMask())
	})
}

// Parity restricts marked cells to even or odd digits.
type Parity struct {
	solver.ConstraintBase
	Cells []int
	Keep  solver.Mask
}

func newParity(options, name string, keep solver.Mask) ([]solver.Constraint, error) {
	cells, err := ParseCells(options)
	if err != nil {
		return nil, err
	}
	c := &Parity{
		ConstraintBase: solver.ConstraintBase{
			ConstraintName: name,
			Specific:       fmt.Sprintf("%s %s", name, solver.DescribeCells(cells)),
		},
		Cells: cells,
		Keep:  keep,
	}
	return []solver.Constraint{c}, nil
}

func (c *Parity) InitCandidates(s *solver.Solver) solver.LogicResult {
	result := solver.LogicNone
	for _, cell := range c.Cells {
		switch s.KeepMask(solver.CellRow(cell), solver.CellCol(cell), c.Keep) {
		case solver.LogicInvalid:
			return solver.LogicInvalid
		case solver.LogicChanged:
			result = solver.LogicChanged
		}
	}
	return result
}

func evenMask() solver.Mask {
	var m solver.Mask
	for v := 2; v <= solver.MaxValue; v += 2 {
		m |= solver.ValueMask(v)
	}
	return m
}

func oddMask() solver.Mask {
	var m solver.Mask
	for v := 1; v <= solver.MaxValue; v += 2 {
		m |= solver.ValueMask(v)
	}
	return m
}
