package constraints

import (
	"fmt"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("thermometer", newThermometer)
}

// Thermometer forces strictly increasing values from bulb to tip.
type Thermometer struct {
	solver.ConstraintBase
	Cells []int // bulb first
}

// newThermometer parses a cell list, bulb first: "r1c1r1c2r1c3".
func newThermometer(s *solver.Solver, options string) ([]solver.Constraint, error) {
	cells, err := ParseCells(options)
	if err != nil {
		return nil, err
	}
	if len(cells) < 2 {
		return nil, fmt.Errorf("thermometer needs at least 2 cells")
	}
	if len(cells) > solver.MaxValue {
		return nil, fmt.Errorf("thermometer has %d cells; a strict increase caps at %d", len(cells), solver.MaxValue)
	}
	c := &Thermometer{
		ConstraintBase: solver.ConstraintBase{
			ConstraintName: "Thermometer",
			Specific:       fmt.Sprintf("Thermometer %s", solver.DescribeCells(cells)),
		},
		Cells: cells,
	}
	return []solver.Constraint{c}, nil
}

// InitCandidates bounds each cell by its position: the i-th cell (from
// the bulb) is at least i+1 and at most MaxValue minus the cells after
// it.
func (c *Thermometer) InitCandidates(s *solver.Solver) solver.LogicResult {
	result := solver.LogicNone
	for i, cell := range c.Cells {
		lo := i + 1
		hi := solver.MaxValue - (len(c.Cells) - 1 - i)
		switch s.KeepMask(solver.CellRow(cell), solver.CellCol(cell), solver.MaskBetweenInclusive(lo, hi)) {
		case solver.LogicInvalid:
			return solver.LogicInvalid
		case solver.LogicChanged:
			result = solver.LogicChanged
		}
	}
	return result
}

// InitLinks: a later cell must exceed an earlier one by at least their
// distance, so every violating value pair is weak-linked. SetValue
// propagation then handles enforcement with no constraint-local code.
func (c *Thermometer) InitLinks(s *solver.Solver) solver.LogicResult {
	for i := 0; i < len(c.Cells); i++ {
		for j := i + 1; j < len(c.Cells); j++ {
			gap := j - i
			for a := 1; a <= solver.MaxValue; a++ {
				for b := 1; b <= solver.MaxValue; b++ {
					if b < a+gap {
						s.AddWeakLink(solver.CandidateIndex(c.Cells[i], a), solver.CandidateIndex(c.Cells[j], b))
					}
				}
			}
		}
	}
	return solver.LogicNone
}

// StepLogic runs the sliding bound pass: each cell's minimum pushes the
// next cell's floor up, each cell's maximum pushes the previous cell's
// ceiling down. One atomic step carries all resulting eliminations.
func (c *Thermometer) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	return applyMaskChange(s, sink, c.Specific, c.Cells, func() solver.LogicResult {
		result := solver.LogicNone
		lo := 0
		for _, cell := range c.Cells {
			switch s.KeepMask(solver.CellRow(cell), solver.CellCol(cell), solver.MaskBetweenInclusive(lo+1, solver.MaxValue)) {
			case solver.LogicInvalid:
				return solver.LogicInvalid
			case solver.LogicChanged:
				result = solver.LogicChanged
			}
			lo = s.CellMask(cell).Min()
		}
		hi := solver.MaxValue + 1
		for i := len(c.Cells) - 1; i >= 0; i-- {
			cell := c.Cells[i]
			switch s.KeepMask(solver.CellRow(cell), solver.CellCol(cell), solver.MaskBetweenInclusive(1, hi-1)) {
			case solver.LogicInvalid:
				return solver.LogicInvalid
			case solver.LogicChanged:
				result = solver.LogicChanged
			}
			hi = s.CellMask(cell).Max()
		}
		return result
	})
}
