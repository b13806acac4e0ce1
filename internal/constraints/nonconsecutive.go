package constraints

import (
	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("nonconsecutive", func(s *solver.Solver, options string) ([]solver.Constraint, error) {
		return []solver.Constraint{&Nonconsecutive{
			ConstraintBase: solver.ConstraintBase{ConstraintName: "Nonconsecutive", Specific: "Nonconsecutive"},
		}}, nil
	})
}

// Nonconsecutive bans consecutive digits in orthogonally adjacent
// cells. Equal digits are already excluded by the shared row or column.
type Nonconsecutive struct {
	solver.ConstraintBase
}

func (c *Nonconsecutive) InitLinks(s *solver.Solver) solver.LogicResult {
	for cell := 0; cell < solver.NumCells; cell++ {
		for _, n := range orthogonalNeighbors(cell) {
			if n < cell {
				continue
			}
			for v := 1; v <= solver.MaxValue; v++ {
				if v+1 <= solver.MaxValue {
					s.AddWeakLink(solver.CandidateIndex(cell, v), solver.CandidateIndex(n, v+1))
				}
				if v-1 >= 1 {
					s.AddWeakLink(solver.CandidateIndex(cell, v), solver.CandidateIndex(n, v-1))
				}
			}
		}
	}
	return solver.LogicNone
}

// StepLogic prunes values with no surviving partner in some neighbor.
func (c *Nonconsecutive) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	cells := make([]int, solver.NumCells)
	for i := range cells {
		cells[i] = i
	}
	return applyMaskChange(s, sink, c.Specific, cells, func() solver.LogicResult {
		result := solver.LogicNone
		for cell := 0; cell < solver.NumCells; cell++ {
			if s.CellMask(cell).IsSet() {
				continue
			}
			var keep solver.Mask
			for v := 1; v <= solver.MaxValue; v++ {
				if !s.CellMask(cell).Has(v) {
					continue
				}
				ok := true
				for _, n := range orthogonalNeighbors(cell) {
					partner := s.CellMask(n).Candidates() &^ (solver.ValueMask(v) | consecutiveMask(v))
					if partner == 0 {
						ok = false
						break
					}
				}
				if ok {
					keep |= solver.ValueMask(v)
				}
			}
			switch s.KeepMask(solver.CellRow(cell), solver.CellCol(cell), keep) {
			case solver.LogicInvalid:
				return solver.LogicInvalid
			case solver.LogicChanged:
				result = solver.LogicChanged
			}
		}
		return result
	})
}

// consecutiveMask returns the mask of v's consecutive partners.
func consecutiveMask(v int) solver.Mask {
	var m solver.Mask
	if v > 1 {
		m |= solver.ValueMask(v - 1)
	}
	if v < solver.MaxValue {
		m |= solver.ValueMask(v + 1)
	}
	return m
}
