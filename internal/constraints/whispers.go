package constraints

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("whispers", newWhispers)
}

// Whispers forces adjacent cells along the line to differ by at least
// MinDiff (5 for classic german whispers).
type Whispers struct {
	solver.ConstraintBase
	Cells   []int
	MinDiff int
}

// newWhispers parses "cells" or "diff;cells": "r1c1r2c1r3c1" or
// "4;r1c1r2c1".
func newWhispers(s *solver.Solver, options string) ([]solver.Constraint, error) {
	diff := 5
	spec := options
	if i := strings.IndexByte(options, ';'); i >= 0 {
		v, err := strconv.Atoi(strings.TrimSpace(options[:i]))
		if err != nil || v < 1 || v >= solver.MaxValue {
			return nil, fmt.Errorf("bad whispers difference %q", options[:i])
		}
		diff = v
		spec = options[i+1:]
	}
	cells, err := ParseCells(spec)
	if err != nil {
		return nil, err
	}
	if len(cells) < 2 {
		return nil, fmt.Errorf("whispers needs at least 2 cells")
	}
	c := &Whispers{
		ConstraintBase: solver.ConstraintBase{
			ConstraintName: "Whispers",
			Specific:       fmt.Sprintf("Whispers(%d) %s", diff, solver.DescribeCells(cells)),
		},
		Cells:   cells,
		MinDiff: diff,
	}
	return []solver.Constraint{c}, nil
}

// InitCandidates removes values that no in-range neighbor value can
// partner (for the classic difference of 5 this kills the 5s).
func (c *Whispers) InitCandidates(s *solver.Solver) solver.LogicResult {
	var unary solver.Mask
	for v := 1; v <= solver.MaxValue; v++ {
		if v-c.MinDiff >= 1 || v+c.MinDiff <= solver.MaxValue {
			unary |= solver.ValueMask(v)
		}
	}
	result := solver.LogicNone
	for _, cell := range c.Cells {
		switch s.KeepMask(solver.CellRow(cell), solver.CellCol(cell), unary) {
		case solver.LogicInvalid:
			return solver.LogicInvalid
		case solver.LogicChanged:
			result = solver.LogicChanged
		}
	}
	return result
}

// InitLinks weak-links every too-close value pair on adjacent cells.
func (c *Whispers) InitLinks(s *solver.Solver) solver.LogicResult {
	for i := 0; i+1 < len(c.Cells); i++ {
		for a := 1; a <= solver.MaxValue; a++ {
			for b := 1; b <= solver.MaxValue; b++ {
				if abs(a-b) < c.MinDiff {
					s.AddWeakLink(solver.CandidateIndex(c.Cells[i], a), solver.CandidateIndex(c.Cells[i+1], b))
				}
			}
		}
	}
	return solver.LogicNone
}

// StepLogic keeps, in each cell, only values with a viable partner in
// every adjacent cell.
func (c *Whispers) StepLogic(s *solver.Solver, sink *solver.StepSink, isBruteForcing bool) solver.LogicResult {
	return applyMaskChange(s, sink, c.Specific, c.Cells, func() solver.LogicResult {
		result := solver.LogicNone
		for pass := 0; pass < 2; pass++ {
			for i, cell := range c.Cells {
				var keep solver.Mask
				for v := 1; v <= solver.MaxValue; v++ {
					if !s.CellMask(cell).Has(v) {
						continue
					}
					ok := true
					for _, adj := range []int{i - 1, i + 1} {
						if adj < 0 || adj >= len(c.Cells) {
							continue
						}
						partner := s.CellMask(c.Cells[adj]).Candidates()
						viable := false
						for b := 1; b <= solver.MaxValue; b++ {
							if partner.Has(b) && abs(v-b) >= c.MinDiff {
								viable = true
								break
							}
						}
						if !viable {
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
		}
		return result
	})
}
