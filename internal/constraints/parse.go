// Package constraints implements the variant-constraint library on top
// of the solver's constraint protocol. Each constraint registers a
// parser+factory pair in the explicit registry at program start; options
// arrive as strings and are validated into typed configuration before a
// constraint instance exists.
package constraints

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

// ParseCells parses compact cell-list notation: "r1c1r1c2r2c3" or the
// comma-separated equivalent "r1c1,r1c2". Rows and columns are 1-based.
func ParseCells(spec string) ([]int, error) {
	spec = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(spec), ",", ""))
	if spec == "" {
		return nil, fmt.Errorf("empty cell list")
	}
	var cells []int
	rest := spec
	for len(rest) > 0 {
		if rest[0] != 'r' {
			return nil, fmt.Errorf("bad cell list %q: expected 'r' at %q", spec, rest)
		}
		ci := strings.IndexByte(rest, 'c')
		if ci < 0 {
			return nil, fmt.Errorf("bad cell list %q: missing 'c'", spec)
		}
		row, err := strconv.Atoi(rest[1:ci])
		if err != nil {
			return nil, fmt.Errorf("bad cell list %q: %v", spec, err)
		}
		rest = rest[ci+1:]
		end := strings.IndexByte(rest, 'r')
		if end < 0 {
			end = len(rest)
		}
		col, err := strconv.Atoi(rest[:end])
		if err != nil {
			return nil, fmt.Errorf("bad cell list %q: %v", spec, err)
		}
		rest = rest[end:]
		if row < 1 || row > solver.Height || col < 1 || col > solver.Width {
			return nil, fmt.Errorf("cell r%dc%d out of range", row, col)
		}
		cells = append(cells, solver.CellIndex(row-1, col-1))
	}
	return cells, nil
}

// splitOptions splits an options string on ';' and trims each part.
func splitOptions(options string, want int) ([]string, error) {
	parts := strings.Split(options, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d ';'-separated fields, got %d in %q", want, len(parts), options)
	}
	return parts, nil
}

// parseSum parses a positive integer clue.
func parseSum(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("bad sum %q", s)
	}
	return v, nil
}

// orthogonalNeighbors returns the in-grid cells sharing an edge.
func orthogonalNeighbors(cell int) []int {
	r, c := solver.CellRow(cell), solver.CellCol(cell)
	var out []int
	if r > 0 {
		out = append(out, solver.CellIndex(r-1, c))
	}
	if r < solver.Height-1 {
		out = append(out, solver.CellIndex(r+1, c))
	}
	if c > 0 {
		out = append(out, solver.CellIndex(r, c-1))
	}
	if c < solver.Width-1 {
		out = append(out, solver.CellIndex(r, c+1))
	}
	return out
}

// offsetCells returns the in-grid cells at the given (dr, dc) offsets.
func offsetCells(cell int, offsets [][2]int) []int {
	r, c := solver.CellRow(cell), solver.CellCol(cell)
	var out []int
	for _, off := range offsets {
		nr, nc := r+off[0], c+off[1]
		if nr >= 0 && nr < solver.Height && nc >= 0 && nc < solver.Width {
			out = append(out, solver.CellIndex(nr, nc))
		}
	}
	return out
}

// applyMaskChange runs compute against the cells and, when a sink is
// present, turns the before/after mask difference into one atomic step
// description. Failed computations leave no step behind unless they
// prove invalidity.
func applyMaskChange(s *solver.Solver, sink *solver.StepSink, description string, cells []int, compute func() solver.LogicResult) solver.LogicResult {
	var before []solver.Mask
	if sink.Wants() {
		before = make([]solver.Mask, len(cells))
		for i, cell := range cells {
			before[i] = s.CellMask(cell).Candidates()
		}
	}
	res := compute()
	if !sink.Wants() || res == solver.LogicNone {
		return res
	}
	var elims []int
	for i, cell := range cells {
		removed := before[i] &^ s.CellMask(cell).Candidates()
		for v := 1; v <= solver.MaxValue; v++ {
			if removed.Has(v) {
				elims = append(elims, solver.CandidateIndex(cell, v))
			}
		}
	}
	desc := solver.LogicalStepDesc{
		Description:          description,
		EliminatedCandidates: elims,
		HighlightCells:       cells,
		IsInvalid:            res == solver.LogicInvalid,
	}
	if len(elims) > 0 {
		desc.Description = fmt.Sprintf("%s ⇒ -%s", description, solver.DescribeCandidates(elims))
	}
	sink.Add(desc)
	return res
}
