package solver

import (
	"fmt"
	"sort"
)

// Group is an immutable set of cells whose values must be pairwise
// distinct: the nine rows, columns and boxes, plus any extra region a
// constraint contributes. Cells are kept sorted ascending so iteration
// order, and therefore every deduction that scans groups, is
// deterministic.
type Group struct {
	Name  string
	Cells []int
}

// NewGroup copies and sorts the cell list.
func NewGroup(name string, cells []int) *Group {
	sorted := make([]int, len(cells))
	copy(sorted, cells)
	sort.Ints(sorted)
	return &Group{Name: name, Cells: sorted}
}

// Contains reports whether the group includes the cell.
func (g *Group) Contains(cell int) bool {
	i := sort.SearchInts(g.Cells, cell)
	return i < len(g.Cells) && g.Cells[i] == cell
}

// standardGroups builds the 27 base Sudoku groups.
func standardGroups() []*Group {
	groups := make([]*Group, 0, 3*MaxValue)
	for r := 0; r < Height; r++ {
		cells := make([]int, Width)
		for c := 0; c < Width; c++ {
			cells[c] = CellIndex(r, c)
		}
		groups = append(groups, NewGroup(fmt.Sprintf("Row %d", r+1), cells))
	}
	for c := 0; c < Width; c++ {
		cells := make([]int, Height)
		for r := 0; r < Height; r++ {
			cells[r] = CellIndex(r, c)
		}
		groups = append(groups, NewGroup(fmt.Sprintf("Column %d", c+1), cells))
	}
	for b := 0; b < MaxValue; b++ {
		baseRow := (b / (Width / BoxWidth)) * BoxHeight
		baseCol := (b % (Width / BoxWidth)) * BoxWidth
		cells := make([]int, 0, BoxWidth*BoxHeight)
		for r := 0; r < BoxHeight; r++ {
			for c := 0; c < BoxWidth; c++ {
				cells = append(cells, CellIndex(baseRow+r, baseCol+c))
			}
		}
		groups = append(groups, NewGroup(fmt.Sprintf("Box %d", b+1), cells))
	}
	return groups
}

// ──────────────────────────────────────────────────────────────────
// Seen analysis
//
// The solver precomputes seen[c0][c1][v]: whether fixing value v in c0
// excludes v from c1 via groups or constraints. v = 0 means "for any
// value". Clique extraction over the mutual-visibility graph is what
// lets the sum helper decompose arbitrary cell sets into
// internally-distinct groups.
// ──────────────────────────────────────────────────────────────────

func (s *Solver) seenIdx(c0, c1, v int) int {
	return (c0*NumCells+c1)*(MaxValue+1) + v
}

// IsSeen reports whether c0 and c1 see each other for every value.
func (s *Solver) IsSeen(c0, c1 int) bool {
	return s.seenMap[s.seenIdx(c0, c1, 0)]
}

// IsSeenByValue reports whether placing v in c0 excludes it from c1.
func (s *Solver) IsSeenByValue(c0, c1, v int) bool {
	return s.seenMap[s.seenIdx(c0, c1, v)]
}

// SeenCells returns every cell that sees the given cell for all values,
// excluding the cell itself.
func (s *Solver) SeenCells(cell int) []int {
	out := make([]int, 0, 3*MaxValue)
	for other := 0; other < NumCells; other++ {
		if other != cell && s.IsSeen(cell, other) {
			out = append(out, other)
		}
	}
	return out
}

// SeenCellsByValueMask returns cells that see the given cell for every
// value present in mask.
func (s *Solver) SeenCellsByValueMask(cell int, mask Mask) []int {
	out := make([]int, 0, 3*MaxValue)
	for other := 0; other < NumCells; other++ {
		if other == cell {
			continue
		}
		seenAll := true
		for v := 1; v <= MaxValue; v++ {
			if mask.Has(v) && !s.IsSeenByValue(cell, other, v) {
				seenAll = false
				break
			}
		}
		if seenAll {
			out = append(out, other)
		}
	}
	return out
}

// SeenByAll returns the cells that see every cell in the given set, for
// all values, excluding the set itself.
func (s *Solver) SeenByAll(cells []int) []int {
	out := make([]int, 0, 3*MaxValue)
outer:
	for other := 0; other < NumCells; other++ {
		for _, c := range cells {
			if other == c || !s.IsSeen(c, other) {
				continue outer
			}
		}
		out = append(out, other)
	}
	return out
}

// IsGroup reports whether the cells are pairwise mutually visible, i.e.
// they must all hold distinct values.
func (s *Solver) IsGroup(cells []int) bool {
	for i := 0; i < len(cells); i++ {
		for j := i + 1; j < len(cells); j++ {
			if !s.IsSeen(cells[i], cells[j]) {
				return false
			}
		}
	}
	return true
}

// IsGroupByValueMask is IsGroup restricted to the values in mask, using
// the per-value seen relation.
func (s *Solver) IsGroupByValueMask(cells []int, mask Mask) bool {
	for i := 0; i < len(cells); i++ {
		for j := i + 1; j < len(cells); j++ {
			for v := 1; v <= MaxValue; v++ {
				if mask.Has(v) && !s.IsSeenByValue(cells[i], cells[j], v) {
					return false
				}
			}
		}
	}
	return true
}

// largestClique finds a maximum fully-connected subset of cells under
// the mutual-visibility relation. Cell sets here are small (at most a
// handful beyond MaxValue), so branch-and-bound enumeration is exact and
// cheap. The returned clique preserves the input order, which keeps
// SplitIntoGroups deterministic.
func (s *Solver) largestClique(cells []int) []int {
	var best []int
	current := make([]int, 0, len(cells))
	var recurse func(start int)
	recurse = func(start int) {
		if len(current) > len(best) {
			best = append(best[:0], current...)
		}
		// Bound: even taking every remaining cell cannot beat best.
		if len(current)+(len(cells)-start) <= len(best) {
			return
		}
		for i := start; i < len(cells); i++ {
			cand := cells[i]
			ok := true
			for _, c := range current {
				if !s.IsSeen(c, cand) {
					ok = false
					break
				}
			}
			if ok {
				current = append(current, cand)
				recurse(i + 1)
				current = current[:len(current)-1]
			}
		}
	}
	recurse(0)
	return best
}

// SplitIntoGroups partitions cells into internally-distinct subsets by
// repeatedly extracting the largest mutual-visibility clique from the
// remainder.
func (s *Solver) SplitIntoGroups(cells []int) [][]int {
	remaining := make([]int, len(cells))
	copy(remaining, cells)
	var groups [][]int
	for len(remaining) > 0 {
		clique := s.largestClique(remaining)
		if len(clique) == 0 {
			// Unreachable: a single cell is always a clique.
			clique = remaining[:1]
		}
		groups = append(groups, clique)
		next := remaining[:0]
		for _, c := range remaining {
			inClique := false
			for _, g := range clique {
				if g == c {
					inClique = true
					break
				}
			}
			if !inClique {
				next = append(next, c)
			}
		}
		remaining = next
	}
	return groups
}

// MinimumUniqueValues lower-bounds the number of distinct digits the
// cells must hold: the size of the largest visibility clique among them.
func (s *Solver) MinimumUniqueValues(cells []int) int {
	return len(s.largestClique(cells))
}

// CanPlaceDigits reports whether values[i] can be placed in cells[i] for
// all i simultaneously: every value must be a current candidate of its
// cell and no two of the resulting candidates may be weak-linked. A
// length mismatch is a programming error and returns a diagnostic.
func (s *Solver) CanPlaceDigits(cells []int, values []int) (bool, error) {
	if len(cells) != len(values) {
		return false, fmt.Errorf("CanPlaceDigits: %d cells but %d values", len(cells), len(values))
	}
	for i, cell := range cells {
		if !s.board[cell].Has(values[i]) {
			return false, nil
		}
	}
	for i := 0; i < len(cells); i++ {
		ci := CandidateIndex(cells[i], values[i])
		for j := i + 1; j < len(cells); j++ {
			if s.IsWeakLink(ci, CandidateIndex(cells[j], values[j])) {
				return false, nil
			}
		}
	}
	return true, nil
}

// CanPlaceDigitsAnyOrder reports whether the multiset of values can be
// distributed over the cells in some order.
func (s *Solver) CanPlaceDigitsAnyOrder(cells []int, values []int) (bool, error) {
	if len(cells) != len(values) {
		return false, fmt.Errorf("CanPlaceDigitsAnyOrder: %d cells but %d values", len(cells), len(values))
	}
	used := make([]bool, len(values))
	placed := make([]int, 0, len(cells))
	var recurse func(cellIdx int) bool
	recurse = func(cellIdx int) bool {
		if cellIdx == len(cells) {
			return true
		}
		cell := cells[cellIdx]
		for i, v := range values {
			if used[i] || !s.board[cell].Has(v) {
				continue
			}
			// Skip identical values already tried at this position.
			dup := false
			for j := 0; j < i; j++ {
				if !used[j] && values[j] == v {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			ci := CandidateIndex(cell, v)
			conflict := false
			for _, prev := range placed {
				if s.IsWeakLink(prev, ci) {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}
			used[i] = true
			placed = append(placed, ci)
			if recurse(cellIdx + 1) {
				return true
			}
			placed = placed[:len(placed)-1]
			used[i] = false
		}
		return false
	}
	return recurse(0), nil
}
