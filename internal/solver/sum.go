package solver

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Sum decomposition underlies every arithmetic constraint (killer cages,
// arrows, little killers, sandwiches, X-sums, between lines). A cell set
// is split into SumGroups — mutual-visibility cliques, so plain Sudoku
// rules force distinct digits inside each — and per-group attainable
// sums are combined with a degree-of-freedom argument: a group may only
// absorb as much slack as the other groups leave against the target.
//
// The computations are combinatorial, so results are memoized on the
// solver keyed by the canonical cell-set id, the requested sum set, and
// a digest of the involved cells' current masks.

const (
	memoKindMinMax uint8 = iota
	memoKindPossible
	memoKindRestrict
)

type memoKey struct {
	kind    uint8
	cells   string
	sums    string
	exclude Mask
	digest  uint64
}

type memoValue struct {
	min, max int
	sums     []int
	masks    []Mask
	result   LogicResult
}

func (s *Solver) memoGet(k memoKey) (memoValue, bool) {
	if s.memo == nil {
		return memoValue{}, false
	}
	v, ok := s.memo[k]
	return v, ok
}

func (s *Solver) memoPut(k memoKey, v memoValue) {
	if s.memo == nil {
		s.memo = make(map[memoKey]memoValue)
	}
	s.memo[k] = v
}

// maskDigest hashes the current masks of the given cells (FNV-1a), so
// memo entries are invalidated automatically as candidates are removed.
func (s *Solver) maskDigest(cells []int) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	for _, cell := range cells {
		m := uint32(s.board[cell])
		buf[0] = byte(m)
		buf[1] = byte(m >> 8)
		buf[2] = byte(m >> 16)
		buf[3] = byte(m >> 24)
		h.Write(buf[:])
	}
	return h.Sum64()
}

func cellSetID(cells []int) string {
	var sb strings.Builder
	for i, c := range cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}

func sumSetID(sums []int) string {
	var sb strings.Builder
	for i, v := range sums {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// SumGroup is one internally-distinct clique of a sum-constrained cell
// set.
type SumGroup struct {
	Cells []int
	id    string
}

// NewSumGroupForCells builds a SumGroup over cells the caller already
// knows are mutually visible (a stretch of one row or column, say).
func NewSumGroupForCells(cells []int) *SumGroup {
	return newSumGroup(cells)
}

func newSumGroup(cells []int) *SumGroup {
	sorted := make([]int, len(cells))
	copy(sorted, cells)
	sort.Ints(sorted)
	return &SumGroup{Cells: sorted, id: cellSetID(sorted)}
}

// splitSetSum separates set cells (returning their value total) from the
// unset remainder.
func (g *SumGroup) splitSetSum(s *Solver) (setSum int, unset []int) {
	for _, cell := range g.Cells {
		if m := s.board[cell]; m.IsSet() {
			setSum += m.Value()
		} else {
			unset = append(unset, cell)
		}
	}
	return setSum, unset
}

// MinMaxSum returns the smallest and largest totals the group can still
// attain, or (0, 0) when no assignment is feasible.
func (g *SumGroup) MinMaxSum(s *Solver) (int, int) {
	return g.MinMaxSumWithout(s, 0)
}

// MinMaxSumWithout is MinMaxSum with an additional mask of values the
// caller forbids in every unset cell (sandwich and X-sum logic use this
// to reason about partial fills).
func (g *SumGroup) MinMaxSumWithout(s *Solver, exclude Mask) (int, int) {
	key := memoKey{kind: memoKindMinMax, cells: g.id, exclude: exclude, digest: s.maskDigest(g.Cells)}
	if v, ok := s.memoGet(key); ok {
		return v.min, v.max
	}
	lo, hi := g.minMaxSumUncached(s, exclude)
	s.memoPut(key, memoValue{min: lo, max: hi})
	return lo, hi
}

func (g *SumGroup) minMaxSumUncached(s *Solver, exclude Mask) (int, int) {
	setSum, unset := g.splitSetSum(s)
	if len(unset) == 0 {
		return setSum, setSum
	}

	// Exact fill: a full-size group holds every digit once.
	if len(g.Cells) == MaxValue && exclude == 0 {
		full := MaxValue * (MaxValue + 1) / 2
		return full, full
	}

	// Single cell: the range is just its candidate extremes.
	if len(unset) == 1 {
		m := s.board[unset[0]].Candidates() &^ exclude
		if m == 0 {
			return 0, 0
		}
		return setSum + m.Min(), setSum + m.Max()
	}

	var available Mask
	for _, cell := range unset {
		available |= s.board[cell].Candidates()
	}
	available &^= exclude
	if available.Count() < len(unset) {
		return 0, 0
	}

	// Value count equals cell count: the digit set, and so the sum, is
	// determined — only placeability remains in question.
	if available.Count() == len(unset) {
		forced := make([]int, 0, len(unset))
		total := setSum
		for v := 1; v <= MaxValue; v++ {
			if available.Has(v) {
				forced = append(forced, v)
				total += v
			}
		}
		if ok, err := s.CanPlaceDigitsAnyOrder(unset, forced); err != nil || !ok {
			return 0, 0
		}
		return total, total
	}

	minSum, maxSum := 0, 0
	found := false
	g.enumerateCombos(s, unset, available, func(values []int, total int) bool {
		if !found || setSum+total < minSum {
			minSum = setSum + total
		}
		if !found || setSum+total > maxSum {
			maxSum = setSum + total
		}
		found = true
		return true
	})
	if !found {
		return 0, 0
	}
	return minSum, maxSum
}

// enumerateCombos visits every admissible distinct-value combination of
// size len(unset) drawn from available, calling visit with the values
// and their total. Admissible means the solver can place the digits in
// the cells in some order. Returning false from visit stops enumeration.
func (g *SumGroup) enumerateCombos(s *Solver, unset []int, available Mask, visit func(values []int, total int) bool) {
	values := make([]int, 0, MaxValue)
	for v := 1; v <= MaxValue; v++ {
		if available.Has(v) {
			values = append(values, v)
		}
	}
	combo := make([]int, 0, len(unset))
	stopped := false
	var recurse func(start, total int)
	recurse = func(start, total int) {
		if stopped {
			return
		}
		if len(combo) == len(unset) {
			ok, err := s.CanPlaceDigitsAnyOrder(unset, combo)
			if err == nil && ok {
				if !visit(combo, total) {
					stopped = true
				}
			}
			return
		}
		for i := start; i < len(values); i++ {
			combo = append(combo, values[i])
			recurse(i+1, total+values[i])
			combo = combo[:len(combo)-1]
		}
	}
	recurse(0, 0)
}

// PossibleSums returns the sorted set of attainable totals.
func (g *SumGroup) PossibleSums(s *Solver) []int {
	key := memoKey{kind: memoKindPossible, cells: g.id, digest: s.maskDigest(g.Cells)}
	if v, ok := s.memoGet(key); ok {
		return v.sums
	}
	setSum, unset := g.splitSetSum(s)
	var sums []int
	if len(unset) == 0 {
		sums = []int{setSum}
	} else {
		var available Mask
		for _, cell := range unset {
			available |= s.board[cell].Candidates()
		}
		seen := map[int]bool{}
		g.enumerateCombos(s, unset, available, func(values []int, total int) bool {
			seen[setSum+total] = true
			return true
		})
		for total := range seen {
			sums = append(sums, total)
		}
		sort.Ints(sums)
	}
	s.memoPut(key, memoValue{sums: sums})
	return sums
}

// restrictToSums keeps, in each unset cell, only the values that appear
// in some admissible permutation whose group total satisfies allowed.
func (g *SumGroup) restrictToSums(s *Solver, allowed func(int) bool) LogicResult {
	setSum, unset := g.splitSetSum(s)
	if len(unset) == 0 {
		if allowed(setSum) {
			return LogicNone
		}
		return LogicInvalid
	}
	var available Mask
	for _, cell := range unset {
		available |= s.board[cell].Candidates()
	}
	keep := make([]Mask, len(unset))
	g.enumerateCombos(s, unset, available, func(values []int, total int) bool {
		if !allowed(setSum + total) {
			return true
		}
		g.foreachPlacement(s, unset, values, func(perm []int) {
			for i, v := range perm {
				keep[i] |= ValueMask(v)
			}
		})
		return true
	})

	result := LogicNone
	for i, cell := range unset {
		if keep[i] == 0 {
			return LogicInvalid
		}
		switch s.KeepMask(CellRow(cell), CellCol(cell), keep[i]) {
		case LogicInvalid:
			return LogicInvalid
		case LogicChanged:
			result = LogicChanged
		}
	}
	return result
}

// foreachPlacement enumerates the placements of a distinct value set
// over the cells that survive mask and weak-link checks.
func (g *SumGroup) foreachPlacement(s *Solver, cells []int, values []int, visit func(perm []int)) {
	used := make([]bool, len(values))
	perm := make([]int, len(cells))
	placed := make([]int, 0, len(cells))
	var recurse func(idx int)
	recurse = func(idx int) {
		if idx == len(cells) {
			visit(perm)
			return
		}
		cell := cells[idx]
		for i, v := range values {
			if used[i] || !s.board[cell].Has(v) {
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
			perm[idx] = v
			placed = append(placed, ci)
			recurse(idx + 1)
			placed = placed[:len(placed)-1]
			used[i] = false
		}
	}
	recurse(0)
}

// SumCellsHelper decomposes an arbitrary sum-constrained cell set into
// SumGroups and combines their per-group sums.
type SumCellsHelper struct {
	Cells  []int
	Groups []*SumGroup
	id     string
}

// NewSumCellsHelper splits the cells into mutual-visibility cliques.
// Must be called after finalize (the split needs the seen map).
func NewSumCellsHelper(s *Solver, cells []int) *SumCellsHelper {
	sorted := make([]int, len(cells))
	copy(sorted, cells)
	sort.Ints(sorted)
	h := &SumCellsHelper{Cells: sorted, id: cellSetID(sorted)}
	for _, part := range s.SplitIntoGroups(sorted) {
		h.Groups = append(h.Groups, newSumGroup(part))
	}
	return h
}

// MinMaxSum totals the per-group ranges; any infeasible group makes the
// whole set infeasible, reported as (0, 0).
func (h *SumCellsHelper) MinMaxSum(s *Solver) (int, int) {
	key := memoKey{kind: memoKindMinMax, cells: h.id, digest: s.maskDigest(h.Cells)}
	if v, ok := s.memoGet(key); ok {
		return v.min, v.max
	}
	lo, hi := 0, 0
	for _, g := range h.Groups {
		gLo, gHi := g.MinMaxSum(s)
		if gLo == 0 && gHi == 0 {
			s.memoPut(key, memoValue{})
			return 0, 0
		}
		lo += gLo
		hi += gHi
	}
	s.memoPut(key, memoValue{min: lo, max: hi})
	return lo, hi
}

// maxExactGroups bounds the exact possible-sum enumeration; beyond it
// the [min, max] range is reported as an approximation.
const maxExactGroups = 5

// PossibleSums returns the sorted attainable totals of the whole set.
// With more than maxExactGroups incomplete groups the exact cross
// product is too wide and the contiguous [min, max] range is returned
// instead.
func (h *SumCellsHelper) PossibleSums(s *Solver) []int {
	key := memoKey{kind: memoKindPossible, cells: h.id, digest: s.maskDigest(h.Cells)}
	if v, ok := s.memoGet(key); ok {
		return v.sums
	}

	incomplete := 0
	for _, g := range h.Groups {
		if _, unset := g.splitSetSum(s); len(unset) > 0 {
			incomplete++
		}
	}

	var sums []int
	if incomplete > maxExactGroups {
		lo, hi := h.MinMaxSum(s)
		if !(lo == 0 && hi == 0) {
			for t := lo; t <= hi; t++ {
				sums = append(sums, t)
			}
		}
	} else {
		totals := map[int]bool{}
		h.enumerateSums(s, 0, 0, totals)
		for t := range totals {
			sums = append(sums, t)
		}
		sort.Ints(sums)
	}
	s.memoPut(key, memoValue{sums: sums})
	return sums
}

// enumerateSums walks the cross product of per-group possible sums.
// The groupIndex == len(Groups) guard terminates the recursion; partial
// totals accumulate on the way down.
func (h *SumCellsHelper) enumerateSums(s *Solver, groupIndex, total int, out map[int]bool) {
	if groupIndex == len(h.Groups) {
		out[total] = true
		return
	}
	for _, gs := range h.Groups[groupIndex].PossibleSums(s) {
		h.enumerateSums(s, groupIndex+1, total+gs, out)
	}
}

// RestrictSumRange narrows every cell to values compatible with a total
// in [minSum, maxSum]. Each group may only absorb the slack the others
// leave: with minDof = maxSum − Σ group mins and maxDof = Σ group maxs −
// minSum, group i's sum is confined to
// [max(min_i, max_i − maxDof), min(max_i, min_i + minDof)].
func (h *SumCellsHelper) RestrictSumRange(s *Solver, minSum, maxSum int) LogicResult {
	if minSum > maxSum {
		return LogicInvalid
	}
	sums := make([]int, 0, maxSum-minSum+1)
	for t := minSum; t <= maxSum; t++ {
		sums = append(sums, t)
	}
	return h.RestrictSums(s, sums)
}

// RestrictSums narrows every cell to values compatible with some total
// in the given set. Memoized; on a cache hit the stored per-cell masks
// are re-applied, which is idempotent.
func (h *SumCellsHelper) RestrictSums(s *Solver, sums []int) LogicResult {
	if len(sums) == 0 {
		return LogicInvalid
	}
	sorted := make([]int, len(sums))
	copy(sorted, sums)
	sort.Ints(sorted)

	key := memoKey{kind: memoKindRestrict, cells: h.id, sums: sumSetID(sorted), digest: s.maskDigest(h.Cells)}
	if v, ok := s.memoGet(key); ok {
		if v.result == LogicInvalid {
			return LogicInvalid
		}
		return h.applyMasks(s, v.masks)
	}

	result := h.restrictSumsUncached(s, sorted)
	value := memoValue{result: result}
	if result != LogicInvalid {
		value.masks = make([]Mask, len(h.Cells))
		for i, cell := range h.Cells {
			value.masks[i] = s.board[cell].Candidates()
		}
	}
	s.memoPut(key, value)
	return result
}

func (h *SumCellsHelper) restrictSumsUncached(s *Solver, sorted []int) LogicResult {
	targetMin, targetMax := sorted[0], sorted[len(sorted)-1]
	target := make(map[int]bool, len(sorted))
	for _, t := range sorted {
		target[t] = true
	}

	mins := make([]int, len(h.Groups))
	maxs := make([]int, len(h.Groups))
	sumMins, sumMaxs := 0, 0
	for i, g := range h.Groups {
		lo, hi := g.MinMaxSum(s)
		if lo == 0 && hi == 0 {
			return LogicInvalid
		}
		mins[i], maxs[i] = lo, hi
		sumMins += lo
		sumMaxs += hi
	}
	if sumMins > targetMax || sumMaxs < targetMin {
		return LogicInvalid
	}

	minDof := targetMax - sumMins
	maxDof := sumMaxs - targetMin

	result := LogicNone
	for i, g := range h.Groups {
		gLo := mins[i]
		if floor := maxs[i] - maxDof; floor > gLo {
			gLo = floor
		}
		gHi := maxs[i]
		if ceil := mins[i] + minDof; ceil < gHi {
			gHi = ceil
		}
		if gLo > gHi {
			return LogicInvalid
		}

		var allowed func(int) bool
		if len(h.Groups) == 1 {
			// Single group: the group total is the set total, so the
			// exact sum set applies, not just its hull.
			allowed = func(t int) bool { return target[t] }
		} else {
			lo, hi := gLo, gHi
			allowed = func(t int) bool { return t >= lo && t <= hi }
		}
		switch g.restrictToSums(s, allowed) {
		case LogicInvalid:
			return LogicInvalid
		case LogicChanged:
			result = LogicChanged
		}
	}
	return result
}

func (h *SumCellsHelper) applyMasks(s *Solver, masks []Mask) LogicResult {
	result := LogicNone
	for i, cell := range h.Cells {
		switch s.KeepMask(CellRow(cell), CellCol(cell), masks[i]) {
		case LogicInvalid:
			return LogicInvalid
		case LogicChanged:
			result = LogicChanged
		}
	}
	return result
}
