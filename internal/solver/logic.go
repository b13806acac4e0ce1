package solver

import "fmt"

// The basic deduction library. Every routine takes an optional step
// sink: with a sink the routine performs exactly one atomic step (one
// set, one elimination list, or one invalidation) so traces have
// deterministic granularity; with a nil sink it applies every instance
// it finds in one scan, which is what consolidation and brute-force
// propagation want. Scan order is fixed — cells ascending, groups in
// table order, values ascending — so results never depend on map
// iteration.

// FindNakedSingles sets every cell that has exactly one candidate left.
func (s *Solver) FindNakedSingles(sink *StepSink) LogicResult {
	result := LogicNone
	for cell := 0; cell < NumCells; cell++ {
		m := s.board[cell]
		if m.IsSet() {
			continue
		}
		if m.Candidates() == 0 {
			sink.Add(LogicalStepDesc{
				Description:    fmt.Sprintf("%s has no candidates remaining", CellName(cell)),
				HighlightCells: []int{cell},
				IsInvalid:      true,
			})
			return LogicInvalid
		}
		if m.Count() != 1 {
			continue
		}
		v := m.Min()
		if !s.SetValueByIndex(cell, v) {
			sink.Add(LogicalStepDesc{
				Description:    fmt.Sprintf("Naked single: %s=%d leads to a contradiction", CellName(cell), v),
				HighlightCells: []int{cell},
				IsInvalid:      true,
			})
			return LogicInvalid
		}
		sink.Add(LogicalStepDesc{
			Description:      fmt.Sprintf("Naked single: %s=%d", CellName(cell), v),
			SourceCandidates: []int{CandidateIndex(cell, v)},
			HighlightCells:   []int{cell},
			IsSingle:         true,
		})
		if sink.Wants() {
			return LogicChanged
		}
		result = LogicChanged
	}
	return result
}

// FindHiddenSingles sets values that have exactly one remaining position
// within a full-size group; smaller groups (cages, short regions) need not
// hold every value and are skipped. A full-size group missing a value
// entirely is a proof of invalidity.
func (s *Solver) FindHiddenSingles(sink *StepSink) LogicResult {
	result := LogicNone
	for _, g := range s.groups {
		var setMask Mask
		for _, cell := range g.Cells {
			if m := s.board[cell]; m.IsSet() {
				setMask |= ValueMask(m.Value())
			}
		}
		for v := 1; v <= MaxValue; v++ {
			if setMask.Has(v) {
				continue
			}
			pos := -1
			count := 0
			for _, cell := range g.Cells {
				m := s.board[cell]
				if !m.IsSet() && m.Has(v) {
					pos = cell
					count++
					if count > 1 {
						break
					}
				}
			}
			if count == 0 {
				if len(g.Cells) == MaxValue {
					sink.Add(LogicalStepDesc{
						Description:    fmt.Sprintf("%s has no place for %d", g.Name, v),
						HighlightCells: g.Cells,
						IsInvalid:      true,
					})
					return LogicInvalid
				}
				continue
			}
			if count != 1 || len(g.Cells) != MaxValue {
				continue
			}
			if !s.SetValueByIndex(pos, v) {
				sink.Add(LogicalStepDesc{
					Description:    fmt.Sprintf("Hidden single: %s=%d in %s leads to a contradiction", CellName(pos), v, g.Name),
					HighlightCells: []int{pos},
					IsInvalid:      true,
				})
				return LogicInvalid
			}
			sink.Add(LogicalStepDesc{
				Description:      fmt.Sprintf("Hidden single: %s=%d (only place for %d in %s)", CellName(pos), v, v, g.Name),
				SourceCandidates: []int{CandidateIndex(pos, v)},
				HighlightCells:   []int{pos},
				IsSingle:         true,
			})
			if sink.Wants() {
				return LogicChanged
			}
			result = LogicChanged
		}
	}
	return result
}

// FindCellForcing intersects the weak-link sets of every candidate of a
// cell with at most three candidates: whichever candidate turns out
// true, everything in the intersection is false.
func (s *Solver) FindCellForcing(sink *StepSink) LogicResult {
	result := LogicNone
	for cell := 0; cell < NumCells; cell++ {
		m := s.board[cell]
		if m.IsSet() || m.Count() > 3 || m.Count() < 2 {
			continue
		}
		sources := make([]int, 0, 3)
		for v := 1; v <= MaxValue; v++ {
			if m.Has(v) {
				sources = append(sources, CandidateIndex(cell, v))
			}
		}
		elims := s.CalcElims(sources...)
		if len(elims) == 0 {
			continue
		}
		res := s.applyElims(elims)
		sink.Add(LogicalStepDesc{
			Description: fmt.Sprintf("Cell forcing on %s (%s) ⇒ -%s",
				CellName(cell), m.String(), DescribeCandidates(elims)),
			SourceCandidates:     sources,
			EliminatedCandidates: elims,
			HighlightCells:       []int{cell},
			// The cell's candidates are one strong set; each elimination
			// hangs off every branch by a weak link.
			StrongLinks: sources,
			WeakLinks:   elims,
			IsInvalid:   res == LogicInvalid,
		})
		if res == LogicInvalid {
			return LogicInvalid
		}
		if sink.Wants() {
			return LogicChanged
		}
		result = LogicChanged
	}
	return result
}

// FindNakedPairs and FindNakedTriples find tuple cells within a group
// whose combined candidates match the tuple size; every value of the
// tuple is then eliminated from whatever sees all of its positions.
func (s *Solver) FindNakedPairs(sink *StepSink) LogicResult {
	return s.findNakedTuples(sink, 2)
}

func (s *Solver) FindNakedTriples(sink *StepSink) LogicResult {
	return s.findNakedTuples(sink, 3)
}

func (s *Solver) findNakedTuples(sink *StepSink, size int) LogicResult {
	result := LogicNone
	name := "pair"
	if size == 3 {
		name = "triple"
	}
	for _, g := range s.groups {
		unset := make([]int, 0, len(g.Cells))
		for _, cell := range g.Cells {
			m := s.board[cell]
			if !m.IsSet() && m.Count() <= size {
				unset = append(unset, cell)
			}
		}
		if len(unset) < size {
			continue
		}
		combos := combinations(len(unset), size)
		for _, combo := range combos {
			cells := make([]int, size)
			var combined Mask
			for i, idx := range combo {
				cells[i] = unset[idx]
				combined |= s.board[unset[idx]].Candidates()
			}
			if combined.Count() != size {
				continue
			}
			var elims, sources []int
			for v := 1; v <= MaxValue; v++ {
				if !combined.Has(v) {
					continue
				}
				vSources := make([]int, 0, size)
				for _, cell := range cells {
					if s.board[cell].Has(v) {
						vSources = append(vSources, CandidateIndex(cell, v))
					}
				}
				sources = append(sources, vSources...)
				elims = append(elims, s.CalcElims(vSources...)...)
			}
			if len(elims) == 0 {
				continue
			}
			res := s.applyElims(elims)
			sink.Add(LogicalStepDesc{
				Description: fmt.Sprintf("Naked %s %s in %s (%s) ⇒ -%s",
					name, combined.String(), g.Name, DescribeCells(cells), DescribeCandidates(elims)),
				SourceCandidates:     sources,
				EliminatedCandidates: elims,
				HighlightCells:       cells,
				IsInvalid:            res == LogicInvalid,
			})
			if res == LogicInvalid {
				return LogicInvalid
			}
			if sink.Wants() {
				return LogicChanged
			}
			result = LogicChanged
		}
	}
	return result
}

// FindPointing implements locked candidates: within a full-size group, a
// value confined to two or three cells is eliminated from every cell
// that sees all of them.
func (s *Solver) FindPointing(sink *StepSink) LogicResult {
	result := LogicNone
	for _, g := range s.maxValueGroups {
		var setMask Mask
		for _, cell := range g.Cells {
			if m := s.board[cell]; m.IsSet() {
				setMask |= ValueMask(m.Value())
			}
		}
		for v := 1; v <= MaxValue; v++ {
			if setMask.Has(v) {
				continue
			}
			positions := make([]int, 0, 3)
			for _, cell := range g.Cells {
				m := s.board[cell]
				if !m.IsSet() && m.Has(v) {
					positions = append(positions, cell)
					if len(positions) > 3 {
						break
					}
				}
			}
			if len(positions) < 2 || len(positions) > 3 {
				continue
			}
			sources := make([]int, len(positions))
			for i, cell := range positions {
				sources[i] = CandidateIndex(cell, v)
			}
			elims := s.CalcElims(sources...)
			if len(elims) == 0 {
				continue
			}
			res := s.applyElims(elims)
			sink.Add(LogicalStepDesc{
				Description: fmt.Sprintf("Pointing: %d in %s confined to %s ⇒ -%s",
					v, g.Name, DescribeCells(positions), DescribeCandidates(elims)),
				SourceCandidates:     sources,
				EliminatedCandidates: elims,
				HighlightCells:       positions,
				IsInvalid:            res == LogicInvalid,
			})
			if res == LogicInvalid {
				return LogicInvalid
			}
			if sink.Wants() {
				return LogicChanged
			}
			result = LogicChanged
		}
	}
	return result
}

// FindBilocalValue looks for a full-size group holding a value in
// exactly two cells; branching on either candidate forces the other.
// Returns the two candidate indices, or ok=false when none exists.
func (s *Solver) FindBilocalValue() (ci0, ci1 int, ok bool) {
	for _, g := range s.maxValueGroups {
		var setMask Mask
		for _, cell := range g.Cells {
			if m := s.board[cell]; m.IsSet() {
				setMask |= ValueMask(m.Value())
			}
		}
		for v := 1; v <= MaxValue; v++ {
			if setMask.Has(v) {
				continue
			}
			first, second, count := -1, -1, 0
			for _, cell := range g.Cells {
				m := s.board[cell]
				if !m.IsSet() && m.Has(v) {
					if count == 0 {
						first = cell
					} else {
						second = cell
					}
					count++
					if count > 2 {
						break
					}
				}
			}
			if count == 2 {
				return CandidateIndex(first, v), CandidateIndex(second, v), true
			}
		}
	}
	return 0, 0, false
}

// Fast variants used by consolidation and brute-force propagation; they
// share the step implementations with a nil sink, so search eliminations
// stay identical to what the step engine would deduce.
func (s *Solver) FastFindPairs() LogicResult       { return s.findNakedTuples(nil, 2) }
func (s *Solver) FastFindTriples() LogicResult     { return s.findNakedTuples(nil, 3) }
func (s *Solver) FastFindPointing() LogicResult    { return s.FindPointing(nil) }
func (s *Solver) FastFindCellForcing() LogicResult { return s.FindCellForcing(nil) }

// applyElims removes each candidate, reporting invalidity when a cell
// runs dry.
func (s *Solver) applyElims(elims []int) LogicResult {
	result := LogicNone
	for _, ci := range elims {
		if !s.ClearCandidate(ci) {
			return LogicInvalid
		}
		result = LogicChanged
	}
	return result
}

// combinations returns every k-subset of [0, n) in lexicographic order.
func combinations(n, k int) [][]int {
	if k > n {
		return nil
	}
	var out [][]int
	combo := make([]int, k)
	var recurse func(start, depth int)
	recurse = func(start, depth int) {
		if depth == k {
			out = append(out, append([]int(nil), combo...))
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			recurse(i+1, depth+1)
		}
	}
	recurse(0, 0)
	return out
}
