package solver

import (
	"context"
	"math/rand"
)

// Brute-force search: depth-first with logic-guided propagation at every
// node. Each branch works on an independent clone, so backtracking is
// just dropping the clone; the host board is never touched.

// branchOption is one speculative placement to try.
type branchOption struct {
	cell  int
	value int
}

// GetLeastCandidateCell picks the branching cell: the fewest-candidate
// unset cell of the smallest group first, then the global minimum. A
// two-candidate cell short-circuits immediately. Returns -1 when the
// board is complete.
func (s *Solver) GetLeastCandidateCell() int {
	for _, g := range s.smallGroupsBySize {
		best, bestCount := -1, MaxValue+1
		for _, cell := range g.Cells {
			m := s.board[cell]
			if m.IsSet() {
				continue
			}
			if count := m.Count(); count < bestCount {
				best, bestCount = cell, count
				if count == 2 {
					return best
				}
			}
		}
		if best >= 0 {
			return best
		}
	}
	best, bestCount := -1, MaxValue+1
	for cell := 0; cell < NumCells; cell++ {
		m := s.board[cell]
		if m.IsSet() {
			continue
		}
		if count := m.Count(); count < bestCount {
			best, bestCount = cell, count
			if count == 2 {
				return best
			}
		}
	}
	return best
}

// branchOptions chooses the placements to explore from this node. When
// the least-candidate cell is wide (more than three candidates) and
// bilocals are allowed, a value with exactly two positions in a
// full-size group gives a two-way branch instead.
func (s *Solver) branchOptions(allowBilocals bool, rnd *rand.Rand) []branchOption {
	cell := s.GetLeastCandidateCell()
	if cell < 0 {
		return nil
	}
	m := s.board[cell]
	if allowBilocals && m.Count() > 3 {
		if ci0, ci1, ok := s.FindBilocalValue(); ok {
			opts := []branchOption{
				{CandidateCell(ci0), CandidateValue(ci0)},
				{CandidateCell(ci1), CandidateValue(ci1)},
			}
			if rnd != nil && rnd.Intn(2) == 1 {
				opts[0], opts[1] = opts[1], opts[0]
			}
			return opts
		}
	}
	opts := make([]branchOption, 0, m.Count())
	for v := 1; v <= MaxValue; v++ {
		if m.Has(v) {
			opts = append(opts, branchOption{cell, v})
		}
	}
	if rnd != nil {
		rnd.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	}
	return opts
}

// Solve finds the first solution in deterministic order, or nil when the
// puzzle has none. The host board is left untouched.
func (s *Solver) Solve(ctx context.Context) (Board, error) {
	return s.solveDFS(ctx, s.Clone(true), nil)
}

// FindRandomSolution is Solve with randomized branch ordering.
func (s *Solver) FindRandomSolution(ctx context.Context, seed int64) (Board, error) {
	return s.solveDFS(ctx, s.Clone(true), rand.New(rand.NewSource(seed)))
}

func (s *Solver) solveDFS(ctx context.Context, node *Solver, rnd *rand.Rand) (Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := node.BruteForcePropagate(ctx)
	if err != nil {
		return nil, err
	}
	switch res {
	case LogicInvalid:
		return nil, nil
	case LogicComplete:
		return node.board.Clone(), nil
	}
	for _, opt := range node.branchOptions(true, rnd) {
		child := node.Clone(true)
		if !child.SetValueByIndex(opt.cell, opt.value) {
			continue
		}
		solution, err := s.solveDFS(ctx, child, rnd)
		if err != nil {
			return nil, err
		}
		if solution != nil {
			return solution, nil
		}
	}
	return nil, nil
}

// CountSolutions counts solutions up to cap (cap == 0 means unbounded)
// and returns min(true count, cap). Counting is sequential; clones are
// independent, so a caller needing wall-clock speed can split the first
// branch across workers itself.
func (s *Solver) CountSolutions(ctx context.Context, cap uint64) (uint64, error) {
	var count uint64
	err := s.countDFS(ctx, s.Clone(true), cap, &count)
	return count, err
}

// FillRealCandidates reduces every cell to the candidates that appear
// in at least one solution, by test-solving each open candidate on a
// clone. The expensive, exact form of candidate filling; the API's
// true-candidate mode sits on top of it.
func (s *Solver) FillRealCandidates(ctx context.Context) (LogicResult, error) {
	result := LogicNone
	for cell := 0; cell < NumCells; cell++ {
		m := s.board[cell]
		if m.IsSet() {
			continue
		}
		for v := 1; v <= MaxValue; v++ {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if !m.Has(v) {
				continue
			}
			trial := s.Clone(true)
			solvable := trial.SetValueByIndex(cell, v)
			if solvable {
				board, err := s.solveDFS(ctx, trial, nil)
				if err != nil {
					return result, err
				}
				solvable = board != nil
			}
			if !solvable {
				if !s.ClearValue(CellRow(cell), CellCol(cell), v) {
					return LogicInvalid, nil
				}
				m = s.board[cell]
				result = LogicChanged
			}
		}
	}
	return result, nil
}

func (s *Solver) countDFS(ctx context.Context, node *Solver, cap uint64, count *uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cap > 0 && *count >= cap {
		return nil
	}
	res, err := node.BruteForcePropagate(ctx)
	if err != nil {
		return err
	}
	switch res {
	case LogicInvalid:
		return nil
	case LogicComplete:
		*count++
		return nil
	}
	for _, opt := range node.branchOptions(true, nil) {
		if cap > 0 && *count >= cap {
			return nil
		}
		child := node.Clone(true)
		if !child.SetValueByIndex(opt.cell, opt.value) {
			continue
		}
		if err := s.countDFS(ctx, child, cap, count); err != nil {
			return err
		}
	}
	return nil
}
