package solver

import "sort"

// The weak-link graph is a symmetric relation over candidate indices:
// (a, b) present means a and b cannot both be true in any solution.
// Adjacency lists are kept sorted ascending and duplicate-free so
// membership is a binary search and elimination sets come from sorted
// merges. The graph is built at finalize (cell exclusivity, group pairs,
// constraint links, optional discovery) and is append-only afterwards.

// AddWeakLink records that candidates a and b cannot both be true. Both
// directions are inserted; self-links are ignored.
func (s *Solver) AddWeakLink(a, b int) {
	if a == b {
		return
	}
	s.weakLinks[a] = insertSorted(s.weakLinks[a], int32(b))
	s.weakLinks[b] = insertSorted(s.weakLinks[b], int32(a))
}

// IsWeakLink reports whether a and b are weak-linked.
func (s *Solver) IsWeakLink(a, b int) bool {
	list := s.weakLinks[a]
	i := sort.Search(len(list), func(i int) bool { return list[i] >= int32(b) })
	return i < len(list) && list[i] == int32(b)
}

// WeakLinkList exposes the sorted adjacency of one candidate. Callers
// must not mutate the returned slice.
func (s *Solver) WeakLinkList(ci int) []int32 {
	return s.weakLinks[ci]
}

// CalcElims returns the candidates weak-linked to every one of the given
// candidates: whatever distribution of truth among the sources holds,
// each returned candidate is false. Sources themselves and candidates
// already eliminated from the board are excluded. The result is sorted.
func (s *Solver) CalcElims(candidates ...int) []int {
	if len(candidates) == 0 {
		return nil
	}
	elims := s.weakLinks[candidates[0]]
	for _, ci := range candidates[1:] {
		elims = intersectSorted(elims, s.weakLinks[ci])
		if len(elims) == 0 {
			return nil
		}
	}
	out := make([]int, 0, len(elims))
	for _, e := range elims {
		ci := int(e)
		if !s.board[CandidateCell(ci)].Has(CandidateValue(ci)) {
			continue
		}
		isSource := false
		for _, src := range candidates {
			if src == ci {
				isSource = true
				break
			}
		}
		if !isSource {
			out = append(out, ci)
		}
	}
	return out
}

// insertSorted inserts v into a sorted slice, keeping order and skipping
// duplicates.
func insertSorted(list []int32, v int32) []int32 {
	i := sort.Search(len(list), func(i int) bool { return list[i] >= v })
	if i < len(list) && list[i] == v {
		return list
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = v
	return list
}

// intersectSorted merges two sorted lists keeping common elements.
func intersectSorted(a, b []int32) []int32 {
	out := make([]int32, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
