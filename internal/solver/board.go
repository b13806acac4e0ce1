package solver

import "strings"

// Board is the flat array of candidate masks, indexed row*Width + col.
// All mutation goes through solver methods so the weak-link and
// constraint invariants stay intact.
type Board []Mask

// NewBoard returns an empty board with every candidate open.
func NewBoard() Board {
	b := make(Board, NumCells)
	for i := range b {
		b[i] = AllValues
	}
	return b
}

// At returns the mask at (row, col).
func (b Board) At(row, col int) Mask {
	return b[CellIndex(row, col)]
}

// Clone deep-copies the board.
func (b Board) Clone() Board {
	c := make(Board, len(b))
	copy(c, b)
	return c
}

// IsComplete reports whether every cell has a fixed value.
func (b Board) IsComplete() bool {
	for _, m := range b {
		if !m.IsSet() {
			return false
		}
	}
	return true
}

// CandidatesRemaining counts candidate bits across all unset cells. The
// evaluator uses this as its effectiveness denominator.
func (b Board) CandidatesRemaining() int {
	total := 0
	for _, m := range b {
		if !m.IsSet() {
			total += m.Count()
		}
	}
	return total
}

// HasEmptyCell reports whether any cell has run out of candidates.
func (b Board) HasEmptyCell() bool {
	for _, m := range b {
		if m.Candidates() == 0 {
			return true
		}
	}
	return false
}

// String renders the board as an 81-character digit string with 0 for
// unset cells, the same shape the engine ingests.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(NumCells)
	for _, m := range b {
		if m.IsSet() {
			sb.WriteByte(byte('0' + m.Value()))
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
