package solver

import (
	"math/bits"
	"strings"
)

// Grid geometry. The engine is specialized to the classic 9x9 grid with
// 3x3 boxes; these are compile-time constants, not parameters.
const (
	Width     = 9
	Height    = 9
	BoxWidth  = 3
	BoxHeight = 3
	MaxValue  = 9
	NumCells  = Width * Height
	// NumCandidates is the size of the candidate-index space: one index
	// per (cell, value) pair.
	NumCandidates = NumCells * MaxValue
)

// Mask is the candidate bitmask for a single cell. Bits 0..MaxValue-1 are
// candidate bits (bit v-1 set means value v is still possible). Bit 31 is
// the value-set flag: when present, exactly one candidate bit remains and
// that value is fixed.
type Mask uint32

const (
	valueSetFlag Mask = 1 << 31
	// AllValues has every candidate bit set and the set flag clear.
	AllValues Mask = (1 << MaxValue) - 1
)

// ValueMask returns the mask with only value v's candidate bit set.
// v must be in [1, MaxValue].
func ValueMask(v int) Mask {
	return 1 << (v - 1)
}

// MaskStrictlyLower returns the mask of all candidate values < v.
func MaskStrictlyLower(v int) Mask {
	return ValueMask(v) - 1
}

// MaskStrictlyHigher returns the mask of all candidate values > v.
func MaskStrictlyHigher(v int) Mask {
	return AllValues &^ (MaskStrictlyLower(v) | ValueMask(v))
}

// MaskBetweenInclusive returns the mask of all values in [lo, hi].
func MaskBetweenInclusive(lo, hi int) Mask {
	if lo > hi {
		return 0
	}
	return AllValues &^ (MaskStrictlyLower(lo) | MaskStrictlyHigher(hi))
}

// Candidates strips the value-set flag, leaving only candidate bits.
func (m Mask) Candidates() Mask {
	return m &^ valueSetFlag
}

// Count returns the number of candidate bits, ignoring the set flag.
func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m.Candidates()))
}

// IsSet reports whether the cell's value has been fixed.
func (m Mask) IsSet() bool {
	return m&valueSetFlag != 0
}

// Has reports whether value v is still a candidate.
func (m Mask) Has(v int) bool {
	return m&ValueMask(v) != 0
}

// Min returns the lowest candidate value, or 0 when no candidate remains.
// Callers on hot paths check for emptiness before calling.
func (m Mask) Min() int {
	c := m.Candidates()
	if c == 0 {
		return 0
	}
	return bits.TrailingZeros32(uint32(c)) + 1
}

// Max returns the highest candidate value, or 0 when no candidate remains.
func (m Mask) Max() int {
	return 32 - bits.LeadingZeros32(uint32(m.Candidates()))
}

// Value returns the fixed value of a set cell, or 0 when the cell is not
// set.
func (m Mask) Value() int {
	if !m.IsSet() {
		return 0
	}
	return m.Min()
}

// setMask returns the mask representing value v fixed in a cell.
func setMask(v int) Mask {
	return valueSetFlag | ValueMask(v)
}

// String renders the candidate values as a digit string ("125"), used by
// step descriptions.
func (m Mask) String() string {
	var sb strings.Builder
	for v := 1; v <= MaxValue; v++ {
		if m.Has(v) {
			sb.WriteByte(byte('0' + v))
		}
	}
	return sb.String()
}

// CellIndex converts (row, col) to a flat cell index.
func CellIndex(row, col int) int {
	return row*Width + col
}

// CellRow and CellCol convert a flat cell index back to coordinates.
func CellRow(cell int) int { return cell / Width }
func CellCol(cell int) int { return cell % Width }

// BoxIndex returns the 3x3 box a cell belongs to, numbered left to right,
// top to bottom.
func BoxIndex(cell int) int {
	return (CellRow(cell)/BoxHeight)*(Width/BoxWidth) + CellCol(cell)/BoxWidth
}

// CandidateIndex maps a (cell, value) pair into [0, NumCandidates); the
// weak-link graph uses these as vertex ids.
func CandidateIndex(cell, v int) int {
	return cell*MaxValue + v - 1
}

// CandidateCell and CandidateValue invert CandidateIndex.
func CandidateCell(ci int) int  { return ci / MaxValue }
func CandidateValue(ci int) int { return ci%MaxValue + 1 }

// CellName renders a cell index in the conventional r#c# notation.
func CellName(cell int) string {
	var sb strings.Builder
	sb.WriteByte('r')
	sb.WriteByte(byte('1' + CellRow(cell)))
	sb.WriteByte('c')
	sb.WriteByte(byte('1' + CellCol(cell)))
	return sb.String()
}

// CandidateName renders a candidate index as value + cell ("5r3c7").
func CandidateName(ci int) string {
	var sb strings.Builder
	sb.WriteByte(byte('0' + CandidateValue(ci)))
	sb.WriteString(CellName(CandidateCell(ci)))
	return sb.String()
}
