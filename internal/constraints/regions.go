package constraints

import (
	"fmt"
	"strings"

	"github.com/rawblock/sudoku-engine/internal/solver"
)

func init() {
	solver.RegisterConstraint("diagonal", newDiagonal)
	solver.RegisterConstraint("disjointgroups", newDisjointGroups)
	solver.RegisterConstraint("extraregion", newExtraRegion)
}

// regionConstraint covers the constraints that are nothing but extra
// distinct-value groups: diagonals, disjoint groups, extra regions. The
// groups do all the work once registered; the constraint object remains
// for identity and inheritance hashing.
type regionConstraint struct {
	solver.ConstraintBase
}

func newRegionConstraint(name, specific string) *regionConstraint {
	return &regionConstraint{ConstraintBase: solver.ConstraintBase{ConstraintName: name, Specific: specific}}
}

// newDiagonal parses "positive", "negative" or "both". The negative
// diagonal runs r1c1-r9c9; the positive one r9c1-r1c9.
func newDiagonal(s *solver.Solver, options string) ([]solver.Constraint, error) {
	mode := strings.ToLower(strings.TrimSpace(options))
	var wantNeg, wantPos bool
	switch mode {
	case "negative":
		wantNeg = true
	case "positive":
		wantPos = true
	case "both":
		wantNeg, wantPos = true, true
	default:
		return nil, fmt.Errorf("bad diagonal option %q (want positive/negative/both)", options)
	}
	var out []solver.Constraint
	if wantNeg {
		cells := make([]int, solver.MaxValue)
		for i := range cells {
			cells[i] = solver.CellIndex(i, i)
		}
		if err := s.AddGroup(solver.NewGroup("Negative Diagonal", cells)); err != nil {
			return nil, err
		}
		out = append(out, newRegionConstraint("Diagonal", "Diagonal negative"))
	}
	if wantPos {
		cells := make([]int, solver.MaxValue)
		for i := range cells {
			cells[i] = solver.CellIndex(solver.Height-1-i, i)
		}
		if err := s.AddGroup(solver.NewGroup("Positive Diagonal", cells)); err != nil {
			return nil, err
		}
		out = append(out, newRegionConstraint("Diagonal", "Diagonal positive"))
	}
	return out, nil
}

// newDisjointGroups registers the nine same-position-in-box groups.
func newDisjointGroups(s *solver.Solver, options string) ([]solver.Constraint, error) {
	for pos := 0; pos < solver.MaxValue; pos++ {
		cells := make([]int, 0, solver.MaxValue)
		pr, pc := pos/solver.BoxWidth, pos%solver.BoxWidth
		for br := 0; br < solver.Height/solver.BoxHeight; br++ {
			for bc := 0; bc < solver.Width/solver.BoxWidth; bc++ {
				cells = append(cells, solver.CellIndex(br*solver.BoxHeight+pr, bc*solver.BoxWidth+pc))
			}
		}
		if err := s.AddGroup(solver.NewGroup(fmt.Sprintf("Disjoint Group %d", pos+1), cells)); err != nil {
			return nil, err
		}
	}
	return []solver.Constraint{newRegionConstraint("Disjoint Groups", "Disjoint Groups")}, nil
}

// newExtraRegion parses a cell list forming one extra region.
func newExtraRegion(s *solver.Solver, options string) ([]solver.Constraint, error) {
	cells, err := ParseCells(options)
	if err != nil {
		return nil, err
	}
	if len(cells) != solver.MaxValue {
		return nil, fmt.Errorf("extra region needs exactly %d cells, got %d", solver.MaxValue, len(cells))
	}
	specific := fmt.Sprintf("Extra Region %s", solver.DescribeCells(cells))
	if err := s.AddGroup(solver.NewGroup(specific, cells)); err != nil {
		return nil, err
	}
	return []solver.Constraint{newRegionConstraint("Extra Region", specific)}, nil
}
