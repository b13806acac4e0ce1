package solver

import (
	"context"
	"fmt"
	"sort"
)

// Config carries finalize-time options.
type Config struct {
	// EnableWeakLinkDiscovery runs speculative propagation at finalize to
	// enrich the weak-link graph with non-trivial implications. Off by
	// default: it is expensive and only pays off on logic-heavy solves.
	EnableWeakLinkDiscovery bool
}

// CustomInfo is solver-scoped auxiliary state shared by constraints.
// Known uses get named fields; Extra is the opaque extension point and
// is treated as a blob by the core (values are shared, not deep-copied,
// on Clone).
type CustomInfo struct {
	// ConstraintStrings collects the human-readable descriptions of the
	// loaded constraints, in registration order.
	ConstraintStrings []string
	// GroupIndexByName maps extra-region group names to their index in
	// the solver's group table.
	GroupIndexByName map[string]int
	// Extra holds constraint-private shared state.
	Extra map[string]any
}

func newCustomInfo() *CustomInfo {
	return &CustomInfo{
		GroupIndexByName: make(map[string]int),
		Extra:            make(map[string]any),
	}
}

func (ci *CustomInfo) clone() *CustomInfo {
	c := &CustomInfo{
		ConstraintStrings: append([]string(nil), ci.ConstraintStrings...),
		GroupIndexByName:  make(map[string]int, len(ci.GroupIndexByName)),
		Extra:             make(map[string]any, len(ci.Extra)),
	}
	for k, v := range ci.GroupIndexByName {
		c.GroupIndexByName[k] = v
	}
	for k, v := range ci.Extra {
		c.Extra[k] = v
	}
	return c
}

// Solver owns the board, the groups, the constraints, the weak-link
// graph, the memo cache and the seen map, and exposes the engine's
// top-level operations. A solver is single-goroutine; speculative work
// happens on Clones.
type Solver struct {
	board       Board
	groups      []*Group
	constraints []Constraint
	config      Config

	// Derived group views, built at finalize.
	cellToGroups      [][]*Group
	maxValueGroups    []*Group
	smallGroupsBySize []*Group

	// weakLinks and seenMap are immutable after finalize (weak links are
	// append-only during discovery, which completes inside finalize) and
	// are shared by reference across Clones.
	weakLinks [][]int32
	seenMap   []bool

	memo       map[memoKey]memoValue
	customInfo *CustomInfo

	isInSetValue bool
	finalized    bool
}

// NewSolver builds a solver with the standard 27 Sudoku groups and an
// empty board. Constraints are added next, then FinalizeConstraints.
func NewSolver(config Config) *Solver {
	s := &Solver{
		board:      NewBoard(),
		groups:     standardGroups(),
		config:     config,
		weakLinks:  make([][]int32, NumCandidates),
		customInfo: newCustomInfo(),
	}
	return s
}

// Cell returns the candidate mask at (row, col).
func (s *Solver) Cell(row, col int) Mask {
	return s.board.At(row, col)
}

// CellMask returns the candidate mask at a flat cell index.
func (s *Solver) CellMask(cell int) Mask {
	return s.board[cell]
}

// BoardSnapshot returns a copy of the current board.
func (s *Solver) BoardSnapshot() Board {
	return s.board.Clone()
}

// Groups returns the group table. Callers must not mutate it.
func (s *Solver) Groups() []*Group { return s.groups }

// MaxValueGroups returns the groups of exactly MaxValue cells; pointing
// and bilocal deductions only apply there. Valid after finalize.
func (s *Solver) MaxValueGroups() []*Group { return s.maxValueGroups }

// Constraints returns the constraint list in iteration order.
func (s *Solver) Constraints() []Constraint { return s.constraints }

// Info returns the shared custom-info record.
func (s *Solver) Info() *CustomInfo { return s.customInfo }

// AddGroup registers an extra distinct-values region. Groups can only be
// added before finalize; constraint factories use this for cages,
// diagonals and extra regions.
func (s *Solver) AddGroup(g *Group) error {
	if s.finalized {
		return fmt.Errorf("cannot add group %q after finalize", g.Name)
	}
	if len(g.Cells) > MaxValue {
		return fmt.Errorf("group %q has %d cells; a distinct-values group cannot exceed %d", g.Name, len(g.Cells), MaxValue)
	}
	s.customInfo.GroupIndexByName[g.Name] = len(s.groups)
	s.groups = append(s.groups, g)
	return nil
}

// AddConstraint appends a constraint. Only legal before finalize.
func (s *Solver) AddConstraint(c Constraint) error {
	if s.finalized {
		return fmt.Errorf("cannot add constraint %q after finalize", c.SpecificName())
	}
	s.constraints = append(s.constraints, c)
	s.customInfo.ConstraintStrings = append(s.customInfo.ConstraintStrings, c.SpecificName())
	return nil
}

// FinalizeConstraints freezes the group table, builds the seen map and
// the weak-link graph, runs every constraint's InitLinks and
// InitCandidates, and optionally runs weak-link discovery. After
// finalize only candidate-elimination and value-setting operations are
// allowed.
func (s *Solver) FinalizeConstraints(ctx context.Context) (LogicResult, error) {
	if s.finalized {
		return LogicNone, fmt.Errorf("solver already finalized")
	}

	// Deterministic constraint iteration: stable-sort by SortOrder,
	// preserving registration order within equal keys.
	sort.SliceStable(s.constraints, func(i, j int) bool {
		return s.constraints[i].SortOrder() < s.constraints[j].SortOrder()
	})

	s.buildGroupViews()
	s.buildSeenMap()
	s.finalized = true
	s.initWeakLinks()

	for _, c := range s.constraints {
		if err := ctx.Err(); err != nil {
			return LogicNone, err
		}
		if res := c.InitLinks(s); res == LogicInvalid {
			return LogicInvalid, nil
		}
	}
	for _, c := range s.constraints {
		if err := ctx.Err(); err != nil {
			return LogicNone, err
		}
		if res := c.InitCandidates(s); res == LogicInvalid {
			return LogicInvalid, nil
		}
	}

	if s.config.EnableWeakLinkDiscovery {
		if res, err := s.DiscoverWeakLinks(ctx); err != nil || res == LogicInvalid {
			return res, err
		}
	}
	return LogicNone, nil
}

func (s *Solver) buildGroupViews() {
	s.cellToGroups = make([][]*Group, NumCells)
	for _, g := range s.groups {
		if len(g.Cells) == MaxValue {
			s.maxValueGroups = append(s.maxValueGroups, g)
		} else {
			s.smallGroupsBySize = append(s.smallGroupsBySize, g)
		}
		for _, cell := range g.Cells {
			s.cellToGroups[cell] = append(s.cellToGroups[cell], g)
		}
	}
	sort.SliceStable(s.smallGroupsBySize, func(i, j int) bool {
		return len(s.smallGroupsBySize[i].Cells) < len(s.smallGroupsBySize[j].Cells)
	})
}

func (s *Solver) buildSeenMap() {
	s.seenMap = make([]bool, NumCells*NumCells*(MaxValue+1))

	markAll := func(c0, c1 int) {
		for v := 0; v <= MaxValue; v++ {
			s.seenMap[s.seenIdx(c0, c1, v)] = true
			s.seenMap[s.seenIdx(c1, c0, v)] = true
		}
	}

	for _, g := range s.groups {
		for i := 0; i < len(g.Cells); i++ {
			for j := i + 1; j < len(g.Cells); j++ {
				markAll(g.Cells[i], g.Cells[j])
			}
		}
	}

	for _, c := range s.constraints {
		for cell := 0; cell < NumCells; cell++ {
			for _, other := range c.SeenCells(cell) {
				for v := 0; v <= MaxValue; v++ {
					s.seenMap[s.seenIdx(cell, other, v)] = true
				}
			}
			for v := 1; v <= MaxValue; v++ {
				for _, other := range c.SeenCellsByValueMask(cell, ValueMask(v)) {
					s.seenMap[s.seenIdx(cell, other, v)] = true
				}
			}
		}
	}

	// A pair seen for every individual value is seen for "any value".
	for c0 := 0; c0 < NumCells; c0++ {
		for c1 := 0; c1 < NumCells; c1++ {
			if c0 == c1 || s.seenMap[s.seenIdx(c0, c1, 0)] {
				continue
			}
			all := true
			for v := 1; v <= MaxValue; v++ {
				if !s.seenMap[s.seenIdx(c0, c1, v)] {
					all = false
					break
				}
			}
			if all {
				s.seenMap[s.seenIdx(c0, c1, 0)] = true
			}
		}
	}
}

func (s *Solver) initWeakLinks() {
	// A cell holds exactly one value: every value pair within a cell is
	// weak-linked.
	for cell := 0; cell < NumCells; cell++ {
		for v0 := 1; v0 <= MaxValue; v0++ {
			for v1 := v0 + 1; v1 <= MaxValue; v1++ {
				s.AddWeakLink(CandidateIndex(cell, v0), CandidateIndex(cell, v1))
			}
		}
	}
	// Seen cells cannot share the seen value.
	for c0 := 0; c0 < NumCells; c0++ {
		for c1 := c0 + 1; c1 < NumCells; c1++ {
			for v := 1; v <= MaxValue; v++ {
				if s.seenMap[s.seenIdx(c0, c1, v)] {
					s.AddWeakLink(CandidateIndex(c0, v), CandidateIndex(c1, v))
				}
			}
		}
	}
}

// ──────────────────────────────────────────────────────────────────
// Core board mutation
// ──────────────────────────────────────────────────────────────────

// SetValue fixes value v at (row, col), propagates the weak-link
// eliminations, and runs every constraint's EnforceConstraint. Returns
// false when the board becomes infeasible. Re-entrant calls (a
// constraint setting a forced value from inside enforcement) fall
// through to the bare mask write; the outer call's propagation pass and
// later consolidation complete the bookkeeping.
func (s *Solver) SetValue(row, col, v int) bool {
	cell := CellIndex(row, col)
	if !s.board[cell].Has(v) {
		return false
	}
	if s.isInSetValue {
		s.board[cell] = setMask(v)
		return true
	}
	s.isInSetValue = true
	defer func() { s.isInSetValue = false }()

	s.board[cell] = setMask(v)

	for _, e := range s.weakLinks[CandidateIndex(cell, v)] {
		ci := int(e)
		other, ov := CandidateCell(ci), CandidateValue(ci)
		m := s.board[other]
		if m.IsSet() {
			if other != cell && m.Value() == ov {
				return false
			}
			continue
		}
		if !m.Has(ov) {
			continue
		}
		m &^= ValueMask(ov)
		s.board[other] = m
		if m.Candidates() == 0 {
			return false
		}
	}

	for _, c := range s.constraints {
		if !c.EnforceConstraint(s, row, col, v) {
			return false
		}
	}
	return true
}

// SetValueByIndex is SetValue addressed by flat cell index.
func (s *Solver) SetValueByIndex(cell, v int) bool {
	return s.SetValue(CellRow(cell), CellCol(cell), v)
}

// ClearValue removes v from the cell's candidates. Returns false iff the
// cell ran out of candidates.
func (s *Solver) ClearValue(row, col, v int) bool {
	cell := CellIndex(row, col)
	m := s.board[cell] &^ ValueMask(v)
	s.board[cell] = m
	return m.Candidates() != 0
}

// ClearCandidate is ClearValue addressed by candidate index.
func (s *Solver) ClearCandidate(ci int) bool {
	return s.ClearValue(CellRow(CandidateCell(ci)), CellCol(CandidateCell(ci)), CandidateValue(ci))
}

// KeepMask restricts the cell to the candidates present in mask.
func (s *Solver) KeepMask(row, col int, mask Mask) LogicResult {
	cell := CellIndex(row, col)
	cur := s.board[cell]
	next := cur & (mask.Candidates() | valueSetFlag)
	if next == cur {
		return LogicNone
	}
	s.board[cell] = next
	if next.Candidates() == 0 {
		return LogicInvalid
	}
	return LogicChanged
}

// ClearMask removes every candidate present in mask from the cell.
func (s *Solver) ClearMask(row, col int, mask Mask) LogicResult {
	return s.KeepMask(row, col, AllValues&^mask.Candidates())
}

// IsComplete reports whether every cell is value-set.
func (s *Solver) IsComplete() bool {
	return s.board.IsComplete()
}

// ──────────────────────────────────────────────────────────────────
// Consolidation
// ──────────────────────────────────────────────────────────────────

// ApplySingles runs naked and hidden singles to fixpoint.
func (s *Solver) ApplySingles(ctx context.Context) (LogicResult, error) {
	overall := LogicNone
	for {
		if err := ctx.Err(); err != nil {
			return overall, err
		}
		res := s.FindNakedSingles(nil)
		if res == LogicNone {
			res = s.FindHiddenSingles(nil)
		}
		switch res {
		case LogicChanged:
			overall = LogicChanged
		case LogicInvalid:
			return LogicInvalid, nil
		default:
			if s.IsComplete() {
				return LogicComplete, nil
			}
			return overall, nil
		}
	}
}

// ConsolidateBoard iterates one fixed pass order — naked singles, hidden
// singles, the fast advanced strategies, then each constraint's
// StepLogic — until nothing changes. The ordering is part of the
// observable contract: scoring and trace reproducibility depend on it.
func (s *Solver) ConsolidateBoard(ctx context.Context) (LogicResult, error) {
	return s.consolidate(ctx, false)
}

// BruteForcePropagate is ConsolidateBoard with constraints told they are
// inside search, letting them skip description work.
func (s *Solver) BruteForcePropagate(ctx context.Context) (LogicResult, error) {
	return s.consolidate(ctx, true)
}

func (s *Solver) consolidate(ctx context.Context, bruteForce bool) (LogicResult, error) {
	overall := LogicNone
	for {
		if err := ctx.Err(); err != nil {
			return overall, err
		}
		res, err := s.consolidatePass(ctx, bruteForce)
		if err != nil {
			return overall, err
		}
		switch res {
		case LogicChanged:
			overall = LogicChanged
		case LogicInvalid:
			return LogicInvalid, nil
		default:
			if s.IsComplete() {
				return LogicComplete, nil
			}
			return overall, nil
		}
	}
}

// consolidatePass runs each technique in the fixed order and returns on
// the first change, so subsequent techniques always see the updated
// board.
func (s *Solver) consolidatePass(ctx context.Context, bruteForce bool) (LogicResult, error) {
	if res := s.FindNakedSingles(nil); res != LogicNone {
		return res, nil
	}
	if res := s.FindHiddenSingles(nil); res != LogicNone {
		return res, nil
	}
	if res := s.FastFindPairs(); res != LogicNone {
		return res, nil
	}
	if res := s.FastFindPointing(); res != LogicNone {
		return res, nil
	}
	if res := s.FastFindCellForcing(); res != LogicNone {
		return res, nil
	}
	if res := s.FastFindTriples(); res != LogicNone {
		return res, nil
	}
	for _, c := range s.constraints {
		if err := ctx.Err(); err != nil {
			return LogicNone, err
		}
		if res := c.StepLogic(s, nil, bruteForce); res != LogicNone {
			return res, nil
		}
	}
	return LogicNone, nil
}

// ──────────────────────────────────────────────────────────────────
// Cloning and inheritance
// ──────────────────────────────────────────────────────────────────

// Clone produces a deep copy suitable for speculative search. The board
// and custom info are duplicated; the immutable weak-link graph, seen
// map and group tables are shared by reference. The clone always starts
// with a fresh memo cache; willRunNonSinglesLogic=false skips allocating
// it at all, since singles never reach the sum helper.
func (s *Solver) Clone(willRunNonSinglesLogic bool) *Solver {
	c := &Solver{
		board:             s.board.Clone(),
		groups:            s.groups,
		constraints:       s.constraints,
		config:            s.config,
		cellToGroups:      s.cellToGroups,
		maxValueGroups:    s.maxValueGroups,
		smallGroupsBySize: s.smallGroupsBySize,
		weakLinks:         s.weakLinks,
		seenMap:           s.seenMap,
		customInfo:        s.customInfo.clone(),
		finalized:         s.finalized,
	}
	if willRunNonSinglesLogic {
		c.memo = make(map[memoKey]memoValue)
	}
	return c
}

// primitives expands each constraint via SplitToPrimitives; a nil split
// means the constraint is its own primitive.
func (s *Solver) primitives() []Constraint {
	var out []Constraint
	for _, c := range s.constraints {
		if prims := c.SplitToPrimitives(s); prims != nil {
			out = append(out, prims...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// IsInheritOf reports whether every solution of this solver's puzzle is
// a solution of other's: other's primitive constraints all appear here
// (by canonical hash) and every cell here is at least as restricted.
// The relation is reflexive and transitive.
func (s *Solver) IsInheritOf(other *Solver) bool {
	mine := make(map[string]bool)
	for _, p := range s.primitives() {
		mine[p.GetHash(s)] = true
	}
	for _, p := range other.primitives() {
		if !mine[p.GetHash(other)] {
			return false
		}
	}
	for cell := 0; cell < NumCells; cell++ {
		if s.board[cell].Candidates()&^other.board[cell].Candidates() != 0 {
			return false
		}
	}
	return true
}
