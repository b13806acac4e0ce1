package solver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// LogicResult is the outcome of any propagation or deduction routine.
type LogicResult int

const (
	// LogicNone means the routine found nothing to do.
	LogicNone LogicResult = iota
	// LogicChanged means at least one candidate was removed or a value set.
	LogicChanged
	// LogicInvalid means no solution exists from the current state.
	LogicInvalid
	// LogicComplete means every cell has a fixed value.
	LogicComplete
)

func (r LogicResult) String() string {
	switch r {
	case LogicNone:
		return "none"
	case LogicChanged:
		return "changed"
	case LogicInvalid:
		return "invalid"
	case LogicComplete:
		return "complete"
	default:
		return fmt.Sprintf("LogicResult(%d)", int(r))
	}
}

// Constraint is the protocol every variant constraint implements. The
// solver owns its constraints and passes itself by reference into every
// operation; constraints never retain a solver.
type Constraint interface {
	// Name identifies the constraint kind ("Killer Cage").
	Name() string
	// SpecificName identifies the instance ("Killer Cage r1c1-r1c3=6").
	SpecificName() string
	// SortOrder orders constraint iteration; lower runs first, and
	// registration order breaks ties between equal values.
	SortOrder() int

	// InitCandidates narrows cell masks before the first propagation.
	InitCandidates(s *Solver) LogicResult
	// EnforceConstraint is called synchronously from SetValue after the
	// mask write and weak-link propagation. It may clear further
	// candidates and must return false iff the placement made the board
	// infeasible with respect to this constraint.
	EnforceConstraint(s *Solver, row, col, v int) bool
	// StepLogic performs one atomic deduction, appending a description to
	// the sink when one is provided. Brute-force search passes
	// isBruteForcing=true; constraints may then skip description work and
	// expensive human-style reasoning.
	StepLogic(s *Solver, sink *StepSink, isBruteForcing bool) LogicResult

	// SeenCells returns the cells that can never share any value with the
	// given cell because of this constraint.
	SeenCells(cell int) []int
	// SeenCellsByValueMask restricts the seen relation to the given
	// candidate values.
	SeenCellsByValueMask(cell int, mask Mask) []int

	// InitLinks adds constraint-implied weak links during finalize.
	InitLinks(s *Solver) LogicResult

	// SplitToPrimitives decomposes the constraint into single-fact
	// primitives for inheritance comparison. A nil return means the
	// constraint is its own primitive.
	SplitToPrimitives(s *Solver) []Constraint
	// GetHash returns a canonical identity string; two constraints with
	// equal hashes impose identical restrictions.
	GetHash(s *Solver) string
}

// ConstraintBase supplies no-op defaults for the optional parts of the
// protocol. Constraints embed it and override what they need.
type ConstraintBase struct {
	ConstraintName string
	Specific       string
	Order          int
}

func (b *ConstraintBase) Name() string         { return b.ConstraintName }
func (b *ConstraintBase) SpecificName() string { return b.Specific }
func (b *ConstraintBase) SortOrder() int       { return b.Order }

func (b *ConstraintBase) InitCandidates(s *Solver) LogicResult { return LogicNone }

func (b *ConstraintBase) EnforceConstraint(s *Solver, row, col, v int) bool { return true }

func (b *ConstraintBase) StepLogic(s *Solver, sink *StepSink, isBruteForcing bool) LogicResult {
	return LogicNone
}

func (b *ConstraintBase) SeenCells(cell int) []int                       { return nil }
func (b *ConstraintBase) SeenCellsByValueMask(cell int, mask Mask) []int { return nil }

func (b *ConstraintBase) InitLinks(s *Solver) LogicResult { return LogicNone }

func (b *ConstraintBase) SplitToPrimitives(s *Solver) []Constraint { return nil }

func (b *ConstraintBase) GetHash(s *Solver) string {
	sum := sha256.Sum256([]byte(b.Specific))
	return hex.EncodeToString(sum[:])
}

// ──────────────────────────────────────────────────────────────────
// Constraint registry
//
// Explicit name → (parser, factory) table, populated from package init
// functions at program start. No runtime type introspection: a
// constraint that is not registered does not exist.
// ──────────────────────────────────────────────────────────────────

// ConstraintFactory parses a constraint-defined options string and
// returns the constraint instances it describes. A single options string
// may expand to several constraints (e.g. one cage per clue).
type ConstraintFactory func(s *Solver, options string) ([]Constraint, error)

var constraintRegistry = map[string]ConstraintFactory{}

// RegisterConstraint installs a factory under a case-sensitive name.
// Registering a duplicate name is a programming error and panics at
// program start.
func RegisterConstraint(name string, factory ConstraintFactory) {
	if _, exists := constraintRegistry[name]; exists {
		panic(fmt.Sprintf("constraint %q registered twice", name))
	}
	constraintRegistry[name] = factory
}

// RegisteredConstraintNames returns the sorted registry keys, used by the
// CLI usage text and the API capability map.
func RegisteredConstraintNames() []string {
	names := make([]string, 0, len(constraintRegistry))
	for name := range constraintRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddConstraintByName parses options with the registered factory and adds
// the resulting constraints to the solver. A bad options string fails the
// whole load with a diagnostic.
func (s *Solver) AddConstraintByName(name, options string) error {
	factory, ok := constraintRegistry[name]
	if !ok {
		return fmt.Errorf("unknown constraint %q", name)
	}
	constraints, err := factory(s, options)
	if err != nil {
		return fmt.Errorf("constraint %q: %w", name, err)
	}
	for _, c := range constraints {
		if err := s.AddConstraint(c); err != nil {
			return err
		}
	}
	return nil
}
