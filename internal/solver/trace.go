package solver

import "strings"

// LogicalStepDesc is one entry of a human-readable solve trace. A step is
// atomic: one elimination list, one value set, or one invalidation.
type LogicalStepDesc struct {
	// Description is the full human-readable sentence for the step.
	Description string `json:"description"`
	// SourceCandidates are the candidate indices the deduction reasons
	// from (the pair cells, the pointing candidates, ...).
	SourceCandidates []int `json:"sourceCandidates,omitempty"`
	// EliminatedCandidates are the candidate indices removed by the step.
	EliminatedCandidates []int `json:"eliminatedCandidates,omitempty"`
	// HighlightCells marks cells a renderer should emphasize.
	HighlightCells []int `json:"highlightCells,omitempty"`
	// StrongLinks and WeakLinks carry an AIC-style chain: links alternate
	// along the source-candidate sequence, strong then weak.
	StrongLinks []int `json:"strongLinks,omitempty"`
	WeakLinks   []int `json:"weakLinks,omitempty"`
	// SubSteps nests multi-part deductions (e.g. per-group restrictions
	// inside a sum argument).
	SubSteps []LogicalStepDesc `json:"subSteps,omitempty"`
	// IsInvalid marks a step that proves the puzzle has no solution.
	IsInvalid bool `json:"isInvalid,omitempty"`
	// IsSingle marks naked/hidden single placements; the evaluator skips
	// re-scoring these.
	IsSingle bool `json:"isSingle,omitempty"`
}

// StepSink accumulates logical steps in real execution order. A nil sink
// is valid everywhere and records nothing, so deduction routines never
// branch on trace availability. Failed attempts leave no residue: steps
// are appended only after the deduction commits.
type StepSink struct {
	Steps []LogicalStepDesc
}

// Add appends a step. Safe on a nil sink.
func (k *StepSink) Add(d LogicalStepDesc) {
	if k == nil {
		return
	}
	k.Steps = append(k.Steps, d)
}

// Wants reports whether descriptions should be built at all; routines
// use it to skip string formatting on the brute-force hot path.
func (k *StepSink) Wants() bool {
	return k != nil
}

// DescribeCells renders a cell-index list as "r1c1, r1c2".
func DescribeCells(cells []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = CellName(c)
	}
	return strings.Join(parts, ", ")
}

// DescribeCandidates renders a candidate-index list as "1r2c3, 5r4c5".
func DescribeCandidates(cands []int) string {
	parts := make([]string, len(cands))
	for i, ci := range cands {
		parts[i] = CandidateName(ci)
	}
	return strings.Join(parts, ", ")
}
