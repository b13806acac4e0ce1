package models

// ConstraintSpec names one constraint instance with its options string.
type ConstraintSpec struct {
	Name    string `json:"name"`    // registry name, e.g. "killer"
	Options string `json:"options"` // constraint-defined, e.g. "6;r1c1r1c2r1c3"
}

// PuzzleDefinition is the wire form of a puzzle: givens plus variant
// constraints.
type PuzzleDefinition struct {
	Title       string           `json:"title,omitempty"`
	Author      string           `json:"author,omitempty"`
	Givens      string           `json:"givens"` // 81 chars, 0 or . for empty
	Constraints []ConstraintSpec `json:"constraints,omitempty"`
	// DiscoverWeakLinks enables speculative weak-link discovery at
	// finalize. Expensive; off by default.
	DiscoverWeakLinks bool `json:"discoverWeakLinks,omitempty"`
}

// StepTrace is one logical step of a solve trace in wire form.
type StepTrace struct {
	Description          string      `json:"description"`
	SourceCandidates     []string    `json:"sourceCandidates,omitempty"`     // "5r3c7" notation
	EliminatedCandidates []string    `json:"eliminatedCandidates,omitempty"` // "5r3c7" notation
	HighlightCells       []string    `json:"highlightCells,omitempty"`       // "r3c7" notation
	SubSteps             []StepTrace `json:"subSteps,omitempty"`
	IsInvalid            bool        `json:"isInvalid,omitempty"`
	IsSingle             bool        `json:"isSingle,omitempty"`
}

// SolveResult is the outcome of any engine operation.
type SolveResult struct {
	Status     string      `json:"status"` // solved / invalid / ambiguous / open
	Solution   string      `json:"solution,omitempty"`
	Candidates []string    `json:"candidates,omitempty"` // per-cell candidate strings after consolidation
	Count      uint64      `json:"count,omitempty"`
	CountCap   uint64      `json:"countCap,omitempty"`
	Steps      []StepTrace `json:"steps,omitempty"`
	ElapsedMS  int64       `json:"elapsedMs"`
}

// SolveEvent is a websocket stream message about a running job.
type SolveEvent struct {
	Type      string       `json:"type"` // job_started / job_completed / job_failed
	JobID     string       `json:"jobId"`
	Operation string       `json:"operation,omitempty"`
	Message   string       `json:"message,omitempty"`
	Result    *SolveResult `json:"result,omitempty"`
}

// SolveJob describes a background solve job.
type SolveJob struct {
	ID        string           `json:"id"`
	Operation string           `json:"operation"` // check / solve / random / count / logical / truecandidates
	Status    string           `json:"status"`    // queued / running / done / failed
	Puzzle    PuzzleDefinition `json:"puzzle"`
	Result    *SolveResult     `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
}
