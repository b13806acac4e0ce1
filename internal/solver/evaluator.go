package solver

import (
	"context"
	"fmt"
)

// SolveStatus is the outcome of a logical solve.
type SolveStatus int

const (
	// StatusSolved means every cell was placed by deduction.
	StatusSolved SolveStatus = iota
	// StatusInvalid means the deductions proved the puzzle has no
	// solution.
	StatusInvalid
	// StatusAmbiguous means the step library exhausted without
	// completing the board: the puzzle has multiple solutions or needs
	// techniques beyond the library. The engine never branches during a
	// logical solve.
	StatusAmbiguous
)

func (st SolveStatus) String() string {
	switch st {
	case StatusSolved:
		return "solved"
	case StatusInvalid:
		return "invalid"
	case StatusAmbiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("SolveStatus(%d)", int(st))
	}
}

// EvaluatorOptions tune how the next logical step is chosen.
type EvaluatorOptions struct {
	// PreferEffectiveness weights effectiveness against difficulty in
	// the combined score. Below 0.5 the tie-break orders by difficulty
	// next; at or above 0.5 it orders by effectiveness next. The branch
	// is part of the observable contract.
	PreferEffectiveness float64
	// SoftMaxDifficulty normalizes difficulty into the combined score.
	SoftMaxDifficulty float64
	// UseBasics scores steps by candidates remaining after a full basics
	// pass as well as after singles, instead of singles alone.
	UseBasics bool
}

// DefaultEvaluatorOptions order by difficulty first among equal combined
// scores, which yields the human-style "easiest useful step" proofs.
func DefaultEvaluatorOptions() EvaluatorOptions {
	return EvaluatorOptions{PreferEffectiveness: 0.4, SoftMaxDifficulty: 20}
}

// stepRunner executes one technique deterministically against a target
// solver. Running the same runner against a clone and then the real
// board reproduces the identical step.
type stepRunner struct {
	name       string
	difficulty float64
	run        func(target *Solver, sink *StepSink) LogicResult
}

// evaluatedStep is a scored candidate step. Ordering keys are minimized
// lexicographically; invalid-revealing steps outrank everything.
type evaluatedStep struct {
	runner    stepRunner
	invalid   bool
	combined  float64
	secondary float64
	tertiary  float64
}

func (a *evaluatedStep) better(b *evaluatedStep) bool {
	if b == nil {
		return true
	}
	if a.invalid != b.invalid {
		return a.invalid
	}
	if a.combined != b.combined {
		return a.combined < b.combined
	}
	if a.secondary != b.secondary {
		return a.secondary < b.secondary
	}
	return a.tertiary < b.tertiary
}

// StepEvaluator keeps the best candidate step seen so far.
type StepEvaluator struct {
	opts EvaluatorOptions
	best *evaluatedStep
}

func NewStepEvaluator(opts EvaluatorOptions) *StepEvaluator {
	return &StepEvaluator{opts: opts}
}

// Evaluate scores a step that has already been applied to the clone.
// initialCR is the host board's candidates-remaining before the step;
// singlesCR is the clone's after applying singles (and basicsCR after a
// full basics pass when UseBasics is on). revealedInvalid marks a step
// whose propagation died on the clone.
func (e *StepEvaluator) Evaluate(runner stepRunner, revealedInvalid bool, initialCR, singlesCR, basicsCR int) {
	cand := &evaluatedStep{runner: runner, invalid: revealedInvalid}
	if !revealedInvalid {
		var eff float64
		if e.opts.UseBasics {
			eff = (float64(basicsCR)*float64(initialCR) + float64(singlesCR)) /
				(float64(initialCR)*float64(initialCR) + float64(initialCR))
		} else {
			eff = float64(singlesCR) / float64(initialCR)
		}
		w := e.opts.PreferEffectiveness
		cand.combined = w*eff + (1-w)*runner.difficulty/e.opts.SoftMaxDifficulty
		if w < 0.5 {
			cand.secondary = runner.difficulty
			cand.tertiary = eff
		} else {
			cand.secondary = eff
			cand.tertiary = runner.difficulty
		}
	}
	if cand.better(e.best) {
		e.best = cand
	}
}

// Best returns the chosen step, or nil when nothing scored.
func (e *StepEvaluator) Best() *evaluatedStep { return e.best }

// Technique difficulty ratings, in the scoring order of the basic
// library; constraint steps rate above all built-ins, ordered by
// registration.
const (
	difficultyCellForcing    = 3
	difficultyNakedPair      = 4
	difficultyPointing       = 5
	difficultyNakedTriple    = 6
	difficultyConstraintBase = 10
)

func (s *Solver) stepRunners() []stepRunner {
	runners := []stepRunner{
		{"cell forcing", difficultyCellForcing, func(t *Solver, k *StepSink) LogicResult { return t.FindCellForcing(k) }},
		{"naked pair", difficultyNakedPair, func(t *Solver, k *StepSink) LogicResult { return t.FindNakedPairs(k) }},
		{"pointing", difficultyPointing, func(t *Solver, k *StepSink) LogicResult { return t.FindPointing(k) }},
		{"naked triple", difficultyNakedTriple, func(t *Solver, k *StepSink) LogicResult { return t.FindNakedTriples(k) }},
	}
	for i := range s.constraints {
		idx := i
		c := s.constraints[i]
		runners = append(runners, stepRunner{
			name:       c.Name(),
			difficulty: difficultyConstraintBase + float64(idx),
			// Resolve through the target so clone and host run the same
			// constraint at the same position.
			run: func(t *Solver, k *StepSink) LogicResult { return t.constraints[idx].StepLogic(t, k, false) },
		})
	}
	return runners
}

// LogicalSolve repeatedly applies the best next deduction until the
// board completes, proves invalid, or runs out of steps. Steps land on
// the sink in real execution order; two identical runs produce
// byte-identical traces.
func (s *Solver) LogicalSolve(ctx context.Context, sink *StepSink, opts EvaluatorOptions) (SolveStatus, error) {
	for {
		if err := ctx.Err(); err != nil {
			return StatusAmbiguous, err
		}
		res, err := s.logicalStep(ctx, sink, opts)
		if err != nil {
			return StatusAmbiguous, err
		}
		switch res {
		case LogicComplete:
			return StatusSolved, nil
		case LogicInvalid:
			return StatusInvalid, nil
		case LogicNone:
			if s.IsComplete() {
				return StatusSolved, nil
			}
			return StatusAmbiguous, nil
		case LogicChanged:
			if s.IsComplete() {
				return StatusSolved, nil
			}
		}
	}
}

// logicalStep performs exactly one atomic deduction. Singles apply
// immediately; everything else is raced on throwaway clones and the
// best-scoring step is replayed on the real board.
func (s *Solver) logicalStep(ctx context.Context, sink *StepSink, opts EvaluatorOptions) (LogicResult, error) {
	if res := s.FindNakedSingles(sink); res != LogicNone {
		return res, nil
	}
	if res := s.FindHiddenSingles(sink); res != LogicNone {
		return res, nil
	}

	initialCR := s.board.CandidatesRemaining()
	eval := NewStepEvaluator(opts)
	for _, runner := range s.stepRunners() {
		if err := ctx.Err(); err != nil {
			return LogicNone, err
		}
		clone := s.Clone(true)
		res := runner.run(clone, &StepSink{})
		if res == LogicNone {
			continue
		}
		if res == LogicInvalid {
			// The step itself is an invalidity proof; replay it on the
			// host so the trace records it.
			return runner.run(s, sink), nil
		}
		singlesRes, err := clone.ApplySingles(ctx)
		if err != nil {
			return LogicNone, err
		}
		singlesCR := clone.board.CandidatesRemaining()
		basicsCR := singlesCR
		revealedInvalid := singlesRes == LogicInvalid
		if !revealedInvalid && opts.UseBasics {
			basicsClone := clone.Clone(true)
			basicsRes, err := basicsClone.ConsolidateBoard(ctx)
			if err != nil {
				return LogicNone, err
			}
			revealedInvalid = basicsRes == LogicInvalid
			basicsCR = basicsClone.board.CandidatesRemaining()
		}
		eval.Evaluate(runner, revealedInvalid, initialCR, singlesCR, basicsCR)
	}

	best := eval.Best()
	if best == nil {
		return LogicNone, nil
	}
	return best.runner.run(s, sink), nil
}
