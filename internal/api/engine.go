package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rawblock/sudoku-engine/internal/solver"
	"github.com/rawblock/sudoku-engine/pkg/models"
	"github.com/rawblock/sudoku-engine/pkg/puzzle"
)

// Engine operations exposed over the API and the job queue.
const (
	OpCheck          = "check"
	OpSolve          = "solve"
	OpRandom         = "random"
	OpCount          = "count"
	OpLogical        = "logical"
	OpTrueCandidates = "truecandidates"
)

// defaultCountCap bounds /count requests that don't specify a cap; an
// unconstrained grid has ~6.7e21 solutions and counting them all is not
// a service this API offers.
const defaultCountCap uint64 = 10_000

// ExecuteOperation builds a solver for the definition and runs one
// engine operation. ctx cancellation aborts the solve and surfaces as
// an error.
func ExecuteOperation(ctx context.Context, def models.PuzzleDefinition, op string, countCap uint64) (*models.SolveResult, error) {
	start := time.Now()
	result := &models.SolveResult{}
	finish := func() *models.SolveResult {
		result.ElapsedMS = time.Since(start).Milliseconds()
		return result
	}

	s, ok, err := puzzle.Build(ctx, def)
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Status = solver.StatusInvalid.String()
		return finish(), nil
	}

	switch op {
	case OpCheck:
		res, err := s.ConsolidateBoard(ctx)
		if err != nil {
			return nil, err
		}
		switch res {
		case solver.LogicInvalid:
			result.Status = solver.StatusInvalid.String()
		case solver.LogicComplete:
			result.Status = solver.StatusSolved.String()
			result.Solution = s.BoardSnapshot().String()
		default:
			result.Status = "open"
		}
		result.Candidates = puzzle.CandidateStrings(s)

	case OpSolve, OpRandom:
		var board solver.Board
		if op == OpRandom {
			board, err = s.FindRandomSolution(ctx, time.Now().UnixNano())
		} else {
			board, err = s.Solve(ctx)
		}
		if err != nil {
			return nil, err
		}
		if board == nil {
			result.Status = solver.StatusInvalid.String()
		} else {
			result.Status = solver.StatusSolved.String()
			result.Solution = board.String()
		}

	case OpCount:
		if countCap == 0 {
			countCap = defaultCountCap
		}
		count, err := s.CountSolutions(ctx, countCap)
		if err != nil {
			return nil, err
		}
		result.Count = count
		result.CountCap = countCap
		if count == 0 {
			result.Status = solver.StatusInvalid.String()
		} else if count == 1 {
			result.Status = solver.StatusSolved.String()
		} else {
			result.Status = solver.StatusAmbiguous.String()
		}

	case OpTrueCandidates:
		res, err := s.FillRealCandidates(ctx)
		if err != nil {
			return nil, err
		}
		if res == solver.LogicInvalid {
			result.Status = solver.StatusInvalid.String()
		} else if s.IsComplete() {
			result.Status = solver.StatusSolved.String()
			result.Solution = s.BoardSnapshot().String()
		} else {
			result.Status = "open"
		}
		result.Candidates = puzzle.CandidateStrings(s)

	case OpLogical:
		sink := &solver.StepSink{}
		status, err := s.LogicalSolve(ctx, sink, solver.DefaultEvaluatorOptions())
		if err != nil {
			return nil, err
		}
		result.Status = status.String()
		result.Steps = puzzle.TraceToWire(sink.Steps)
		result.Candidates = puzzle.CandidateStrings(s)
		if status == solver.StatusSolved {
			result.Solution = s.BoardSnapshot().String()
		}

	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	return finish(), nil
}
