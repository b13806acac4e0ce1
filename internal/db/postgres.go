package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rawblock/sudoku-engine/pkg/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool to PostgreSQL using pgx
func Connect(connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL for solve history")
	return &PostgresStore{pool: pool}, nil
}

// Close gracefully closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema loads and executes the schema.sql file
func (s *PostgresStore) InitSchema() error {
	schemaBytes, err := os.ReadFile("internal/db/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %v", err)
	}

	_, err = s.pool.Exec(context.Background(), string(schemaBytes))
	if err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}

	log.Println("Solve history schema initialized")
	return nil
}

// SaveSolve persists one finished operation and, for logical solves,
// its step trace. A blank id gets a fresh UUID (synchronous API calls
// have no job id).
func (s *PostgresStore) SaveSolve(ctx context.Context, id string, def models.PuzzleDefinition, operation string, result *models.SolveResult) error {
	if id == "" {
		id = uuid.NewString()
	}
	constraintsJSON, err := json.Marshal(def.Constraints)
	if err != nil {
		return fmt.Errorf("failed to marshal constraints: %v", err)
	}

	// 1. Begin Transaction
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 2. Insert the solve row
	insertSolveSQL := `
		INSERT INTO solves (id, operation, givens, constraints, status, solution, solution_count, elapsed_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, solution = EXCLUDED.solution,
		    solution_count = EXCLUDED.solution_count, elapsed_ms = EXCLUDED.elapsed_ms;
	`
	_, err = tx.Exec(ctx, insertSolveSQL, id, operation, def.Givens, constraintsJSON,
		result.Status, result.Solution, int64(result.Count), result.ElapsedMS)
	if err != nil {
		return fmt.Errorf("failed to insert solve: %v", err)
	}

	// 3. Batch insert the step trace
	if len(result.Steps) > 0 {
		insertStepSQL := `
			INSERT INTO solve_steps (solve_id, step_index, description, eliminations, is_single, is_invalid)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		for i, step := range result.Steps {
			elims, err := json.Marshal(step.EliminatedCandidates)
			if err != nil {
				return fmt.Errorf("failed to marshal eliminations: %v", err)
			}
			_, err = tx.Exec(ctx, insertStepSQL, id, i, step.Description, elims, step.IsSingle, step.IsInvalid)
			if err != nil {
				return fmt.Errorf("failed to insert solve step: %v", err)
			}
		}
	}

	// 4. Commit transaction
	return tx.Commit(ctx)
}

// SolveInfo is one row of solve history.
type SolveInfo struct {
	ID            string `json:"id"`
	Operation     string `json:"operation"`
	Givens        string `json:"givens"`
	Status        string `json:"status"`
	Solution      string `json:"solution,omitempty"`
	SolutionCount int64  `json:"solutionCount"`
	ElapsedMS     int64  `json:"elapsedMs"`
	StepCount     int    `json:"stepCount"`
}

// RecentSolves returns the latest persisted solves.
func (s *PostgresStore) RecentSolves(ctx context.Context, limit int) ([]SolveInfo, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	dataSQL := `
		SELECT s.id, s.operation, s.givens, s.status, COALESCE(s.solution, ''),
		       s.solution_count, s.elapsed_ms, COUNT(st.solve_id)
		FROM solves s
		LEFT JOIN solve_steps st ON st.solve_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, dataSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var solves []SolveInfo
	for rows.Next() {
		var info SolveInfo
		err := rows.Scan(&info.ID, &info.Operation, &info.Givens, &info.Status,
			&info.Solution, &info.SolutionCount, &info.ElapsedMS, &info.StepCount)
		if err != nil {
			return nil, err
		}
		solves = append(solves, info)
	}
	if solves == nil {
		solves = []SolveInfo{}
	}
	return solves, nil
}

// GetPool exposes the connection pool for other subsystems
func (s *PostgresStore) GetPool() *pgxpool.Pool {
	return s.pool
}
