package api

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/rawblock/sudoku-engine/internal/db"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

// JobManager runs solve operations in the background, streams progress
// over the websocket hub, and persists finished results when a store is
// connected. It replaces polling loops with one goroutine per job; jobs
// are kept in memory and evicted oldest-first past maxRetainedJobs.
type JobManager struct {
	mu       sync.Mutex
	jobs     map[string]*models.SolveJob
	order    []string
	hub   *Hub
	store *db.PostgresStore
}

const maxRetainedJobs = 256

func NewJobManager(hub *Hub, store *db.PostgresStore) *JobManager {
	return &JobManager{
		jobs:  make(map[string]*models.SolveJob),
		hub:   hub,
		store: store,
	}
}

// Start registers the job and launches it. The operation is not checked
// here; handleCreateJob validates it before calling Start.
func (jm *JobManager) Start(def models.PuzzleDefinition, op string, countCap uint64) *models.SolveJob {
	job := &models.SolveJob{
		ID:        uuid.NewString(),
		Operation: op,
		Status:    "queued",
		Puzzle:    def,
	}
	jm.mu.Lock()
	jm.jobs[job.ID] = job
	jm.order = append(jm.order, job.ID)
	for len(jm.order) > maxRetainedJobs {
		delete(jm.jobs, jm.order[0])
		jm.order = jm.order[1:]
	}
	jm.mu.Unlock()

	go jm.run(job, countCap)
	return job
}

// Get returns a snapshot of the job.
func (jm *JobManager) Get(id string) (models.SolveJob, bool) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	job, ok := jm.jobs[id]
	if !ok {
		return models.SolveJob{}, false
	}
	return *job, true
}

func (jm *JobManager) run(job *models.SolveJob, countCap uint64) {
	jm.setStatus(job, "running", nil, "")
	jm.hub.BroadcastEvent(models.SolveEvent{
		Type:      "job_started",
		JobID:     job.ID,
		Operation: job.Operation,
	})

	result, err := ExecuteOperation(context.Background(), job.Puzzle, job.Operation, countCap)
	if err != nil {
		log.Printf("Job %s (%s) failed: %v", job.ID, job.Operation, err)
		jm.setStatus(job, "failed", nil, err.Error())
		jm.hub.BroadcastEvent(models.SolveEvent{
			Type:      "job_failed",
			JobID:     job.ID,
			Operation: job.Operation,
			Message:   err.Error(),
		})
		return
	}

	jm.setStatus(job, "done", result, "")
	jm.hub.BroadcastEvent(models.SolveEvent{
		Type:      "job_completed",
		JobID:     job.ID,
		Operation: job.Operation,
		Result:    result,
	})

	if jm.store != nil {
		if err := jm.store.SaveSolve(context.Background(), job.ID, job.Puzzle, job.Operation, result); err != nil {
			log.Printf("Failed to persist job %s: %v", job.ID, err)
		}
	}
}

func (jm *JobManager) setStatus(job *models.SolveJob, status string, result *models.SolveResult, errMsg string) {
	jm.mu.Lock()
	job.Status = status
	job.Result = result
	job.Error = errMsg
	jm.mu.Unlock()
}
