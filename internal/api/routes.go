package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/sudoku-engine/internal/db"
	"github.com/rawblock/sudoku-engine/internal/solver"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

// maxCountCap bounds a single /count request so one call cannot pin a
// core indefinitely on an adversarial grid.
const maxCountCap uint64 = 1_000_000

type APIHandler struct {
	dbStore *db.PostgresStore
	wsHub   *Hub
	jobs    *JobManager
}

func SetupRouter(dbStore *db.PostgresStore, wsHub *Hub) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var
	// Production: ALLOWED_ORIGINS=https://example.net,https://www.example.net
	// Development: ALLOWED_ORIGINS=http://localhost:3000 (or leave empty for *)
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			// Check if the request origin is in the allowed list
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	jobs := NewJobManager(wsHub, dbStore)
	handler := &APIHandler{
		dbStore: dbStore,
		wsHub:   wsHub,
		jobs:    jobs,
	}

	// ── Public endpoints (no auth) ─────────────────────────────
	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
		pub.GET("/constraints", handler.handleListConstraints)
	}

	// ── Protected endpoints (require bearer token if API_AUTH_TOKEN set) ──
	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	// Rate-limit protected endpoints to 30 req/min per IP (burst=5).
	// The /count endpoint can burn seconds of CPU per request —
	// especially important here.
	auth.Use(NewRateLimiter(30, 5).Middleware())
	{
		auth.POST("/check", handler.handleOperation(OpCheck))
		auth.POST("/solve", handler.handleOperation(OpSolve))
		auth.POST("/count", handler.handleOperation(OpCount))
		auth.POST("/logical", handler.handleOperation(OpLogical))
		auth.POST("/truecandidates", handler.handleOperation(OpTrueCandidates))

		// Background solve jobs with websocket progress
		auth.POST("/jobs", handler.handleCreateJob)
		auth.GET("/jobs/:id", handler.handleGetJob)

		auth.GET("/solves", handler.handleRecentSolves)
	}

	// Serve Static Dashboard
	r.Static("/dashboard", "./public")

	return r
}

// solveRequest is the body of every operation endpoint.
type solveRequest struct {
	Puzzle   models.PuzzleDefinition `json:"puzzle"`
	CountCap uint64                  `json:"countCap,omitempty"`
	// Operation is only read by POST /jobs.
	Operation string `json:"operation,omitempty"`
}

func (h *APIHandler) handleOperation(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req solveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.CountCap > maxCountCap {
			req.CountCap = maxCountCap
		}
		result, err := ExecuteOperation(c.Request.Context(), req.Puzzle, op, req.CountCap)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Puzzle rejected", "details": err.Error()})
			return
		}
		if h.dbStore != nil {
			if err := h.dbStore.SaveSolve(c.Request.Context(), "", req.Puzzle, op, result); err != nil {
				// Persistence is best-effort; the solve result still goes out.
				c.Header("X-Persistence", "failed")
			}
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

// handleCreateJob launches a background solve job.
// POST /api/v1/jobs { "operation": "count", "puzzle": {...} }
func (h *APIHandler) handleCreateJob(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. Expected: {operation, puzzle}"})
		return
	}
	switch req.Operation {
	case OpCheck, OpSolve, OpRandom, OpCount, OpLogical, OpTrueCandidates:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown operation", "hint": "check/solve/random/count/logical/truecandidates"})
		return
	}
	if req.CountCap > maxCountCap {
		req.CountCap = maxCountCap
	}
	job := h.jobs.Start(req.Puzzle, req.Operation, req.CountCap)
	c.JSON(http.StatusAccepted, gin.H{
		"jobId":     job.ID,
		"status":    job.Status,
		"operation": job.Operation,
	})
}

func (h *APIHandler) handleGetJob(c *gin.Context) {
	job, ok := h.jobs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown job id"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// handleHealth returns engine status and capabilities for service discovery
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "RawBlock Sudoku Engine v1.0",
		"capabilities": gin.H{
			"brute_force":         true,
			"logical_trace":       true,
			"solution_count":      true,
			"weak_link_discovery": true,
			"background_jobs":     true,
		},
		"dbConnected": h.dbStore != nil,
	})
}

// handleListConstraints reports the registered constraint names so
// clients can discover the supported variant set.
func (h *APIHandler) handleListConstraints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"constraints": solver.RegisteredConstraintNames()})
}

// handleRecentSolves returns persisted solve history.
func (h *APIHandler) handleRecentSolves(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not connected"})
		return
	}
	solves, err := h.dbStore.RecentSolves(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch solve history", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": solves})
}
