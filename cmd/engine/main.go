package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rawblock/sudoku-engine/internal/api"
	"github.com/rawblock/sudoku-engine/internal/db"
	"github.com/rawblock/sudoku-engine/internal/solver"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

// Exit codes: 0 success, 1 invalid puzzle or usage, 2 cancelled.
const (
	exitOK        = 0
	exitInvalid   = 1
	exitCancelled = 2
)

// constraintList collects repeatable -constraint flags of the form
// "name:options", e.g. -constraint "killer:6;r1c1r1c2r1c3".
type constraintList []models.ConstraintSpec

func (c *constraintList) String() string { return fmt.Sprintf("%v", []models.ConstraintSpec(*c)) }

func (c *constraintList) Set(value string) error {
	name, options, _ := strings.Cut(value, ":")
	if name == "" {
		return fmt.Errorf("constraint flag needs name:options, got %q", value)
	}
	*c = append(*c, models.ConstraintSpec{Name: name, Options: options})
	return nil
}

func main() {
	var (
		puzzleFlag   = flag.String("puzzle", "", "81-character givens string (0 or . for empty)")
		solveFlag    = flag.Bool("solve", false, "brute-force the first solution")
		randomFlag   = flag.Bool("random", false, "brute-force a random solution")
		countFlag    = flag.Uint64("count", 0, "count solutions up to N")
		logicalFlag  = flag.Bool("logical", false, "logical solve with a step trace")
		checkFlag    = flag.Bool("check", false, "consolidate once and print candidates")
		trueCandFlag = flag.Bool("truecandidates", false, "reduce to candidates appearing in some solution")
		discoverFlag = flag.Bool("discover", false, "run weak-link discovery at finalize")
		serveFlag    = flag.Bool("serve", false, "run the HTTP API server")
		timeoutFlag  = flag.Duration("timeout", 0, "abort the operation after this duration")
	)
	var constraints constraintList
	flag.Var(&constraints, "constraint", "repeatable, name:options (e.g. killer:6;r1c1r1c2r1c3)")
	flag.Parse()

	if *serveFlag {
		runServer()
		return
	}

	def := models.PuzzleDefinition{
		Givens:            *puzzleFlag,
		Constraints:       constraints,
		DiscoverWeakLinks: *discoverFlag,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if *timeoutFlag > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, *timeoutFlag)
		defer cancelTimeout()
	}

	op := ""
	countCap := uint64(0)
	switch {
	case *solveFlag:
		op = api.OpSolve
	case *randomFlag:
		op = api.OpRandom
	case *countFlag > 0:
		op = api.OpCount
		countCap = *countFlag
	case *logicalFlag:
		op = api.OpLogical
	case *checkFlag:
		op = api.OpCheck
	case *trueCandFlag:
		op = api.OpTrueCandidates
	default:
		fmt.Fprintln(os.Stderr, "no operation selected; use -solve, -random, -count N, -logical, -check, -truecandidates or -serve")
		fmt.Fprintf(os.Stderr, "registered constraints: %s\n", strings.Join(solver.RegisteredConstraintNames(), ", "))
		os.Exit(exitInvalid)
	}

	result, err := api.ExecuteOperation(ctx, def, op, countCap)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "cancelled")
			os.Exit(exitCancelled)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitInvalid)
	}

	printResult(op, result)
	if result.Status == solver.StatusInvalid.String() {
		os.Exit(exitInvalid)
	}
	os.Exit(exitOK)
}

func printResult(op string, result *models.SolveResult) {
	fmt.Printf("status: %s (%dms)\n", result.Status, result.ElapsedMS)
	switch op {
	case api.OpCount:
		fmt.Printf("solutions: %d (cap %d)\n", result.Count, result.CountCap)
	case api.OpLogical:
		for i, step := range result.Steps {
			fmt.Printf("%3d. %s\n", i+1, step.Description)
		}
		if result.Solution != "" {
			fmt.Println(result.Solution)
		} else {
			printCandidateGrid(result.Candidates)
		}
	case api.OpCheck, api.OpTrueCandidates:
		printCandidateGrid(result.Candidates)
	default:
		if result.Solution != "" {
			fmt.Println(result.Solution)
		}
	}
}

// printCandidateGrid renders the per-cell candidate strings in rows,
// padded so columns line up.
func printCandidateGrid(candidates []string) {
	if len(candidates) != solver.NumCells {
		return
	}
	width := 0
	for _, c := range candidates {
		if len(c) > width {
			width = len(c)
		}
	}
	for r := 0; r < solver.Height; r++ {
		row := make([]string, solver.Width)
		for c := 0; c < solver.Width; c++ {
			row[c] = fmt.Sprintf("%-*s", width, candidates[solver.CellIndex(r, c)])
		}
		fmt.Println(strings.Join(row, " "))
	}
}

// runServer starts the HTTP API: optional Postgres (warn and continue),
// websocket hub, gin router. All configuration comes from environment
// variables.
func runServer() {
	log.Println("Starting RawBlock Sudoku Engine (API mode)...")
	log.Printf("Registered constraints: %s", strings.Join(solver.RegisteredConstraintNames(), ", "))

	// ─── Environment Variables ──────────────────────────────────────────
	// DATABASE_URL is optional: without it the engine runs without solve
	// history. API_AUTH_TOKEN/ALLOWED_ORIGINS are read by the router.
	// ────────────────────────────────────────────────────────────────────

	var dbConn *db.PostgresStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conn, err := db.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to PostgreSQL, continuing without solve history. Error: %v", err)
		} else {
			dbConn = conn
			defer dbConn.Close()
			if err := dbConn.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
		}
	} else {
		log.Println("DATABASE_URL not set — running without solve history")
	}

	// Setup WebSocket Hub
	wsHub := api.NewHub()
	go wsHub.Run()

	// Warm-up sanity check: the empty grid must consolidate cleanly. A
	// broken build fails here instead of on the first request.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := api.ExecuteOperation(warmCtx, models.PuzzleDefinition{}, api.OpCheck, 0); err != nil {
		warmCancel()
		log.Fatalf("FATAL: engine warm-up failed: %v", err)
	}
	warmCancel()

	// Setup the Gin Router
	r := api.SetupRouter(dbConn, wsHub)

	port := getEnvOrDefault("PORT", "5339")

	// Start the server
	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
