package propagate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dkahdian/kcmap/dataset"
)

// DefaultMaxIterations caps the fixed-point loop. Every pass strictly
// climbs the complexity lattice, so a converging dataset stabilizes in far
// fewer sweeps; hitting the cap means a lemma or rule improves over
// itself.
const DefaultMaxIterations = 50

// ErrNotConverged is returned when the fixed-point loop hits its iteration
// cap. The dataset is partially derived at that point and must not be
// saved.
var ErrNotConverged = errors.New("propagation did not converge")

// Options configures an Engine.
type Options struct {
	// Logger for pass-level progress. Defaults to slog.Default().
	Logger *slog.Logger

	// MaxIterations caps the fixed-point loop. Defaults to
	// DefaultMaxIterations.
	MaxIterations int
}

// Engine drives propagation to its fixed point. It owns no state between
// runs; the dataset is the caller's and is mutated in place.
type Engine struct {
	log           *slog.Logger
	maxIterations int
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	max := opts.MaxIterations
	if max <= 0 {
		max = DefaultMaxIterations
	}
	return &Engine{log: log, maxIterations: max}
}

// Report summarizes one engine run.
type Report struct {
	// RunID correlates log lines and metrics for this run.
	RunID string

	// Iterations is the number of full sweeps until no pass changed
	// anything (the final, no-op sweep included).
	Iterations int

	// StrippedCells and StrippedOperations count the previously derived
	// facts removed before propagation.
	StrippedCells      int
	StrippedOperations int

	// EdgeFacts and OperationFacts count derivation writes. Re-derivations
	// of the same cell in later sweeps count separately.
	EdgeFacts      int
	OperationFacts int

	Duration time.Duration
}

// run carries the shared state of one engine run through the passes.
type run struct {
	db  *dataset.Database
	m   *dataset.AdjacencyMatrix
	log *slog.Logger

	edgeFacts int
	opFacts   int
}

// Run strips previously derived facts and re-derives the full closure of
// the manual core. The dataset must be structurally valid; Run checks this
// before touching anything.
func (e *Engine) Run(db *dataset.Database) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.New().String()}
	log := e.log.With("run_id", report.RunID)

	if err := db.Validate(); err != nil {
		return nil, fmt.Errorf("structural validation: %w", err)
	}

	report.StrippedCells, report.StrippedOperations = db.StripDerived()
	log.Debug("stripped derived facts",
		"cells", report.StrippedCells,
		"operations", report.StrippedOperations)

	r := &run{db: db, m: db.AdjacencyMatrix, log: log}
	converged := false
	for i := 0; i < e.maxIterations; i++ {
		report.Iterations = i + 1
		edgeChanged := r.propagateEdges()
		opChanged := r.propagateOperations()
		if !edgeChanged && !opChanged {
			converged = true
			break
		}
	}
	report.EdgeFacts = r.edgeFacts
	report.OperationFacts = r.opFacts
	report.Duration = time.Since(start)

	if !converged {
		log.Error("propagation hit the iteration cap",
			"iterations", report.Iterations,
			"edge_facts", report.EdgeFacts,
			"operation_facts", report.OperationFacts)
		return report, fmt.Errorf("%w after %d iterations", ErrNotConverged, report.Iterations)
	}

	log.Info("propagation converged",
		"iterations", report.Iterations,
		"edge_facts", report.EdgeFacts,
		"operation_facts", report.OperationFacts,
		"duration", report.Duration)
	return report, nil
}
