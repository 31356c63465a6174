package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cvepi/internal/config"
	"cvepi/internal/dataset"
	"cvepi/internal/metrics"
)

// Step is one sequential stage of the report run.
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step against the shared run state
	Execute(ctx context.Context, state *State) error
}

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState records the outcome of one executed step
type StepState struct {
	ID       string
	Name     string
	Status   StepStatus
	Started  time.Time
	Ended    time.Time
	Duration time.Duration
	Err      error
}

// State is the shared run state the steps read and extend. Each step
// fills the fields the later steps depend on.
type State struct {
	Config *config.Config
	Paths  *config.Paths
	Logger *slog.Logger

	// Filled by the load step
	Loaded []dataset.LoadResult

	// Filled by the consolidate step
	Table *dataset.Table

	// Filled by the derive step
	Summary *metrics.Summary

	// Paths of every artifact written, in creation order
	Artifacts []string
}

// NewState creates the run state for one report run
func NewState(cfg *config.Config, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		Config: cfg,
		Paths:  config.NewPaths(cfg),
		Logger: logger,
	}
}

// Runner executes steps sequentially, halting at the first failure.
type Runner struct {
	steps  []Step
	logger *slog.Logger
}

// NewRunner creates a runner over the given steps
func NewRunner(logger *slog.Logger, steps ...Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{steps: steps, logger: logger}
}

// Run executes every step in order. It returns the per-step states and
// the first error encountered, leaving later steps pending.
func (r *Runner) Run(ctx context.Context, state *State) ([]StepState, error) {
	states := make([]StepState, 0, len(r.steps))

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return states, fmt.Errorf("run cancelled before step %s: %w", step.ID(), err)
		}

		ss := StepState{ID: step.ID(), Name: step.Name(), Status: StepStatusActive, Started: time.Now()}
		r.logger.InfoContext(ctx, "step started",
			slog.String("step", step.ID()),
			slog.String("name", step.Name()))

		err := step.Execute(ctx, state)
		ss.Ended = time.Now()
		ss.Duration = ss.Ended.Sub(ss.Started)

		if err != nil {
			ss.Status = StepStatusFailed
			ss.Err = err
			states = append(states, ss)
			r.logger.ErrorContext(ctx, "step failed",
				slog.String("step", step.ID()),
				slog.Duration("duration", ss.Duration),
				slog.String("error", err.Error()))
			return states, fmt.Errorf("step %s: %w", step.ID(), err)
		}

		ss.Status = StepStatusCompleted
		states = append(states, ss)
		r.logger.InfoContext(ctx, "step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", ss.Duration))
	}

	return states, nil
}
