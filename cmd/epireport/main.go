// Command epireport runs the full mortality and life expectancy report
// for the Comunitat Valenciana: it loads the six source files, builds
// the consolidated table, derives the headline metrics and writes the
// consolidated CSV, the summary workbook, the thirteen figures and the
// HTML dashboard.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"cvepi/internal/config"
	apperrors "cvepi/internal/errors"
	"cvepi/internal/infrastructure"
	"cvepi/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	runID := uuid.New().String()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	logger.InfoContext(ctx, "report run started",
		slog.String("input_dir", cfg.Paths.InputDir),
		slog.String("output_dir", cfg.Paths.OutputDir))

	state := pipeline.NewState(cfg, logger)
	runner := pipeline.NewRunner(logger, pipeline.DefaultSteps()...)

	steps, err := runner.Run(ctx, state)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			logger.ErrorContext(ctx, "report run failed",
				slog.String("type", string(appErr.Type)),
				slog.String("error", appErr.Message))
		} else {
			logger.ErrorContext(ctx, "report run failed", slog.String("error", err.Error()))
		}
		return 1
	}

	logger.InfoContext(ctx, "report run completed",
		slog.Int("steps", len(steps)),
		slog.Int("artifacts", len(state.Artifacts)),
		slog.Int("rows", state.Table.Len()),
		slog.Int("dropped", state.Table.Dropped))
	return 0
}
