package pipeline

import (
	"context"
	"log/slog"

	"cvepi/internal/dataset"
	apperrors "cvepi/internal/errors"
	"cvepi/internal/exporter"
	"cvepi/internal/metrics"
	"cvepi/internal/render"
)

// DefaultSteps returns the full report run in execution order.
func DefaultSteps() []Step {
	return []Step{
		&LoadStep{},
		&ConsolidateStep{},
		&DeriveStep{},
		&ExportStep{},
		&RenderStep{},
	}
}

// LoadStep reads the six source files into validated observations.
type LoadStep struct{}

func (s *LoadStep) ID() string   { return "load" }
func (s *LoadStep) Name() string { return "Carga de fuentes" }

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	loader := dataset.NewLoader(state.Logger)
	results, err := loader.LoadAll(ctx, state.Paths.InputDir)
	if err != nil {
		return err
	}
	state.Loaded = results
	return nil
}

// ConsolidateStep outer-joins the loaded sources into the indicator table.
type ConsolidateStep struct{}

func (s *ConsolidateStep) ID() string   { return "consolidate" }
func (s *ConsolidateStep) Name() string { return "Consolidación" }

func (s *ConsolidateStep) Execute(ctx context.Context, state *State) error {
	if state.Loaded == nil {
		return apperrors.NewMissingDataError("no loaded sources to consolidate")
	}
	table, err := dataset.Consolidate(ctx, state.Logger, state.Loaded)
	if err != nil {
		return err
	}
	state.Table = table
	state.Logger.InfoContext(ctx, "table consolidated",
		slog.Int("rows", table.Len()),
		slog.Int("dropped", table.Dropped))
	return nil
}

// DeriveStep computes the headline metrics from the table.
type DeriveStep struct{}

func (s *DeriveStep) ID() string   { return "derive" }
func (s *DeriveStep) Name() string { return "Derivación de métricas" }

func (s *DeriveStep) Execute(ctx context.Context, state *State) error {
	if state.Table == nil {
		return apperrors.NewMissingDataError("no consolidated table to derive from")
	}
	summary, err := metrics.NewDeriver(state.Table, state.Logger).BuildSummary(ctx)
	if err != nil {
		return err
	}
	state.Summary = summary
	return nil
}

// ExportStep writes the consolidated CSV and the summary workbook.
type ExportStep struct{}

func (s *ExportStep) ID() string   { return "export" }
func (s *ExportStep) Name() string { return "Exportación de tablas" }

func (s *ExportStep) Execute(ctx context.Context, state *State) error {
	if state.Table == nil || state.Summary == nil {
		return apperrors.NewMissingDataError("export requires the consolidated table and summary")
	}

	csvPath, err := exporter.NewCSVWriter(state.Paths, state.Logger).WriteConsolidated(ctx, state.Table)
	if err != nil {
		return err
	}
	state.Artifacts = append(state.Artifacts, csvPath)

	means := metrics.NewDeriver(state.Table, state.Logger).
		DepartmentMeans(dataset.IndicatorGeneral, dataset.SexBoth)
	xlsxPath, err := exporter.NewWorkbookWriter(state.Paths, state.Logger).WriteSummary(ctx, state.Summary, means)
	if err != nil {
		return err
	}
	state.Artifacts = append(state.Artifacts, xlsxPath)
	return nil
}

// RenderStep draws the figures and the HTML dashboard.
type RenderStep struct{}

func (s *RenderStep) ID() string   { return "render" }
func (s *RenderStep) Name() string { return "Generación de figuras" }

func (s *RenderStep) Execute(ctx context.Context, state *State) error {
	if state.Table == nil || state.Summary == nil {
		return apperrors.NewMissingDataError("render requires the consolidated table and summary")
	}

	figures, err := render.NewRenderer(state.Paths, state.Logger).RenderAll(ctx, state.Table, state.Summary)
	state.Artifacts = append(state.Artifacts, figures...)
	if err != nil {
		return err
	}

	htmlPath, err := render.NewDashboardWriter(state.Paths, state.Logger).WriteDashboard(ctx, state.Table, state.Summary)
	if err != nil {
		return err
	}
	state.Artifacts = append(state.Artifacts, htmlPath)
	return nil
}
