package render

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"time"

	"cvepi/internal/config"
	"cvepi/internal/dataset"
	apperrors "cvepi/internal/errors"
	"cvepi/internal/metrics"
)

//go:embed templates/dashboard.html.tmpl
var dashboardTemplate string

// DashboardWriter renders the static HTML dashboard that links the
// figures and headline numbers together.
type DashboardWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewDashboardWriter creates a dashboard writer
func NewDashboardWriter(paths *config.Paths, logger *slog.Logger) *DashboardWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardWriter{paths: paths, logger: logger}
}

type dashboardFigure struct {
	File  string
	Title string
}

type dashboardData struct {
	GeneratedAt string
	RowCount    int
	Dropped     int

	Mortality2023      string
	MortalityChangePct string
	LifeExpectancy     string
	LifeExpectancyYear int
	GenderGapYears     string
	COVIDExcessPct     string
	SuicideChangePct   string
	DisparityPercent   string
	MaxDepartment      string
	MinDepartment      string
	CorrelationR       string
	CorrelationP       string

	Figures []dashboardFigure
}

var figureTitles = []string{
	"Evolución de la mortalidad general",
	"Jerarquía de causas de mortalidad",
	"Evolución por causa específica",
	"Disparidades de género (ratio H/M)",
	"Comparativa de tasas por sexo",
	"Esperanza de vida por sexo",
	"Ranking de departamentos",
	"Mapa de calor por departamento y año",
	"Tendencia del suicidio",
	"Correlación mortalidad / esperanza de vida",
	"Comparativa por provincias",
	"Impacto COVID-19",
	"Dashboard resumen",
}

// WriteDashboard renders dashboard.html into the output directory. The
// figure references are relative, so the file works from any location
// as long as figuras/ travels with it.
func (w *DashboardWriter) WriteDashboard(ctx context.Context, table *dataset.Table, summary *metrics.Summary) (string, error) {
	fullPath := w.paths.OutputPath(config.DashboardHTMLName)

	w.logger.InfoContext(ctx, "writing dashboard", slog.String("path", fullPath))

	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return "", apperrors.NewRenderError("failed to parse dashboard template", err)
	}

	data := dashboardData{
		GeneratedAt:        time.Now().Format("2006-01-02 15:04"),
		RowCount:           table.Len(),
		Dropped:            table.Dropped,
		Mortality2023:      fmt.Sprintf("%.2f", summary.Mortality2023),
		MortalityChangePct: fmt.Sprintf("%+.1f%%", summary.MortalityChangePct),
		LifeExpectancy:     fmt.Sprintf("%.1f", summary.LifeExpectancy),
		LifeExpectancyYear: summary.LifeExpectancyYear,
		GenderGapYears:     fmt.Sprintf("%.1f", summary.GenderGapYears),
		COVIDExcessPct:     fmt.Sprintf("%+.1f%%", summary.COVIDExcessPct),
		SuicideChangePct:   fmt.Sprintf("%+.1f%%", summary.SuicideChangePct),
		DisparityPercent:   fmt.Sprintf("%.1f%%", summary.Disparity.Percent),
		MaxDepartment:      dataset.DepartmentName(summary.Disparity.MaxDepartment),
		MinDepartment:      dataset.DepartmentName(summary.Disparity.MinDepartment),
		CorrelationR:       fmt.Sprintf("%.3f", summary.Correlation.R),
		CorrelationP:       fmt.Sprintf("%.4f", summary.Correlation.PValue),
	}
	for i, name := range config.FigureNames {
		data.Figures = append(data.Figures, dashboardFigure{
			File:  "figuras/" + name,
			Title: figureTitles[i],
		})
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", apperrors.NewStorageError(
			fmt.Sprintf("failed to create %s", config.DashboardHTMLName), err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, data); err != nil {
		return "", apperrors.NewRenderError("failed to render dashboard template", err)
	}
	return fullPath, nil
}
