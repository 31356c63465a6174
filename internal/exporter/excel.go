package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"cvepi/internal/config"
	"cvepi/internal/dataset"
	apperrors "cvepi/internal/errors"
	"cvepi/internal/metrics"
)

const (
	kpiSheet     = "Indicadores"
	rankingSheet = "Departamentos"
)

// WorkbookWriter writes the summary workbook with the headline figures
// and the full department ranking.
type WorkbookWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookWriter creates a new workbook writer instance
func NewWorkbookWriter(paths *config.Paths, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{paths: paths, logger: logger}
}

// WriteSummary writes resumen.xlsx from the derived summary and the
// department means.
func (w *WorkbookWriter) WriteSummary(ctx context.Context, summary *metrics.Summary, means []metrics.DepartmentValue) (string, error) {
	fullPath := w.paths.OutputPath(config.SummaryWorkbookName)

	w.logger.InfoContext(ctx, "writing summary workbook",
		slog.String("path", fullPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", kpiSheet)
	writeKPISheet(f, summary)

	if _, err := f.NewSheet(rankingSheet); err != nil {
		return "", apperrors.NewStorageError("failed to create ranking sheet", err)
	}
	writeRankingSheet(f, means)

	if err := f.SaveAs(fullPath); err != nil {
		return "", apperrors.NewStorageError(
			fmt.Sprintf("failed to save %s", config.SummaryWorkbookName), err)
	}

	return fullPath, nil
}

func writeKPISheet(f *excelize.File, s *metrics.Summary) {
	f.SetCellValue(kpiSheet, "A1", "Indicador")
	f.SetCellValue(kpiSheet, "B1", "Valor")
	f.SetColWidth(kpiSheet, "A", "A", 52)
	f.SetColWidth(kpiSheet, "B", "B", 16)

	rows := []struct {
		label string
		value interface{}
	}{
		{"Mortalidad general 2023 (por 100.000 hab.)", s.Mortality2023},
		{"Cambio mortalidad 2010-2023 (%)", s.MortalityChangePct},
		{fmt.Sprintf("Esperanza de vida %d (años)", s.LifeExpectancyYear), s.LifeExpectancy},
		{"Brecha de género en esperanza de vida (años)", s.GenderGapYears},
		{"Mortalidad pre-COVID 2018-2019", s.PreCOVIDMortality},
		{"Mortalidad 2020", s.COVID2020Mortality},
		{"Mortalidad 2021", s.COVID2021Mortality},
		{"Mortalidad post-COVID 2022-2023", s.PostCOVIDMortality},
		{"Exceso de mortalidad 2021 vs 2010-2019 (%)", s.COVIDExcessPct},
		{"Cambio mortalidad por suicidio 2010-2023 (%)", s.SuicideChangePct},
		{"Disparidad territorial 2023 (%)", s.Disparity.Percent},
		{"Departamento con mayor mortalidad 2023", dataset.DepartmentName(s.Disparity.MaxDepartment)},
		{"Departamento con menor mortalidad 2023", dataset.DepartmentName(s.Disparity.MinDepartment)},
		{"Correlación mortalidad / esperanza de vida (r)", s.Correlation.R},
		{"Valor p de la correlación", s.Correlation.PValue},
		{"Pares observados en la correlación", s.Correlation.N},
	}
	for _, entry := range s.SexRatios {
		rows = append(rows, struct {
			label string
			value interface{}
		}{fmt.Sprintf("Razón hombre/mujer: %s", dataset.IndicatorLabel(entry.Indicator)), entry.Ratio})
	}

	for i, row := range rows {
		f.SetCellValue(kpiSheet, fmt.Sprintf("A%d", i+2), row.label)
		f.SetCellValue(kpiSheet, fmt.Sprintf("B%d", i+2), row.value)
	}
}

func writeRankingSheet(f *excelize.File, means []metrics.DepartmentValue) {
	headers := []string{"Puesto", "Código", "Departamento", "Provincia", "Tasa media 2010-2023"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(rankingSheet, cell, header)
		f.SetColWidth(rankingSheet, cell[:1], cell[:1], 24)
	}

	// Highest rate first
	for i := 0; i < len(means); i++ {
		m := means[len(means)-1-i]
		province, _ := dataset.ProvinceFor(m.Department)
		row := i + 2
		f.SetCellValue(rankingSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(rankingSheet, fmt.Sprintf("B%d", row), m.Department)
		f.SetCellValue(rankingSheet, fmt.Sprintf("C%d", row), dataset.DepartmentName(m.Department))
		f.SetCellValue(rankingSheet, fmt.Sprintf("D%d", row), province)
		f.SetCellValue(rankingSheet, fmt.Sprintf("E%d", row), m.Value)
	}
}
