package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"cvepi/internal/config"
	"cvepi/internal/dataset"
	apperrors "cvepi/internal/errors"
)

// CSVWriter writes the consolidated table to disk
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// Header returns the consolidated CSV column order: the key columns
// followed by one column per indicator.
func Header() []string {
	header := []string{"year", "department", "province", "sex"}
	for _, ind := range dataset.Indicators {
		header = append(header, string(ind))
	}
	return header
}

// WriteConsolidated writes the consolidated table as consolidado.csv.
// Rows are emitted in key order so reruns over the same inputs produce
// byte-identical files. Indicators without data stay as empty cells.
func (w *CSVWriter) WriteConsolidated(ctx context.Context, table *dataset.Table) (string, error) {
	fullPath := w.paths.OutputPath(config.ConsolidatedCSVName)

	w.logger.InfoContext(ctx, "writing consolidated CSV",
		slog.String("path", fullPath),
		slog.Int("rows", table.Len()))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", apperrors.NewStorageError(
			fmt.Sprintf("failed to create %s", config.ConsolidatedCSVName), err)
	}
	defer file.Close()

	// UTF-8 BOM so Excel renders the accented province names
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", apperrors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(Header()); err != nil {
		return "", apperrors.NewStorageError("failed to write header", err)
	}

	for _, row := range table.Rows() {
		record := []string{
			strconv.Itoa(row.Year),
			row.Department,
			row.Province,
			string(row.Sex),
		}
		for _, ind := range dataset.Indicators {
			record = append(record, formatCell(row, ind))
		}
		if err := writer.Write(record); err != nil {
			return "", apperrors.NewStorageError("failed to write record", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", apperrors.NewStorageError("failed to flush CSV", err)
	}

	return fullPath, nil
}

// formatCell renders one indicator value, or the empty string for "no
// data". The shortest round-trip representation keeps reruns stable.
func formatCell(row *dataset.Row, ind dataset.Indicator) string {
	v, ok := row.Value(ind)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
