package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "cvepi/internal/errors"
)

// Source binds one indicator to its input file. The loader reads the CSV;
// if the CSV is absent and an .xlsx sibling with the same base name exists,
// the workbook is read instead.
type Source struct {
	Indicator Indicator
	Filename  string
}

// Sources enumerates the six input files in their canonical order.
var Sources = []Source{
	{IndicatorGeneral, "mortalidad_general.csv"},
	{IndicatorCancer, "mortalidad_cancer.csv"},
	{IndicatorIschemic, "mortalidad_cardio.csv"},
	{IndicatorCerebrovascular, "mortalidad_cerebro.csv"},
	{IndicatorSuicide, "mortalidad_suicidio.csv"},
	{IndicatorLifeExpectancy, "esperanza_vida.csv"},
}

// expectedColumns is the required header, in any order, case-insensitive.
var expectedColumns = []string{"year", "department", "sex", "value"}

// Loader reads and validates the six indicator sources
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadResult carries one source's validated observations plus the count of
// rows dropped for an invalid or out-of-range year.
type LoadResult struct {
	Indicator    Indicator
	Observations []Observation
	Dropped      int
}

// LoadAll reads every source from dir. The first failure aborts the load.
func (l *Loader) LoadAll(ctx context.Context, dir string) ([]LoadResult, error) {
	results := make([]LoadResult, 0, len(Sources))
	for _, src := range Sources {
		result, err := l.Load(ctx, dir, src)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Load reads one source file from dir and validates every row.
func (l *Loader) Load(ctx context.Context, dir string, src Source) (LoadResult, error) {
	csvPath := filepath.Join(dir, src.Filename)
	xlsxPath := strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".xlsx"

	var (
		records [][]string
		path    string
		err     error
	)

	switch {
	case fileExists(csvPath):
		path = csvPath
		records, err = readCSVRecords(csvPath)
	case fileExists(xlsxPath):
		path = xlsxPath
		records, err = readWorkbookRecords(xlsxPath)
	default:
		return LoadResult{}, apperrors.NewMissingInputFileError(csvPath, nil).
			WithContext("indicator", string(src.Indicator))
	}
	if err != nil {
		return LoadResult{}, err
	}

	result, err := l.parseRecords(src, path, records)
	if err != nil {
		return LoadResult{}, err
	}

	l.logger.InfoContext(ctx, "loaded source",
		slog.String("indicator", string(src.Indicator)),
		slog.String("path", path),
		slog.Int("rows", len(result.Observations)),
		slog.Int("dropped", result.Dropped))

	return result, nil
}

// parseRecords validates the header and every data row of one source.
func (l *Loader) parseRecords(src Source, path string, records [][]string) (LoadResult, error) {
	if len(records) == 0 {
		return LoadResult{}, apperrors.NewSchemaViolationError("empty input file", nil).
			WithContext("path", path)
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return LoadResult{}, err.WithContext("path", path)
	}

	// Extra header columns may push a required column past index 3, so the
	// short-row guard must cover the highest mapped index, not just the
	// required column count.
	maxCol := 0
	for _, idx := range cols {
		if idx > maxCol {
			maxCol = idx
		}
	}

	result := LoadResult{Indicator: src.Indicator}

	for i, record := range records[1:] {
		line := i + 2 // 1-based, after the header

		if len(record) <= maxCol {
			return LoadResult{}, apperrors.NewSchemaViolationError("row has too few columns", nil).
				WithContext("path", path).
				WithContext("line", line)
		}

		yearText := strings.TrimSpace(record[cols["year"]])
		year, err := strconv.Atoi(yearText)
		if err != nil || year < MinYear || year > MaxYear {
			// Out-of-range and unparseable years are an expected data
			// defect: drop and count, keep loading.
			result.Dropped++
			continue
		}

		code := strings.TrimSpace(record[cols["department"]])
		if _, ok := LookupDepartment(code); !ok {
			return LoadResult{}, apperrors.NewUnknownDepartmentError(code).
				WithContext("path", path).
				WithContext("line", line)
		}

		sex, ok := parseSex(record[cols["sex"]])
		if !ok {
			return LoadResult{}, apperrors.NewSchemaViolationError("unrecognized sex code "+strconv.Quote(record[cols["sex"]]), nil).
				WithContext("path", path).
				WithContext("line", line)
		}

		valueText := strings.TrimSpace(record[cols["value"]])
		value, err := strconv.ParseFloat(strings.ReplaceAll(valueText, ",", "."), 64)
		if err != nil {
			return LoadResult{}, apperrors.NewSchemaViolationError("malformed value "+strconv.Quote(valueText), err).
				WithContext("path", path).
				WithContext("line", line)
		}

		result.Observations = append(result.Observations, Observation{
			Year:       year,
			Department: code,
			Sex:        sex,
			Indicator:  src.Indicator,
			Value:      value,
		})
	}

	return result, nil
}

// mapColumns locates the expected columns in a header row.
func mapColumns(header []string) (map[string]int, *apperrors.AppError) {
	cols := make(map[string]int, len(expectedColumns))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(stripBOM(name)))
		switch key {
		case "year", "periodo":
			cols["year"] = i
		case "department", "departamento":
			cols["department"] = i
		case "sex", "sexo":
			cols["sex"] = i
		case "value", "valor":
			cols["value"] = i
		}
	}
	for _, want := range expectedColumns {
		if _, ok := cols[want]; !ok {
			return nil, apperrors.NewSchemaViolationError("missing required column "+strconv.Quote(want), nil)
		}
	}
	return cols, nil
}

// parseSex maps input sex codes to the canonical Sex values. The Spanish
// source vocabulary is accepted alongside the canonical one.
func parseSex(text string) (Sex, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "male", "hombres", "hombre", "h":
		return SexMale, true
	case "female", "mujeres", "mujer", "m":
		return SexFemale, true
	case "both", "ambos", "ambos sexos", "a", "t":
		return SexBoth, true
	}
	return "", false
}

// readCSVRecords reads a whole comma-delimited UTF-8 file.
func readCSVRecords(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open input file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewSchemaViolationError("malformed CSV", err).
				WithContext("path", path)
		}
		records = append(records, record)
	}
	return records, nil
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
