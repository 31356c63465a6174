package exporter

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvepi/internal/config"
	"cvepi/internal/dataset"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	dir := t.TempDir()
	return config.NewPaths(&config.Config{
		Paths: config.PathsConfig{
			InputDir:  filepath.Join(dir, "data"),
			OutputDir: filepath.Join(dir, "output"),
		},
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.Consolidate(context.Background(), discardLogger(), []dataset.LoadResult{
		{
			Indicator: dataset.IndicatorGeneral,
			Observations: []dataset.Observation{
				{Year: 2020, Department: "D02", Sex: dataset.SexBoth, Indicator: dataset.IndicatorGeneral, Value: 901.5},
				{Year: 2020, Department: "D01", Sex: dataset.SexBoth, Indicator: dataset.IndicatorGeneral, Value: 850},
			},
		},
		{
			Indicator: dataset.IndicatorLifeExpectancy,
			Observations: []dataset.Observation{
				{Year: 2020, Department: "D01", Sex: dataset.SexBoth, Indicator: dataset.IndicatorLifeExpectancy, Value: 83.2},
			},
		},
	})
	require.NoError(t, err)
	return table
}

func TestWriteConsolidated(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths, discardLogger())

	path, err := writer.WriteConsolidated(context.Background(), testTable(t))
	require.NoError(t, err)
	assert.Equal(t, paths.OutputPath(config.ConsolidatedCSVName), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "\xEF\xBB\xBF"), "file must start with a UTF-8 BOM")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header(), records[0])

	// Key-ordered rows: D01 before D02
	assert.Equal(t, []string{"2020", "D01", "Castellón", "both", "850", "", "", "", "", "83.2"}, records[1])
	assert.Equal(t, []string{"2020", "D02", "Castellón", "both", "901.5", "", "", "", "", ""}, records[2])
}

func TestWriteConsolidatedIdempotent(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths, discardLogger())
	table := testTable(t)

	path, err := writer.WriteConsolidated(context.Background(), table)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = writer.WriteConsolidated(context.Background(), table)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second, "reruns over the same table must be byte-identical")
}
