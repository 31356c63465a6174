package pipeline

import (
	"context"
	"errors"
	"fmt"
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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStep struct {
	id  string
	err error
	on  func(state *State)
}

func (s *fakeStep) ID() string   { return s.id }
func (s *fakeStep) Name() string { return s.id }

func (s *fakeStep) Execute(_ context.Context, state *State) error {
	if s.on != nil {
		s.on(state)
	}
	return s.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{
			InputDir:  filepath.Join(dir, "data"),
			OutputDir: filepath.Join(dir, "output"),
		},
	}
	require.NoError(t, os.MkdirAll(cfg.Paths.InputDir, 0755))
	return cfg
}

func TestRunnerExecutesInOrder(t *testing.T) {
	var order []string
	mark := func(id string) *fakeStep {
		return &fakeStep{id: id, on: func(*State) { order = append(order, id) }}
	}

	runner := NewRunner(discardLogger(), mark("a"), mark("b"), mark("c"))
	states, err := runner.Run(context.Background(), NewState(testConfig(t), discardLogger()))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	require.Len(t, states, 3)
	for _, ss := range states {
		assert.Equal(t, StepStatusCompleted, ss.Status)
	}
}

func TestRunnerHaltsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	var ran []string
	mark := func(id string) func(*State) {
		return func(*State) { ran = append(ran, id) }
	}

	runner := NewRunner(discardLogger(),
		&fakeStep{id: "a", on: mark("a")},
		&fakeStep{id: "b", on: mark("b"), err: boom},
		&fakeStep{id: "c", on: mark("c")},
	)
	states, err := runner.Run(context.Background(), NewState(testConfig(t), discardLogger()))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, ran, "steps after the failure must not run")
	require.Len(t, states, 2)
	assert.Equal(t, StepStatusCompleted, states[0].Status)
	assert.Equal(t, StepStatusFailed, states[1].Status)
}

func TestRunnerHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(discardLogger(), &fakeStep{id: "a"})
	_, err := runner.Run(ctx, NewState(testConfig(t), discardLogger()))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// writeSource writes one synthetic input CSV covering the full period
// for eight departments and all three sex breakdowns.
func writeSource(t *testing.T, dir, filename string, base float64) {
	t.Helper()

	departments := []string{"D01", "D03", "D05", "D08", "D11", "D15", "D19", "D23"}
	sexes := []string{"both", "male", "female"}

	var sb strings.Builder
	sb.WriteString("year,department,sex,value\n")
	for year := dataset.MinYear; year <= dataset.MaxYear; year++ {
		for di, dept := range departments {
			for si, sex := range sexes {
				value := base + float64(year-dataset.MinYear)*0.5 + float64(di)*2 + float64(si)*4
				sb.WriteString(fmt.Sprintf("%d,%s,%s,%.2f\n", year, dept, sex, value))
			}
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(sb.String()), 0644))
}

func TestDefaultStepsEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("full report run is slow")
	}

	cfg := testConfig(t)
	for _, src := range dataset.Sources {
		base := 100.0
		if src.Indicator == dataset.IndicatorLifeExpectancy {
			base = 80
		}
		writeSource(t, cfg.Paths.InputDir, src.Filename, base)
	}

	state := NewState(cfg, discardLogger())
	runner := NewRunner(discardLogger(), DefaultSteps()...)

	states, err := runner.Run(context.Background(), state)
	require.NoError(t, err)
	require.Len(t, states, 5)

	// consolidado.csv, resumen.xlsx, 13 figures, dashboard.html
	assert.Len(t, state.Artifacts, 2+len(config.FigureNames)+1)
	for _, artifact := range state.Artifacts {
		info, err := os.Stat(artifact)
		require.NoError(t, err, "artifact %s must exist", artifact)
		assert.Greater(t, info.Size(), int64(0))
	}

	assert.Equal(t, 14*8*3, state.Table.Len())
	assert.NotNil(t, state.Summary)
}
