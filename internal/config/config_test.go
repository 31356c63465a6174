package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "data", cfg.Paths.InputDir)
	assert.Equal(t, "output", cfg.Paths.OutputDir)
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := `
logging:
  level: debug
  output: stdout
paths:
  input_dir: fuentes
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	cfg, err := LoadFrom(file)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "fuentes", cfg.Paths.InputDir)
	// Untouched fields keep defaults.
	assert.Equal(t, "output", cfg.Paths.OutputDir)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("logging:\n  level: debug\n"), 0644))

	t.Setenv("EPIREPORT_LOGGING_LEVEL", "error")

	cfg, err := LoadFrom(file)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadFrom_EnvSetToDefaultBeatsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("logging:\n  level: debug\n"), 0644))

	// Explicitly set to the built-in default; must still win over the file.
	t.Setenv("EPIREPORT_LOGGING_LEVEL", "info")

	cfg, err := LoadFrom(file)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFrom_InvalidLevel(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("logging:\n  level: loud\n"), 0644))

	_, err := LoadFrom(file)
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	cfg := defaultConfig()
	paths := NewPaths(&cfg)

	assert.Equal(t, filepath.Join("data", "mortalidad_general.csv"), paths.InputPath("mortalidad_general.csv"))
	assert.Equal(t, filepath.Join("output", "consolidado.csv"), paths.OutputPath(ConsolidatedCSVName))
	assert.Equal(t, filepath.Join("output", "figuras", FigureNames[0]), paths.FigurePath(FigureNames[0]))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := &Paths{InputDir: filepath.Join(dir, "in"), OutputDir: filepath.Join(dir, "out")}

	require.NoError(t, paths.EnsureDirectories())

	info, err := os.Stat(paths.FiguresDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFigureNames_Count(t *testing.T) {
	assert.Len(t, FigureNames, 13)
}
