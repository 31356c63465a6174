package config

import (
	"os"
	"path/filepath"
)

// Output artifact names. These are fixed: downstream consumers (the HTML
// dashboard, external notebooks) reference them by name.
const (
	ConsolidatedCSVName = "consolidado.csv"
	SummaryWorkbookName = "resumen.xlsx"
	DashboardHTMLName   = "dashboard.html"
)

// FigureNames enumerates the thirteen figure files in rendering order.
var FigureNames = []string{
	"fig1_evolucion_mortalidad_general.png",
	"fig2_jerarquia_causas_mortalidad.png",
	"fig3_evolucion_causas_especificas.png",
	"fig4_disparidad_genero_ratio.png",
	"fig5_comparativa_sexo_causa.png",
	"fig6_esperanza_vida_genero.png",
	"fig7_ranking_departamentos.png",
	"fig8_heatmap_departamentos.png",
	"fig9_tendencia_suicidio.png",
	"fig10_scatter_correlacion.png",
	"fig11_comparativa_provincias.png",
	"fig12_impacto_covid.png",
	"fig13_dashboard_resumen.png",
}

// Paths resolves all file locations for one run
type Paths struct {
	InputDir  string
	OutputDir string
}

// NewPaths builds a Paths from the loaded configuration
func NewPaths(cfg *Config) *Paths {
	return &Paths{
		InputDir:  cfg.Paths.InputDir,
		OutputDir: cfg.Paths.OutputDir,
	}
}

// InputPath returns the location of a source file
func (p *Paths) InputPath(name string) string {
	return filepath.Join(p.InputDir, name)
}

// OutputPath returns the location of an output artifact
func (p *Paths) OutputPath(name string) string {
	return filepath.Join(p.OutputDir, name)
}

// FigurePath returns the location of one of the thirteen figures
func (p *Paths) FigurePath(name string) string {
	return filepath.Join(p.OutputDir, "figuras", name)
}

// FiguresDir returns the directory holding the rendered figures
func (p *Paths) FiguresDir() string {
	return filepath.Join(p.OutputDir, "figuras")
}

// EnsureDirectories creates the output tree if it does not exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.FiguresDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
