package render

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"cvepi/internal/config"
	"cvepi/internal/dataset"
	apperrors "cvepi/internal/errors"
	"cvepi/internal/metrics"
)

// Renderer draws the thirteen report figures as PNG files.
type Renderer struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewRenderer creates a renderer writing into the configured figures
// directory.
func NewRenderer(paths *config.Paths, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{paths: paths, logger: logger}
}

// RenderAll draws every figure in order and returns their paths. It stops
// at the first figure that fails.
func (r *Renderer) RenderAll(ctx context.Context, table *dataset.Table, summary *metrics.Summary) ([]string, error) {
	if err := r.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("failed to create figures directory", err)
	}

	d := metrics.NewDeriver(table, r.logger)

	figures := []struct {
		name string
		draw func(d *metrics.Deriver, table *dataset.Table, summary *metrics.Summary, path string) error
	}{
		{config.FigureNames[0], r.figGeneralMortalityTrend},
		{config.FigureNames[1], r.figCauseHierarchy},
		{config.FigureNames[2], r.figCausePanels},
		{config.FigureNames[3], r.figSexRatio},
		{config.FigureNames[4], r.figSexComparison},
		{config.FigureNames[5], r.figLifeExpectancy},
		{config.FigureNames[6], r.figDepartmentRanking},
		{config.FigureNames[7], r.figDepartmentHeatmap},
		{config.FigureNames[8], r.figSuicideTrend},
		{config.FigureNames[9], r.figCorrelationScatter},
		{config.FigureNames[10], r.figProvinceComparison},
		{config.FigureNames[11], r.figCOVIDImpact},
		{config.FigureNames[12], r.figDashboard},
	}

	var rendered []string
	for _, fig := range figures {
		path := r.paths.FigurePath(fig.name)
		if err := fig.draw(d, table, summary, path); err != nil {
			return rendered, apperrors.NewRenderError(
				fmt.Sprintf("failed to render %s", fig.name), err)
		}
		r.logger.InfoContext(ctx, "figure rendered", slog.String("figure", fig.name))
		rendered = append(rendered, path)
	}
	return rendered, nil
}

// figGeneralMortalityTrend draws the community general mortality series
// for the three sex breakdowns.
func (r *Renderer) figGeneralMortalityTrend(d *metrics.Deriver, _ *dataset.Table, _ *metrics.Summary, path string) error {
	p := newPlot("Evolución de la Mortalidad General en la Comunitat Valenciana (2010-2023)",
		"Año", "Tasa de Mortalidad (por 100.000 hab.)")
	p.X.Tick.Marker = yearTicks(1)

	for _, sex := range []dataset.Sex{dataset.SexBoth, dataset.SexMale, dataset.SexFemale} {
		if err := addSeries(p, d.CommunitySeries(dataset.IndicatorGeneral, sex), sexColor(sex), sexLabel(sex)); err != nil {
			return err
		}
	}
	p.Legend.Top = true

	return p.Save(14*vg.Inch, 7*vg.Inch, path)
}

// figCauseHierarchy ranks the four specific causes by their full-period
// community mean.
func (r *Renderer) figCauseHierarchy(d *metrics.Deriver, _ *dataset.Table, _ *metrics.Summary, path string) error {
	type causeMean struct {
		cause dataset.Indicator
		value float64
	}
	var ranked []causeMean
	for _, cause := range dataset.MortalityCauses {
		if v, ok := d.CommunityMean(cause, dataset.SexBoth); ok {
			ranked = append(ranked, causeMean{cause, v})
		}
	}
	// Ascending, so the heaviest cause lands on top of the chart
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].value < ranked[j].value })

	p := newPlot("Jerarquía de Causas de Mortalidad (Promedio 2010-2023, Ambos Sexos)",
		"Tasa de Mortalidad Promedio (por 100.000 hab.)", "")

	values := make([]float64, len(ranked))
	labels := make([]string, len(ranked))
	barColors := make([]color.RGBA, len(ranked))
	for i, cm := range ranked {
		values[i] = cm.value
		labels[i] = dataset.IndicatorLabel(cm.cause)
		barColors[i] = causeColor(cm.cause)
	}
	if err := addColoredBars(p, values, barColors, vg.Points(26), true); err != nil {
		return err
	}
	p.NominalY(labels...)

	return p.Save(12*vg.Inch, 6*vg.Inch, path)
}

// figCausePanels draws the four cause-specific community series as a 2x2
// panel, each panel titled with its 2010-2023 change.
func (r *Renderer) figCausePanels(d *metrics.Deriver, _ *dataset.Table, _ *metrics.Summary, path string) error {
	plots := [][]*plot.Plot{{nil, nil}, {nil, nil}}

	for idx, cause := range dataset.MortalityCauses {
		title := dataset.IndicatorLabel(cause)
		if change, err := d.PercentChange(cause, dataset.MinYear, dataset.MaxYear); err == nil {
			title = fmt.Sprintf("%s (%+.1f%%)", title, change)
		}

		p := newPlot(title, "Año", "Tasa por 100.000 hab.")
		p.Title.TextStyle.Font.Size = vg.Points(12)
		p.X.Tick.Marker = yearTicks(2)
		if err := addSeries(p, d.CommunitySeries(cause, dataset.SexBoth), causeColor(cause), ""); err != nil {
			return err
		}
		plots[idx/2][idx%2] = p
	}

	return writePanels(path, plots, 14*vg.Inch, 10*vg.Inch)
}

// figSexRatio draws the male/female period ratios per cause as
// horizontal bars with the equality line.
func (r *Renderer) figSexRatio(_ *metrics.Deriver, _ *dataset.Table, summary *metrics.Summary, path string) error {
	p := newPlot("Disparidades de Género: Ratio Hombres/Mujeres por Causa (Promedio 2010-2023)",
		"Ratio de Mortalidad Hombres / Mujeres", "")

	// SexRatios comes sorted highest first; reverse it so the highest
	// ratio lands on the top row
	n := len(summary.SexRatios)
	values := make([]float64, n)
	labels := make([]string, n)
	colors := make([]color.RGBA, n)
	for i, entry := range summary.SexRatios {
		values[n-1-i] = entry.Ratio
		labels[n-1-i] = dataset.IndicatorLabel(entry.Indicator)
		colors[n-1-i] = causeColor(entry.Indicator)
	}

	if err := addColoredBars(p, values, colors, vg.Points(24), true); err != nil {
		return err
	}
	p.NominalY(labels...)

	if err := addDashedLine(p, plotter.XYs{
		{X: 1, Y: -0.5}, {X: 1, Y: float64(n) - 0.5},
	}, colorNeutral, "Igualdad (ratio=1)"); err != nil {
		return err
	}

	return p.Save(12*vg.Inch, 7*vg.Inch, path)
}

// figSexComparison draws grouped male/female period means per cause.
func (r *Renderer) figSexComparison(d *metrics.Deriver, _ *dataset.Table, _ *metrics.Summary, path string) error {
	p := newPlot("Comparativa de Mortalidad por Sexo y Causa (Promedio 2010-2023)",
		"Causa de Mortalidad", "Tasa de Mortalidad (por 100.000 hab.)")

	maleValues := make(plotter.Values, len(dataset.MortalityCauses))
	femaleValues := make(plotter.Values, len(dataset.MortalityCauses))
	labels := make([]string, len(dataset.MortalityCauses))
	for i, cause := range dataset.MortalityCauses {
		maleValues[i], _ = d.CommunityMean(cause, dataset.SexMale)
		femaleValues[i], _ = d.CommunityMean(cause, dataset.SexFemale)
		labels[i] = dataset.IndicatorLabel(cause)
	}

	width := vg.Points(22)

	maleBars, err := plotter.NewBarChart(maleValues, width)
	if err != nil {
		return err
	}
	maleBars.Color = colorMale
	maleBars.LineStyle.Width = 0
	maleBars.Offset = -width / 2

	femaleBars, err := plotter.NewBarChart(femaleValues, width)
	if err != nil {
		return err
	}
	femaleBars.Color = colorFemale
	femaleBars.LineStyle.Width = 0
	femaleBars.Offset = width / 2

	p.Add(maleBars, femaleBars)
	p.Legend.Add("Hombres", maleBars)
	p.Legend.Add("Mujeres", femaleBars)
	p.Legend.Top = true
	p.NominalX(labels...)

	return p.Save(12*vg.Inch, 7*vg.Inch, path)
}

// figLifeExpectancy draws the life expectancy series for the three sex
// breakdowns.
func (r *Renderer) figLifeExpectancy(d *metrics.Deriver, _ *dataset.Table, _ *metrics.Summary, path string) error {
	p := newPlot("Evolución de la Esperanza de Vida por Sexo",
		"Año", "Esperanza de Vida a los 65 años (años)")
	p.X.Tick.Marker = yearTicks(1)

	for _, sex := range []dataset.Sex{dataset.SexMale, dataset.SexFemale, dataset.SexBoth} {
		if err := addSeries(p, d.CommunitySeries(dataset.IndicatorLifeExpectancy, sex), sexColor(sex), sexLabel(sex)); err != nil {
			return err
		}
	}
	p.Legend.Top = false

	return p.Save(14*vg.Inch, 7*vg.Inch, path)
}

// figDepartmentRanking ranks all departments by their full-period general
// mortality mean, colored by province.
func (r *Renderer) figDepartmentRanking(d *metrics.Deriver, _ *dataset.Table, _ *metrics.Summary, path string) error {
	means := d.DepartmentMeans(dataset.IndicatorGeneral, dataset.SexBoth)
	if len(means) == 0 {
		return apperrors.NewMissingDataError("no department means to rank")
	}

	p := newPlot("Ranking de Departamentos de Salud por Mortalidad General (Promedio 2010-2023)",
		"Tasa de Mortalidad General Promedio (por 100.000 hab.)", "")

	labels := make([]string, len(means))
	var total float64
	for i, m := range means {
		labels[i] = dataset.DepartmentName(m.Department)
		total += m.Value
	}

	// One bar chart per province so each keeps its own color
	width := vg.Points(10)
	for _, province := range dataset.Provinces {
		values := make(plotter.Values, len(means))
		for i, m := range means {
			if prov, _ := dataset.ProvinceFor(m.Department); prov == province {
				values[i] = m.Value
			}
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}
		bars.Color = provinceColor(province)
		bars.LineStyle.Width = 0
		bars.Horizontal = true
		p.Add(bars)
		p.Legend.Add(province, bars)
	}
	p.NominalY(labels...)

	mean := total / float64(len(means))
	if err := addDashedLine(p, plotter.XYs{
		{X: mean, Y: -0.5}, {X: mean, Y: float64(len(means)) - 0.5},
	}, colorDanger, fmt.Sprintf("Media CV: %.1f", mean)); err != nil {
		return err
	}

	return p.Save(12*vg.Inch, 10*vg.Inch, path)
}

// figDepartmentHeatmap draws the department x year general mortality grid.
func (r *Renderer) figDepartmentHeatmap(d *metrics.Deriver, table *dataset.Table, _ *metrics.Summary, path string) error {
	means := d.DepartmentMeans(dataset.IndicatorGeneral, dataset.SexBoth)
	if len(means) == 0 {
		return apperrors.NewMissingDataError("no department data for the heatmap")
	}

	grid := &departmentYearGrid{table: table}
	for _, m := range means {
		grid.departments = append(grid.departments, m.Department)
	}
	for year := dataset.MinYear; year <= dataset.MaxYear; year++ {
		grid.years = append(grid.years, year)
	}

	p := newPlot("Mapa de Calor: Mortalidad General por Departamento y Año",
		"Año", "Departamento de Salud")

	heatMap := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	p.Add(heatMap)

	ticks := make([]plot.Tick, len(grid.departments))
	for i, code := range grid.departments {
		ticks[i] = plot.Tick{Value: float64(i), Label: dataset.DepartmentName(code)}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Marker = yearTicks(2)

	return p.Save(16*vg.Inch, 10*vg.Inch, path)
}

// figSuicideTrend draws the suicide series per sex plus its linear trend.
func (r *Renderer) figSuicideTrend(d *metrics.Deriver, _ *dataset.Table, _ *metrics.Summary, path string) error {
	p := newPlot("Evolución de la Mortalidad por Suicidio (2010-2023)",
		"Año", "Tasa de Suicidio (por 100.000 hab.)")
	p.X.Tick.Marker = yearTicks(1)

	for _, sex := range []dataset.Sex{dataset.SexBoth, dataset.SexMale, dataset.SexFemale} {
		if err := addSeries(p, d.CommunitySeries(dataset.IndicatorSuicide, sex), sexColor(sex), sexLabel(sex)); err != nil {
			return err
		}
	}

	series := d.CommunitySeries(dataset.IndicatorSuicide, dataset.SexBoth)
	if len(series) >= 2 {
		xs := make([]float64, len(series))
		ys := make([]float64, len(series))
		for i, point := range series {
			xs[i] = float64(point.Year)
			ys[i] = point.Value
		}
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		trend := plotter.XYs{
			{X: xs[0], Y: alpha + beta*xs[0]},
			{X: xs[len(xs)-1], Y: alpha + beta*xs[len(xs)-1]},
		}
		if err := addDashedLine(p, trend, colorSuicide, "Tendencia lineal"); err != nil {
			return err
		}
	}
	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(14*vg.Inch, 7*vg.Inch, path)
}

// figCorrelationScatter draws mortality against life expectancy per
// (year, department, sex) with the fitted regression line.
func (r *Renderer) figCorrelationScatter(d *metrics.Deriver, table *dataset.Table, _ *metrics.Summary, path string) error {
	p := newPlot("Relación entre Mortalidad y Esperanza de Vida (por Departamento, Año y Sexo)",
		"Tasa de Mortalidad General (por 100.000 hab.)", "Esperanza de Vida a los 65 años (años)")

	for _, sex := range []dataset.Sex{dataset.SexMale, dataset.SexFemale} {
		var points plotter.XYs
		for _, row := range table.Rows() {
			if row.Sex != sex {
				continue
			}
			mortality, okM := row.Value(dataset.IndicatorGeneral)
			life, okL := row.Value(dataset.IndicatorLifeExpectancy)
			if okM && okL {
				points = append(points, plotter.XY{X: mortality, Y: life})
			}
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = sexColor(sex)
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add(sexLabel(sex), scatter)
	}

	// The regression and the annotated r are fitted over the full sample,
	// every (year, department, sex) pair with both values present.
	xs, ys := correlationSample(table)

	if len(xs) >= 2 {
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		minX, maxX := xs[0], xs[0]
		for _, x := range xs {
			minX = math.Min(minX, x)
			maxX = math.Max(maxX, x)
		}
		label := "Regresión lineal"
		if res, err := d.Correlation(dataset.IndicatorGeneral, dataset.IndicatorLifeExpectancy); err == nil {
			label = fmt.Sprintf("Regresión lineal (r = %.3f, p = %.4f)", res.R, res.PValue)
		}
		if err := addDashedLine(p, plotter.XYs{
			{X: minX, Y: alpha + beta*minX},
			{X: maxX, Y: alpha + beta*maxX},
		}, colorNeutral, label); err != nil {
			return err
		}
	}
	p.Legend.Top = true

	return p.Save(12*vg.Inch, 8*vg.Inch, path)
}

// correlationSample collects the paired mortality and life-expectancy values
// across every (year, department, sex) row, the same sample the derived
// correlation runs over.
func correlationSample(table *dataset.Table) (xs, ys []float64) {
	for _, row := range table.Rows() {
		mortality, okM := row.Value(dataset.IndicatorGeneral)
		life, okL := row.Value(dataset.IndicatorLifeExpectancy)
		if okM && okL {
			xs = append(xs, mortality)
			ys = append(ys, life)
		}
	}
	return xs, ys
}

// figProvinceComparison draws each province's general mortality series
// alongside the community mean.
func (r *Renderer) figProvinceComparison(d *metrics.Deriver, _ *dataset.Table, _ *metrics.Summary, path string) error {
	p := newPlot("Evolución de la Mortalidad General por Provincia (2010-2023)",
		"Año", "Tasa de Mortalidad General (por 100.000 hab.)")
	p.X.Tick.Marker = yearTicks(1)

	for _, province := range dataset.Provinces {
		series := d.ProvinceSeries(dataset.IndicatorGeneral, dataset.SexBoth, province)
		if len(series) == 0 {
			continue
		}
		if err := addSeries(p, series, provinceColor(province), province); err != nil {
			return err
		}
	}

	if err := addDashedLine(p, seriesXYs(d.CommunitySeries(dataset.IndicatorGeneral, dataset.SexBoth)),
		colorPrimary, "Media CV"); err != nil {
		return err
	}
	p.Legend.Top = true

	return p.Save(14*vg.Inch, 7*vg.Inch, path)
}

// figCOVIDImpact draws the period means beside their variation against
// the pre-pandemic baseline.
func (r *Renderer) figCOVIDImpact(_ *metrics.Deriver, _ *dataset.Table, summary *metrics.Summary, path string) error {
	periods := []string{"Pre-COVID (2018-19)", "2020", "2021", "Post-COVID (2022-23)"}
	values := []float64{
		summary.PreCOVIDMortality,
		summary.COVID2020Mortality,
		summary.COVID2021Mortality,
		summary.PostCOVIDMortality,
	}
	colors := []color.RGBA{colorSuccess, colorDanger, colorDanger, colorPrimary}

	left := newPlot("Comparativa de Mortalidad por Período", "", "Tasa de Mortalidad (por 100.000 hab.)")
	if err := addColoredBars(left, values, colors, vg.Points(30), false); err != nil {
		return err
	}
	left.NominalX(periods...)

	pre := summary.PreCOVIDMortality
	variations := make([]float64, len(values))
	for i, v := range values {
		variations[i] = (v - pre) / pre * 100
	}
	variations[0] = 0

	right := newPlot("Exceso de Mortalidad respecto a Pre-COVID", "", "Variación (%)")
	varColors := []color.RGBA{colorNeutral, colorDanger, colorDanger, colorPrimary}
	if err := addColoredBars(right, variations, varColors, vg.Points(30), false); err != nil {
		return err
	}
	right.NominalX(periods...)

	return writePanels(path, [][]*plot.Plot{{left, right}}, 14*vg.Inch, 6*vg.Inch)
}

// figDashboard draws the 3x3 summary dashboard: three KPI cards, the
// main trend, the sex ratios, the pandemic excess, the department
// extremes, the period comparison and the suicide trend.
func (r *Renderer) figDashboard(d *metrics.Deriver, _ *dataset.Table, summary *metrics.Summary, path string) error {
	kpiMortality, err := kpiPanel(
		fmt.Sprintf("%.2f", summary.Mortality2023),
		"Mortalidad General 2023",
		fmt.Sprintf("%+.1f%% vs 2010", summary.MortalityChangePct),
		colorPrimary, colorSuccess)
	if err != nil {
		return err
	}

	kpiLife, err := kpiPanel(
		fmt.Sprintf("%.1f", summary.LifeExpectancy),
		"Esperanza de Vida (65 años)",
		fmt.Sprintf("años (%d)", summary.LifeExpectancyYear),
		colorPrimary, colorNeutral)
	if err != nil {
		return err
	}

	kpiGap, err := kpiPanel(
		fmt.Sprintf("%.1f", summary.GenderGapYears),
		"Brecha de Género (años)",
		"Mujeres viven más",
		colorFemale, colorFemale)
	if err != nil {
		return err
	}

	trend := newPlot("Evolución de la Mortalidad General", "Año", "Tasa por 100.000")
	trend.Title.TextStyle.Font.Size = vg.Points(11)
	trend.X.Tick.Marker = yearTicks(2)
	if err := addSeries(trend, d.CommunitySeries(dataset.IndicatorGeneral, dataset.SexBoth), colorPrimary, ""); err != nil {
		return err
	}

	ratios := newPlot("Ratio Mortalidad H/M", "Ratio", "")
	ratios.Title.TextStyle.Font.Size = vg.Points(11)
	n := len(summary.SexRatios)
	ratioValues := make([]float64, n)
	ratioLabels := make([]string, n)
	ratioColors := make([]color.RGBA, n)
	for i, entry := range summary.SexRatios {
		ratioValues[n-1-i] = entry.Ratio
		ratioLabels[n-1-i] = dataset.IndicatorLabel(entry.Indicator)
		ratioColors[n-1-i] = causeColor(entry.Indicator)
	}
	if err := addColoredBars(ratios, ratioValues, ratioColors, vg.Points(12), true); err != nil {
		return err
	}
	ratios.NominalY(ratioLabels...)

	kpiExcess, err := kpiPanel(
		fmt.Sprintf("%+.1f%%", summary.COVIDExcessPct),
		"Exceso COVID 2021",
		"vs promedio 2010-2019",
		colorDanger, colorNeutral)
	if err != nil {
		return err
	}

	extremes := newPlot("Extremos por Departamento", "Tasa Mortalidad", "")
	extremes.Title.TextStyle.Font.Size = vg.Points(11)
	extremeValues := make([]float64, 6)
	extremeLabels := make([]string, 6)
	extremeColors := make([]color.RGBA, 6)
	for i, m := range summary.BottomDepartments {
		extremeValues[i] = m.Value
		extremeLabels[i] = dataset.DepartmentName(m.Department)
		extremeColors[i] = colorSuccess
	}
	for i, m := range summary.TopDepartments {
		// Highest on the top row
		extremeValues[5-i] = m.Value
		extremeLabels[5-i] = dataset.DepartmentName(m.Department)
		extremeColors[5-i] = colorDanger
	}
	if err := addColoredBars(extremes, extremeValues, extremeColors, vg.Points(10), true); err != nil {
		return err
	}
	extremes.NominalY(extremeLabels...)

	covid := newPlot("Impacto COVID-19", "", "Tasa Mortalidad")
	covid.Title.TextStyle.Font.Size = vg.Points(11)
	covidValues := []float64{
		summary.PreCOVIDMortality,
		summary.COVID2020Mortality,
		summary.COVID2021Mortality,
		summary.PostCOVIDMortality,
	}
	covidColors := []color.RGBA{colorSuccess, colorDanger, colorDanger, colorPrimary}
	if err := addColoredBars(covid, covidValues, covidColors, vg.Points(16), false); err != nil {
		return err
	}
	covid.NominalX("Pre", "2020", "2021", "Post")

	suicide := newPlot(fmt.Sprintf("Tendencia Suicidio (%+.1f%%)", summary.SuicideChangePct), "Año", "Tasa por 100.000")
	suicide.Title.TextStyle.Font.Size = vg.Points(11)
	suicide.X.Tick.Marker = yearTicks(4)
	if err := addSeries(suicide, d.CommunitySeries(dataset.IndicatorSuicide, dataset.SexBoth), colorSuicide, ""); err != nil {
		return err
	}

	plots := [][]*plot.Plot{
		{kpiMortality, kpiLife, kpiGap},
		{trend, ratios, kpiExcess},
		{extremes, covid, suicide},
	}
	return writePanels(path, plots, 16*vg.Inch, 12*vg.Inch)
}

// departmentYearGrid adapts the consolidated table to the heat map's
// grid interface. Missing cells are NaN, which the heat map leaves blank.
type departmentYearGrid struct {
	table       *dataset.Table
	departments []string // row order, lowest period mean first
	years       []int
}

func (g *departmentYearGrid) Dims() (int, int) { return len(g.years), len(g.departments) }
func (g *departmentYearGrid) X(c int) float64  { return float64(g.years[c]) }
func (g *departmentYearGrid) Y(r int) float64  { return float64(r) }

func (g *departmentYearGrid) Z(c, r int) float64 {
	key := dataset.Key{Year: g.years[c], Department: g.departments[r], Sex: dataset.SexBoth}
	v, ok := g.table.Value(key, dataset.IndicatorGeneral)
	if !ok {
		return math.NaN()
	}
	return v
}

// yearTicks labels every step-th year with plain four-digit labels.
func yearTicks(step int) plot.ConstantTicks {
	var ticks []plot.Tick
	for year := dataset.MinYear; year <= dataset.MaxYear; year++ {
		tick := plot.Tick{Value: float64(year)}
		if (year-dataset.MinYear)%step == 0 {
			tick.Label = strconv.Itoa(year)
		}
		ticks = append(ticks, tick)
	}
	return plot.ConstantTicks(ticks)
}
