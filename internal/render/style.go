package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"cvepi/internal/dataset"
	"cvepi/internal/metrics"
)

// Report palette, hex values carried over from the published dashboard.
var (
	colorPrimary   = color.RGBA{R: 0x1a, G: 0x36, B: 0x5d, A: 0xff}
	colorDanger    = color.RGBA{R: 0xc5, G: 0x30, B: 0x30, A: 0xff}
	colorSuccess   = color.RGBA{R: 0x27, G: 0x67, B: 0x49, A: 0xff}
	colorMale      = color.RGBA{R: 0x31, G: 0x82, B: 0xce, A: 0xff}
	colorFemale    = color.RGBA{R: 0xd5, G: 0x3f, B: 0x8c, A: 0xff}
	colorBoth      = color.RGBA{R: 0x80, G: 0x5a, B: 0xd5, A: 0xff}
	colorCancer    = color.RGBA{R: 0xe5, G: 0x3e, B: 0x3e, A: 0xff}
	colorIschemic  = color.RGBA{R: 0xdd, G: 0x6b, B: 0x20, A: 0xff}
	colorCerebro   = color.RGBA{R: 0xd6, G: 0x9e, B: 0x2e, A: 0xff}
	colorSuicide   = color.RGBA{R: 0x6b, G: 0x46, B: 0xc1, A: 0xff}
	colorNeutral   = color.RGBA{R: 0x71, G: 0x80, B: 0x96, A: 0xff}
	colorAlicante  = color.RGBA{R: 0x38, G: 0xa1, B: 0x69, A: 0xff}
	colorValencia  = color.RGBA{R: 0x31, G: 0x82, B: 0xce, A: 0xff}
	colorCastellon = color.RGBA{R: 0xd6, G: 0x9e, B: 0x2e, A: 0xff}
)

func sexColor(sex dataset.Sex) color.RGBA {
	switch sex {
	case dataset.SexMale:
		return colorMale
	case dataset.SexFemale:
		return colorFemale
	default:
		return colorBoth
	}
}

func causeColor(ind dataset.Indicator) color.RGBA {
	switch ind {
	case dataset.IndicatorCancer:
		return colorCancer
	case dataset.IndicatorIschemic:
		return colorIschemic
	case dataset.IndicatorCerebrovascular:
		return colorCerebro
	case dataset.IndicatorSuicide:
		return colorSuicide
	default:
		return colorPrimary
	}
}

func provinceColor(province string) color.RGBA {
	switch province {
	case dataset.ProvinceAlicante:
		return colorAlicante
	case dataset.ProvinceValencia:
		return colorValencia
	case dataset.ProvinceCastellon:
		return colorCastellon
	default:
		return colorNeutral
	}
}

func sexLabel(sex dataset.Sex) string {
	switch sex {
	case dataset.SexMale:
		return "Hombres"
	case dataset.SexFemale:
		return "Mujeres"
	default:
		return "Ambos sexos"
	}
}

// newPlot creates a plot with the shared title style and grid
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func seriesXYs(series []metrics.YearValue) plotter.XYs {
	xys := make(plotter.XYs, len(series))
	for i, point := range series {
		xys[i].X = float64(point.Year)
		xys[i].Y = point.Value
	}
	return xys
}

// addSeries draws one annual series as a line with point markers and a
// legend entry.
func addSeries(p *plot.Plot, series []metrics.YearValue, c color.RGBA, label string) error {
	xys := seriesXYs(series)

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(2)

	points, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	points.GlyphStyle.Color = c
	points.GlyphStyle.Radius = vg.Points(3)

	p.Add(line, points)
	if label != "" {
		p.Legend.Add(label, line, points)
	}
	return nil
}

// addColoredBars draws one bar per value, each with its own color. The
// bar chart type carries a single color, so every bar gets its own chart
// holding zeros elsewhere.
func addColoredBars(p *plot.Plot, values []float64, colors []color.RGBA, width vg.Length, horizontal bool) error {
	for i, v := range values {
		vals := make(plotter.Values, len(values))
		vals[i] = v
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return err
		}
		bars.Color = colors[i]
		bars.LineStyle.Width = 0
		bars.Horizontal = horizontal
		p.Add(bars)
	}
	return nil
}

// addDashedLine draws a straight reference or trend segment
func addDashedLine(p *plot.Plot, xys plotter.XYs, c color.RGBA, label string) error {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(2)
	line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(line)
	if label != "" {
		p.Legend.Add(label, line)
	}
	return nil
}
