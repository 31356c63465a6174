package render

import (
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// writePanels lays a grid of plots onto one PNG canvas. Nil cells stay
// blank.
func writePanels(path string, plots [][]*plot.Plot, width, height vg.Length) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Points(14),
		PadY:      vg.Points(14),
		PadTop:    vg.Points(10),
		PadBottom: vg.Points(10),
		PadLeft:   vg.Points(10),
		PadRight:  vg.Points(10),
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// kpiPanel builds an axis-less cell showing one big number with a label
// and a footnote, the dashboard's KPI card.
func kpiPanel(value, label, note string, valueColor, noteColor color.RGBA) (*plot.Plot, error) {
	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.5, Y: 0.62}, {X: 0.5, Y: 0.34}, {X: 0.5, Y: 0.16}},
		Labels: []string{value, label, note},
	})
	if err != nil {
		return nil, err
	}

	labels.TextStyle[0].Font.Size = vg.Points(30)
	labels.TextStyle[0].Color = valueColor
	labels.TextStyle[1].Font.Size = vg.Points(11)
	labels.TextStyle[1].Color = color.RGBA{R: 0x4a, G: 0x55, B: 0x68, A: 0xff}
	labels.TextStyle[2].Font.Size = vg.Points(10)
	labels.TextStyle[2].Color = noteColor
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}

	p.Add(labels)
	return p, nil
}
