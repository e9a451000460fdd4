package viz

import (
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"bioflow/internal/sim"
)

// RenderChart writes a run as a PNG with two aligned panels: reaction
// kinetics (X/Xm and S against the Do threshold rule) on top, kla below.
// The split stands in for the dual-axis layout, since kla lives on a 0-20
// scale and the fractions on 0-1.
func RenderChart(result *sim.Result, do float64, path string) error {
	kinetics, err := kineticsPanel(result, do)
	if err != nil {
		return err
	}
	transfer, err := transferPanel(result)
	if err != nil {
		return err
	}

	img := vgimg.New(vg.Points(640), vg.Points(480))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 2,
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}

	canvases := plot.Align([][]*plot.Plot{{kinetics}, {transfer}}, tiles, dc)
	kinetics.Draw(canvases[0][0])
	transfer.Draw(canvases[1][0])

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(f)
	return err
}

func kineticsPanel(result *sim.Result, do float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Reaction kinetics"
	p.X.Label.Text = "time (hr)"
	p.Y.Label.Text = "X/Xm and S"

	biomass, err := plotter.NewLine(xyPoints(result.Times, result.Channel(sim.IdxBiomass)))
	if err != nil {
		return nil, err
	}
	biomass.Color = color.RGBA{G: 128, A: 255}

	oxygen, err := plotter.NewLine(xyPoints(result.Times, result.Channel(sim.IdxOxygen)))
	if err != nil {
		return nil, err
	}
	oxygen.Color = color.Black
	oxygen.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}

	rule, err := thresholdRule(result.Times, do)
	if err != nil {
		return nil, err
	}

	p.Add(biomass, oxygen, rule)
	p.Legend.Add("X/Xm", biomass)
	p.Legend.Add("S", oxygen)
	p.Legend.Add("Do", rule)
	p.Legend.Top = true
	return p, nil
}

func transferPanel(result *sim.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Mass transfer"
	p.X.Label.Text = "time (hr)"
	p.Y.Label.Text = "kla (1/hr)"

	kla, err := plotter.NewLine(xyPoints(result.Times, result.Channel(sim.IdxKla)))
	if err != nil {
		return nil, err
	}
	kla.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}

	p.Add(kla)
	return p, nil
}

// thresholdRule draws the horizontal setpoint line across the time span.
func thresholdRule(times []float64, do float64) (*plotter.Line, error) {
	pts := plotter.XYs{
		{X: times[0], Y: do},
		{X: times[len(times)-1], Y: do},
	}
	rule, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	rule.Color = color.Gray{Y: 100}
	rule.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	return rule, nil
}

func xyPoints(times, values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(times))
	for i := range times {
		pts[i].X = times[i]
		pts[i].Y = values[i]
	}
	return pts
}
