package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"bioflow/internal/sim"
)

const (
	graphWidth  = 80
	graphHeight = 10
)

// RenderTrajectory draws the three state channels as stacked terminal
// graphs.
func RenderTrajectory(result *sim.Result, do float64) string {
	var b strings.Builder

	b.WriteString(asciigraph.Plot(result.Channel(sim.IdxBiomass),
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption("X/Xm (biomass)"),
	))
	b.WriteString("\n\n")

	b.WriteString(asciigraph.Plot(result.Channel(sim.IdxOxygen),
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(fmt.Sprintf("S (dissolved oxygen, setpoint Do=%.2f)", do)),
	))
	b.WriteString("\n\n")

	b.WriteString(asciigraph.Plot(result.Channel(sim.IdxKla),
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption("kla (1/hr)"),
	))
	b.WriteString("\n")

	return b.String()
}

// RenderSpectrum draws a power spectrum with the dominant frequency noted.
func RenderSpectrum(ps []float64, dominant float64) string {
	plotData := ps
	if len(plotData) > 4 {
		plotData = ps[:len(ps)/4]
	}

	var b strings.Builder
	b.WriteString(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(graphWidth),
		asciigraph.Caption("power spectrum (S channel)"),
	))
	b.WriteString("\n")
	if dominant > 0 {
		fmt.Fprintf(&b, "dominant frequency: %.3f 1/hr (period %.3f hr)\n", dominant, 1/dominant)
	} else {
		b.WriteString("no dominant oscillation\n")
	}
	return b.String()
}
