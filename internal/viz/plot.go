package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/axisctl/internal/loop"
)

// PlotResult renders a recorded run as stacked asciigraph charts sized to
// the given terminal width.
func PlotResult(result *loop.Result, width int) string {
	if len(result.Times) == 0 {
		return "(empty run)"
	}
	if width < 20 {
		width = 20
	}

	positions := make([]float64, len(result.Positions))
	targets := make([]float64, len(result.Targets))
	commands := make([]float64, len(result.Commands))
	for i := range result.Times {
		positions[i] = result.Positions[i].Deg()
		targets[i] = result.Targets[i].Deg()
		commands[i] = result.Commands[i].DegPerSec()
	}

	var b strings.Builder
	b.WriteString(asciigraph.PlotMany(
		[][]float64{targets, positions},
		asciigraph.Height(10),
		asciigraph.Width(width),
		asciigraph.Caption("Position vs target (deg)"),
	))
	b.WriteString("\n\n")
	b.WriteString(asciigraph.Plot(
		commands,
		asciigraph.Height(6),
		asciigraph.Width(width),
		asciigraph.Caption("Speed command (deg/s)"),
	))
	b.WriteString("\n")
	if len(result.Metrics) > 0 {
		b.WriteString("\n")
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(fmt.Sprintf("  %-16s %.4f\n", name, result.Metrics[name]))
		}
	}
	return b.String()
}
