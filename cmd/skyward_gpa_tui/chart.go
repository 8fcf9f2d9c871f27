package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/feelsunbreeze/skyward_gpa_tui/internal/grades"
)

const chartHeight = 10

// renderChart plots the weighted GPA series with the ceiling as a flat
// reference line. cursor selects the point whose tooltip is shown; pass -1
// for no readout.
func renderChart(c grades.Chart, cursor int) string {
	if len(c.Series) == 0 {
		return lipgloss.NewStyle().Foreground(GREY).Render(grades.NoGPAText)
	}

	values := make([]float64, len(c.Series))
	labels := make([]string, len(c.Series))
	for i, p := range c.Series {
		values[i] = p.Value
		labels[i] = p.Period
	}
	// a lone point draws nothing; repeat it so a flat segment shows
	if len(values) == 1 {
		values = append(values, values[0])
	}

	data := [][]float64{values}
	colors := []asciigraph.AnsiColor{asciigraph.Red}
	if c.HasCeiling {
		reference := make([]float64, len(values))
		for i := range reference {
			reference[i] = c.Ceiling
		}
		data = append(data, reference)
		colors = append(colors, asciigraph.Blue)
	}

	plot := asciigraph.PlotMany(data,
		asciigraph.Height(chartHeight),
		asciigraph.Width(max(len(values)*8, 40)),
		asciigraph.LowerBound(c.YMin),
		asciigraph.UpperBound(c.YMax),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
	)

	legend := lipgloss.NewStyle().Foreground(BRICK).Render("── Weighted GPA")
	if c.HasCeiling {
		legend += "   " + lipgloss.NewStyle().Foreground(NAVY).Render("── "+c.CeilingLabel())
	}

	lines := []string{legend, plot, lipgloss.NewStyle().Foreground(GREY).Render(strings.Join(labels, " → "))}
	if readout := chartReadout(c, cursor); readout != "" {
		lines = append(lines, readout)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func chartReadout(c grades.Chart, cursor int) string {
	tooltip, ok := c.Tooltip(grades.WeightedSeries, cursor)
	if !ok {
		return ""
	}
	return lipgloss.NewStyle().Bold(true).Foreground(WHITE).
		Render(fmt.Sprintf("◀ %s ▶  %s", c.Series[cursor].Period, tooltip))
}
