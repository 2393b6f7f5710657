package viz

import "github.com/guptarohit/asciigraph"

// Chart plots series as an ASCII line chart. Series shorter than two points
// produce an empty string.
func Chart(series []float64, width, height int, caption string) string {
	if len(series) < 2 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}

// ChartMany overlays several series on one chart.
func ChartMany(series [][]float64, width, height int, caption string) string {
	var data [][]float64
	for _, s := range series {
		if len(s) >= 2 {
			data = append(data, s)
		}
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}
