package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth - 4)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	heldStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa"))
	// Sparkline levels, quietest first.
	levelStyles = [...]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#335566")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")),
	}
)

// ProgressBar renders how much of a run budget is used, percent in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := min(max(int(percent*float64(width)), 0), width)
	return barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// Sparkline draws non-negative values such as per-bin event counts, one
// column per value, down-sampled by taking the bucket maximum so short
// bursts stay visible.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return strings.Repeat("─", max(width, 0))
	}

	buckets := make([]float64, min(width, len(values)))
	for i, v := range values {
		j := i * len(buckets) / len(values)
		buckets[j] = max(buckets[j], v)
	}

	peak := 0.0
	for _, v := range buckets {
		peak = max(peak, v)
	}

	chars := []rune("▁▂▃▄▅▆▇█")
	var sb strings.Builder
	for _, v := range buckets {
		norm := 0.0
		if peak > 0 {
			norm = max(v, 0) / peak
		}
		idx := min(int(norm*float64(len(chars)-1)+0.5), len(chars)-1)
		level := min(int(norm*float64(len(levelStyles))), len(levelStyles)-1)
		sb.WriteString(levelStyles[level].Render(string(chars[idx])))
	}
	return sb.String()
}
