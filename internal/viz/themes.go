package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Body      lipgloss.Color
	Highlight lipgloss.Color
	Trail     lipgloss.Color
	Wall      lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
}

// Available themes
var (
	// ThemeClassic draws blue balls that flash red
	// on contact and a dark trail.
	ThemeClassic = Theme{
		Name:      "classic",
		Body:      lipgloss.Color("#3b6cff"),
		Highlight: lipgloss.Color("#ff2020"),
		Trail:     lipgloss.Color("#9a9a9a"),
		Wall:      lipgloss.Color("#555555"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Accent:    lipgloss.Color("#00ccff"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Body:      lipgloss.Color("#00ffff"), // Cyan
		Highlight: lipgloss.Color("#ff00ff"), // Magenta
		Trail:     lipgloss.Color("#ffff00"), // Yellow
		Wall:      lipgloss.Color("#444466"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Accent:    lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Body:      lipgloss.Color("#00cc00"), // Green phosphor
		Highlight: lipgloss.Color("#ccff88"),
		Trail:     lipgloss.Color("#008800"),
		Wall:      lipgloss.Color("#005500"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Accent:    lipgloss.Color("#88ff88"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Body:      lipgloss.Color("#00a8cc"),
		Highlight: lipgloss.Color("#ffd700"),
		Trail:     lipgloss.Color("#4488aa"),
		Wall:      lipgloss.Color("#0077be"), // Ocean blue
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Accent:    lipgloss.Color("#00ff88"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Body:      lipgloss.Color("#feca57"),
		Highlight: lipgloss.Color("#ff4757"),
		Trail:     lipgloss.Color("#ff9ff3"),
		Wall:      lipgloss.Color("#8b6b8c"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Accent:    lipgloss.Color("#ff6b6b"), // Coral
	}

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) toneStyles() map[Tone]lipgloss.Style {
	return map[Tone]lipgloss.Style{
		ToneNone:      lipgloss.NewStyle(),
		ToneWall:      lipgloss.NewStyle().Foreground(t.Wall),
		ToneTrail:     lipgloss.NewStyle().Foreground(t.Trail),
		ToneBody:      lipgloss.NewStyle().Foreground(t.Body),
		ToneHighlight: lipgloss.NewStyle().Foreground(t.Highlight).Bold(true),
	}
}

// Hex returns the color used for tone, for renderers outside the terminal.
func (t Theme) Hex(tone Tone) string {
	switch tone {
	case ToneWall:
		return string(t.Wall)
	case ToneTrail:
		return string(t.Trail)
	case ToneHighlight:
		return string(t.Highlight)
	default:
		return string(t.Body)
	}
}
