package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/esim/internal/sim"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	activeDesc  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// BuildFunc creates the simulator and view options for a named preset.
type BuildFunc func(name string) (*sim.Simulator, Options, error)

// Picker lists presets and opens a live session for the chosen one.
// Esc in the session returns to the list.
type Picker struct {
	names    []string
	describe func(string) string
	build    BuildFunc
	cursor   int
	live     *Model
	err      error
	size     *tea.WindowSizeMsg
}

func NewPicker(names []string, describe func(string) string, build BuildFunc) Picker {
	if describe == nil {
		describe = func(string) string { return "" }
	}
	return Picker{names: names, describe: describe, build: build}
}

func (p Picker) Init() tea.Cmd { return nil }

// Selected is the preset under the cursor.
func (p Picker) Selected() string {
	if len(p.names) == 0 {
		return ""
	}
	return p.names[p.cursor]
}

// Live returns the open session, if any.
func (p Picker) Live() *Model { return p.live }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		p.size = &size
	}

	if p.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			p.live = nil
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.open()
	}
	return p, nil
}

func (p Picker) open() (tea.Model, tea.Cmd) {
	name := p.Selected()
	if name == "" {
		return p, nil
	}
	s, opts, err := p.build(name)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
		return p, nil
	}
	p.err = nil

	live := NewModel(s, opts)
	if p.size != nil {
		next, _ := live.Update(*p.size)
		live = next.(Model)
	}
	p.live = &live
	return p, live.Init()
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("ESIM") + "\n    " + subStyle.Render("elastic collision simulator") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range p.names {
		desc := p.describe(name)
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", name)), activeDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleDesc.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + errorStyle.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") + keyStyle.Render("enter") + idleStyle.Render(" run  ") + keyStyle.Render("esc") + idleStyle.Render(" back  ") + keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}

func RunInteractive(p Picker) error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
