package viz

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/esim/internal/kinetic"
	"github.com/san-kum/esim/internal/sim"
)

const (
	historyCapacity = 600
	statsWidth      = 44
	maxSpeed        = 64
)

type TickMsg time.Time

// Options configures a live session.
type Options struct {
	Name  string
	Theme string
	FPS   int
	// Trail is the number of positions of body 0 kept on screen.
	Trail      int
	Yaw, Pitch float64
	// Width and Height are the canvas size in terminal cells.
	Width, Height int
	// Speed is the number of events processed per frame.
	Speed int
}

func DefaultOptions() Options {
	return Options{
		Name:   "esim",
		Theme:  ThemeClassic.Name,
		FPS:    60,
		Trail:  200,
		Yaw:    30,
		Pitch:  20,
		Width:  80,
		Height: 24,
		Speed:  1,
	}
}

// Model drives a simulator from a ticker and renders it.
type Model struct {
	sim      *sim.Simulator
	opts     Options
	canvas   *Canvas
	scene    *Scene
	theme    Theme
	frame    sim.Frame
	running  bool
	err      error
	energy   []float64
	history  []sim.Frame
	playHead int
	speed    int
	pairs    int
	walls    int
	showHelp bool
}

func NewModel(s *sim.Simulator, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Speed < 1 {
		opts.Speed = 1
	}
	canvas := NewCanvas(opts.Width, opts.Height)
	w, h := canvas.PixelSize()
	proj := NewProjector(s.Bounds(), NewCamera(opts.Yaw, opts.Pitch), w, h)

	m := Model{
		sim:      s,
		opts:     opts,
		canvas:   canvas,
		scene:    NewScene(proj, opts.Trail),
		theme:    GetTheme(opts.Theme),
		frame:    s.Snapshot(),
		running:  true,
		energy:   make([]float64, 0, historyCapacity),
		history:  make([]sim.Frame, 0, historyCapacity),
		playHead: -1,
		speed:    opts.Speed,
	}
	m.scene.Track(m.frame)
	m.record(m.frame)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Frame() sim.Frame { return m.frame }
func (m Model) Running() bool    { return m.running }
func (m Model) Theme() Theme     { return m.theme }
func (m Model) Speed() int       { return m.speed }
func (m Model) Err() error       { return m.err }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width-statsWidth-6, msg.Height-4)
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.advance(m.speed)
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cam := m.scene.Projector().Camera()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "s":
		if !m.running {
			m.playHead = -1
			m.advance(1)
		}
	case "r":
		m.reset()
	case "[":
		m.scrub(-1)
	case "]":
		m.scrub(1)
	case "t":
		m.theme = NextTheme(m.theme)
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "left", "h":
		cam.Orbit(-0.1, 0)
	case "right", "l":
		cam.Orbit(0.1, 0)
	case "up", "k":
		cam.Orbit(0, 0.1)
	case "down", "j":
		cam.Orbit(0, -0.1)
	case "z":
		cam.ZoomIn()
	case "Z":
		cam.ZoomOut()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	w, h = max(w, 20), max(h, 8)
	m.canvas = NewCanvas(w, h)
	m.scene.Projector().Resize(m.canvas.PixelSize())
}

// advance processes up to n events. Finished or failed runs stop.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		if m.err != nil || m.sim.Done() {
			m.running = false
			return
		}
		f, err := m.sim.Step()
		if err != nil {
			m.err = err
			m.running = false
			log.Printf("viz: %v", err)
			return
		}
		if f.Changed {
			switch f.Event.Kind {
			case kinetic.KindPair:
				m.pairs++
			case kinetic.KindWall:
				m.walls++
			}
		}
		m.frame = f
		m.scene.Track(f)
		m.record(f)
	}
}

func (m *Model) record(f sim.Frame) {
	m.energy = append(m.energy, f.KineticEnergy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
	m.history = append(m.history, f)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// scrub moves the playback position through recent frames. Moving past the
// newest frame returns to the live simulation.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	m.sim.Reset()
	m.err = nil
	m.pairs, m.walls = 0, 0
	m.energy = m.energy[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.scene.ResetTrail()
	m.frame = m.sim.Snapshot()
	m.scene.Track(m.frame)
	m.record(m.frame)
}

// displayed returns the frame under the play head.
func (m Model) displayed() sim.Frame {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.frame
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return failedStyle.Render("ERROR")
	case m.playHead != -1:
		back := m.history[m.playHead].Time - m.frame.Time
		if m.running {
			return runningStyle.Render(fmt.Sprintf("REPLAYING (%.1f)", back))
		}
		return heldStyle.Render(fmt.Sprintf("REPLAY PAUSED (%.1f)", back))
	case m.sim.Done():
		return heldStyle.Render("DONE")
	case !m.running:
		return heldStyle.Render("PAUSED")
	}
	return runningStyle.Render("RUNNING")
}

// progress is the share of the tick or time budget used, or -1 when the run
// is unbounded.
func (m Model) progress() float64 {
	cfg := m.sim.Config()
	switch {
	case cfg.Ticks > 0:
		return float64(m.frame.Step) / float64(cfg.Ticks)
	case cfg.Duration > 0:
		return m.frame.Time / cfg.Duration
	}
	return -1
}

// View renders the canvas and the stats panel.
func (m Model) View() string {
	f := m.displayed()
	m.scene.Draw(m.canvas, f)
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.opts.Name)) + "\n")
	s.WriteString(m.status() + "\n\n")
	if chart := Chart(m.energy, 30, 4, "Kinetic energy"); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	s.WriteString(row("Time", fmt.Sprintf("%.3f", f.Time)))
	s.WriteString(row("Step", fmt.Sprintf("%d", f.Step)))
	s.WriteString(row("Bodies", fmt.Sprintf("%d", len(f.Bodies))))
	s.WriteString(row("Event", f.Event.String()))
	s.WriteString(row("Energy", fmt.Sprintf("%.4f", f.KineticEnergy())))
	s.WriteString(row("Collisions", fmt.Sprintf("%d", m.pairs)))
	s.WriteString(row("Wall hits", fmt.Sprintf("%d", m.walls)))
	s.WriteString(row("Speed", fmt.Sprintf("%dx", m.speed)))
	s.WriteString(row("Theme", m.theme.Name))
	if p := m.progress(); p >= 0 {
		s.WriteString(row("Progress", ProgressBar(p, 20)))
	}
	if m.err != nil {
		s.WriteString("\n" + failedStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause S:Step R:Reset\nT:Theme  +/-:Speed Q:Quit\n[ ]:Time-Travel ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  S        - Step one event (paused)  ║
║  R        - Reset simulation         ║
║  [ ]      - Rewind / forward         ║
║  + -      - Events per frame         ║
║  T        - Cycle themes             ║
║  Arrows   - Orbit camera (3D)        ║
║  z Z      - Zoom in / out (3D)       ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive runs m full screen until the user quits.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
