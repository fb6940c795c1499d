package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	rotateStep      = 0.1
)

type TickMsg time.Time

// Options tunes the live view.
type Options struct {
	Title string
	FPS   int
	// Clock supplies the step of each frame. Nil means a fixed 1/FPS step.
	Clock   sim.Clock
	Theme   string
	GIFPath string
}

// Model is the bubbletea program around a running simulation. Ticks advance
// one frame; q, esc and ctrl+c close the simulation before quitting.
type Model[V dynamo.Vector[V]] struct {
	sim   *sim.Simulation[V]
	opts  Options
	clock sim.Clock
	tick  time.Duration

	scene  *Scene
	theme  Theme
	styles styles

	pending       sim.Input
	showHelp      bool
	recording     bool
	frames        []*image.Paletted
	initialEnergy float64
	energy        []float64
	collisions    []float64
	wallHits      int
}

func NewModel[V dynamo.Vector[V]](s *sim.Simulation[V], opts Options) *Model[V] {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "simulation.gif"
	}
	clock := opts.Clock
	if clock == nil {
		clock = sim.FixedClock{Dt: 1 / float64(opts.FPS)}
	}
	theme := GetTheme(opts.Theme)

	return &Model[V]{
		sim:           s,
		opts:          opts,
		clock:         clock,
		tick:          time.Second / time.Duration(opts.FPS),
		scene:         NewScene(width, height),
		theme:         theme,
		styles:        newStyles(theme),
		initialEnergy: s.View().KineticEnergy(),
		energy:        make([]float64, 0, historyCapacity),
		collisions:    make([]float64, 0, historyCapacity),
	}
}

func (m *Model[V]) Init() tea.Cmd {
	return m.nextTick()
}

func (m *Model[V]) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles keys and advances the simulation on every tick.
func (m *Model[V]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.close()
			return m, tea.Quit
		case "y", "Y":
			m.pending.ArmCollisions = true
		case "x", "up":
			m.scene.Camera.RotateX(rotateStep)
		case "X", "down":
			m.scene.Camera.RotateX(-rotateStep)
		case "left":
			m.scene.Camera.RotateY(rotateStep)
		case "right":
			m.scene.Camera.RotateY(-rotateStep)
		case "z":
			m.scene.Camera.RotateZ(rotateStep)
		case "Z":
			m.scene.Camera.RotateZ(-rotateStep)
		case "+", "=":
			m.scene.Camera.ZoomIn()
		case "-", "_":
			m.scene.Camera.ZoomOut()
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.sim.Phase() == sim.Closing {
			return m, tea.Quit
		}
		m.step(m.clock.Elapsed())
		return m, m.nextTick()
	}
	return m, nil
}

// step runs one frame with whatever input was queued since the last tick.
func (m *Model[V]) step(dt float64) {
	in := m.pending
	m.pending = sim.Input{}
	stats := m.sim.Frame(in, dt)

	view := m.sim.View()
	m.energy = push(m.energy, view.KineticEnergy())
	m.collisions = push(m.collisions, float64(stats.PairCollisions))
	m.wallHits += stats.WallHits

	if m.recording {
		Draw(m.scene, view)
		m.frames = append(m.frames, m.scene.Canvas.Paletted(8, 16, color.White))
	}
}

func push(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model[V]) close() {
	m.sim.Frame(sim.Input{Close: true}, 0)
	if m.recording {
		m.toggleRecording()
	}
}

func (m *Model[V]) toggleRecording() {
	m.recording = !m.recording
	if m.recording {
		m.frames = m.frames[:0]
		return
	}
	if err := m.saveGIF(); err != nil {
		log.Error("saving recording", "path", m.opts.GIFPath, "err", err)
	}
}

func (m *Model[V]) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	delay := max(1, 100/m.opts.FPS)
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(m.opts.GIFPath)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	log.Info("recording saved", "path", m.opts.GIFPath, "frames", len(m.frames))
	return f.Close()
}

func (m *Model[V]) status() string {
	st := m.styles
	var parts []string
	switch {
	case m.sim.Phase() == sim.Closing:
		parts = append(parts, st.closing.Render("CLOSING"))
	default:
		parts = append(parts, st.running.Render("RUNNING"))
	}
	if m.sim.Armed() {
		parts = append(parts, st.armed.Render("COLLISIONS ON"))
	} else {
		parts = append(parts, st.value.Render("collisions off (y)"))
	}
	if m.recording {
		parts = append(parts, st.armed.Render("● REC"))
	}
	return strings.Join(parts, "  ")
}

// View renders the canvas next to the stats panel.
func (m *Model[V]) View() string {
	view := m.sim.View()
	Draw(m.scene, view)
	st := m.styles

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = fmt.Sprintf("%dD BALLS", dynamo.Dim[V]())
	}
	s.WriteString(st.header.Render(GradientText(strings.ToUpper(title), m.theme.Primary, m.theme.Secondary)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", view.Stats.Time))
	row("Frame", fmt.Sprintf("%d", view.Stats.Index))
	row("Bodies", fmt.Sprintf("%d", len(view.Bodies)))
	ke := view.KineticEnergy()
	row("Energy", fmt.Sprintf("%.1f", ke))
	if m.initialEnergy > 0 {
		s.WriteString(st.label.Render("") + st.ProgressBar(ke/m.initialEnergy, 20) + "\n")
	}
	row("Momentum", fmt.Sprintf("%.1f", view.Momentum().Len()))
	row("Collisions", fmt.Sprintf("%d", m.sim.Collisions()))
	row("Wall hits", fmt.Sprintf("%d", m.wallHits))
	row("", Sparkline(m.collisions, 30))

	s.WriteString(st.help.Render("─────────────────────\nY:Collisions Q:Quit\nT:Theme G:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		st.canvas.Render(m.scene.Canvas.String()),
		st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Y        - Arm body collisions      ║
║  Q/Esc    - Quit                     ║
║  X/Up     - Tilt camera              ║
║  ←/→      - Turn camera              ║
║  Z        - Roll camera              ║
║  +/-      - Zoom                     ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the full-screen live view and blocks until it quits.
func Run[V dynamo.Vector[V]](s *sim.Simulation[V], opts Options) error {
	_, err := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen()).Run()
	return err
}
