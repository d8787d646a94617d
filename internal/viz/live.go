package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spherelab/internal/camera"
	"github.com/san-kum/spherelab/internal/control"
	"github.com/san-kum/spherelab/internal/dynamo"
	"github.com/san-kum/spherelab/internal/metrics"
	"github.com/san-kum/spherelab/internal/sim"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 300

	// DefaultHold is how long a key press keeps the sign at repel.
	DefaultHold = 150 * time.Millisecond
)

type TickMsg time.Time

// Model runs the driver one frame per tick and draws the last committed
// snapshot.
type Model struct {
	ctx      context.Context
	driver   *sim.Driver
	sign     *control.Sign
	camera   *camera.Perspective
	canvas   *Canvas
	interval time.Duration

	hold      time.Duration
	releaseAt time.Time
	now       func() time.Time

	last          dynamo.Snapshot
	energyHistory []float64
	spreadHistory []float64
	err           error
	quitting      bool
}

func NewModel(ctx context.Context, d *sim.Driver, sign *control.Sign, fps int) *Model {
	if fps <= 0 {
		fps = 60
	}
	c := NewCanvas(width, height)
	w, h := c.Dots()
	return &Model{
		ctx:           ctx,
		driver:        d,
		sign:          sign,
		camera:        camera.Default(float32(w) / float32(h)),
		canvas:        c,
		interval:      time.Second / time.Duration(fps),
		hold:          DefaultHold,
		now:           time.Now,
		energyHistory: make([]float64, 0, historyCapacity),
		spreadHistory: make([]float64, 0, historyCapacity),
	}
}

// Err is the error that ended the run, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		m.sign.Press()
		m.releaseAt = m.now().Add(m.hold)
	case TickMsg:
		if m.sign.Value() == control.Repel && !time.Time(msg).Before(m.releaseAt) {
			m.sign.Release()
		}
		more, snap, err := m.driver.Frame(m.ctx)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.observe(snap)
		if !more {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) observe(s dynamo.Snapshot) {
	m.last = s
	m.energyHistory = push(m.energyHistory, metrics.Kinetic(s))
	m.spreadHistory = push(m.spreadHistory, metrics.Spread(s))
	DrawScene(m.canvas, m.camera, s)
}

func push(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(HeaderStyle.Render("SPHERES") + "\n\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("STOPPED") + "\n")
		s.WriteString(m.err.Error() + "\n\n")
	case m.last.Sign == control.Repel:
		s.WriteString(StatusRepel.Render("REPEL") + "\n\n")
	default:
		s.WriteString(StatusAttract.Render("ATTRACT") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.last.Frame))
	row("Time", fmt.Sprintf("%.2fs", m.last.Time))
	row("Kinetic", fmt.Sprintf("%.3f", metrics.Kinetic(m.last)))
	row("Spread", fmt.Sprintf("%.3f", metrics.Spread(m.last)))
	row("Contacts", fmt.Sprintf("%d", m.last.Contacts))

	if len(m.spreadHistory) > 1 {
		chart := asciigraph.Plot(m.spreadHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Spread"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(MetricLabel.Render("Energy") + SparklineChart(m.energyHistory, 28) + "\n")
	s.WriteString(KeyHint.Render("any key: repel   q: quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run blocks until the user quits, the driver stops or ctx ends.
func Run(ctx context.Context, d *sim.Driver, sign *control.Sign, fps int) error {
	m := NewModel(ctx, d, sign, fps)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil {
			return m.Err()
		}
		return err
	}
	return m.Err()
}
