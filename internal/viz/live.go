package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/axisctl/internal/angle"
	"github.com/san-kum/axisctl/internal/loop"
)

const (
	dialWidth       = 60
	dialHeight      = 20
	historyCapacity = 600
	targetStep      = 5.0 // degrees per keypress
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model steps one closed control loop in terminal time and renders the
// mount pointing, tracking error, and speed commands.
type Model struct {
	axis    string
	build   func() (*loop.Loop, error)
	ctl     *loop.Loop
	target  angle.Angle
	tick    time.Duration
	now     time.Time
	elapsed float64
	running bool

	canvas     *Canvas
	errHistory []float64
	cmdHistory []float64
	lastCmd    angle.Speed
	position   angle.Angle
	skipped    int
	lastErr    error
}

// NewModel wires a live view around a loop constructor. The constructor is
// re-invoked on reset so controller and drive state start fresh.
func NewModel(axis string, target angle.Angle, tick time.Duration, build func() (*loop.Loop, error)) (Model, error) {
	ctl, err := build()
	if err != nil {
		return Model{}, err
	}
	return Model{
		axis:       axis,
		build:      build,
		ctl:        ctl,
		target:     target,
		tick:       tick,
		now:        time.Unix(0, 0),
		running:    true,
		canvas:     NewCanvas(dialWidth, dialHeight),
		errHistory: make([]float64, 0, historyCapacity),
		cmdHistory: make([]float64, 0, historyCapacity),
		position:   ctl.Position(time.Unix(0, 0)),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key events and advances the loop one tick at a time.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "left", "h":
			m.target -= angle.Deg(targetStep)
		case "right", "l":
			m.target += angle.Deg(targetStep)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, tea.Tick(m.tick, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances the synthetic clock and runs one control cycle.
func (m *Model) step() {
	m.now = m.now.Add(m.tick)
	m.elapsed += m.tick.Seconds()

	cmd, err := m.ctl.Step(m.target, m.now)
	if err != nil {
		m.lastErr = err
		m.skipped++
		return
	}
	m.lastErr = nil
	m.lastCmd = cmd
	m.position = m.ctl.Position(m.now)

	m.errHistory = append(m.errHistory, m.target.Deg()-m.position.Deg())
	if len(m.errHistory) > historyCapacity {
		m.errHistory = m.errHistory[1:]
	}
	m.cmdHistory = append(m.cmdHistory, cmd.DegPerSec())
	if len(m.cmdHistory) > historyCapacity {
		m.cmdHistory = m.cmdHistory[1:]
	}
}

// reset rebuilds the loop from scratch.
func (m *Model) reset() {
	ctl, err := m.build()
	if err != nil {
		m.lastErr = err
		return
	}
	m.ctl = ctl
	m.now = time.Unix(0, 0)
	m.elapsed = 0
	m.lastCmd = 0
	m.lastErr = nil
	m.skipped = 0
	m.errHistory = m.errHistory[:0]
	m.cmdHistory = m.cmdHistory[:0]
	m.position = ctl.Position(time.Unix(0, 0))
}

// draw renders the pointing dial: a rim circle, a tick mark at the target
// bearing, and a needle at the current encoder position.
func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := dialWidth*2, dialHeight*4
	cx, cy := cw/2, ch/2
	// the rim spans 2r horizontally, so the radius is bounded by a
	// quarter of the canvas width as well as half its height
	r := ch / 2
	if cw/4 < r {
		r = cw / 4
	}
	r -= 4

	m.canvas.DrawCircle(cx, cy, r)
	m.canvas.DrawNeedle(cx, cy, r/3, m.target.Deg())
	m.canvas.DrawNeedle(cx, cy, r-2, m.position.Deg())
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.axis)+" AXIS") + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.errHistory) > 1 {
		chart := asciigraph.Plot(m.errHistory, asciigraph.Height(4), asciigraph.Width(32), asciigraph.Caption("Tracking error (deg)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.cmdHistory) > 1 {
		chart := asciigraph.Plot(m.cmdHistory, asciigraph.Height(4), asciigraph.Width(32), asciigraph.Caption("Command (deg/s)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1fs", m.elapsed)) + "\n")
	s.WriteString(labelStyle.Render("Target") + valueStyle.Render(m.target.String()) + "\n")
	s.WriteString(labelStyle.Render("Position") + valueStyle.Render(m.position.String()) + "\n")
	s.WriteString(labelStyle.Render("Error") + valueStyle.Render(fmt.Sprintf("%.4f deg", m.target.Deg()-m.position.Deg())) + "\n")
	s.WriteString(labelStyle.Render("Command") + valueStyle.Render(m.lastCmd.String()) + "\n")
	if m.skipped > 0 {
		s.WriteString(labelStyle.Render("Skipped") + valueStyle.Render(fmt.Sprintf("%d", m.skipped)) + "\n")
	}
	if m.lastErr != nil {
		s.WriteString("\n" + alertStyle.Render(m.lastErr.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n←/→:Move target ±5°"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
