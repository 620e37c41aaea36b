// Package tui replays a finished run in the terminal: a scrolling velocity
// trace with a stats panel, driven at a fixed frame rate.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/podsim/internal/sim"
)

const (
	graphWidth  = 80
	graphHeight = 12
	window      = 400 // samples visible in the scrolling trace
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

type model struct {
	res       *sim.Result
	playHead  int
	speed     int // records advanced per frame
	frameRate int
	playing   bool
	done      bool
}

func newModel(res *sim.Result, frameRate int) model {
	if frameRate <= 0 {
		frameRate = 30
	}
	return model{
		res:       res,
		speed:     1,
		frameRate: frameRate,
		playing:   true,
	}
}

// Run replays res until quit.
func Run(res *sim.Result, frameRate int) error {
	p := tea.NewProgram(newModel(res, frameRate))
	_, err := p.Run()
	return err
}

func (m model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "r":
			m.playHead = 0
			m.done = false
			m.playing = true
		case "+", "=":
			if m.speed < 64 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 1 {
				m.speed /= 2
			}
		case "left":
			m.playHead -= m.speed
			if m.playHead < 0 {
				m.playHead = 0
			}
			m.done = false
		case "right":
			m.advance()
		}
		return m, nil

	case tickMsg:
		if m.playing && !m.done {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *model) advance() {
	m.playHead += m.speed
	if m.playHead >= len(m.res.Records)-1 {
		m.playHead = len(m.res.Records) - 1
		m.done = true
	}
}

func (m model) View() string {
	rec := m.res.Records[m.playHead]
	ph := m.res.Phases[m.playHead]
	t := m.res.Times[m.playHead]

	lo := m.playHead - window
	if lo < 0 {
		lo = 0
	}
	velocities := make([]float64, 0, m.playHead-lo+1)
	for _, r := range m.res.Records[lo : m.playHead+1] {
		velocities = append(velocities, r.Velocity)
	}

	graph := "waiting for data"
	if len(velocities) >= 2 {
		graph = asciigraph.Plot(velocities,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(fmt.Sprintf("velocity [m/s], t=%.2fs", t)),
		)
	}

	var stats strings.Builder
	row := func(label string, format string, args ...any) {
		stats.WriteString(labelStyle.Render(label))
		stats.WriteString(valueStyle.Render(fmt.Sprintf(format, args...)))
		stats.WriteString("\n")
	}
	row("phase", "%s", phaseStyle.Render(ph.String()))
	row("velocity", "%8.2f m/s", rec.Velocity)
	row("distance", "%8.1f m", rec.Distance)
	row("omega", "%8.1f rad/s", rec.Omega)
	row("motor torque", "%8.2f N*m", rec.MotorTorque)
	row("power in", "%8.0f W", rec.PowerIn)
	if math.IsNaN(rec.Efficiency) {
		row("efficiency", "   --")
	} else {
		row("efficiency", "%8.3f", rec.Efficiency)
	}
	row("step", "%d / %d  (x%d)", m.playHead, len(m.res.Records)-1, m.speed)

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("podsim run replay"),
		graphStyle.Render(graph),
		stats.String(),
		helpStyle.Render("space pause · ←/→ scrub · +/- speed · r restart · q quit"),
	)
}
