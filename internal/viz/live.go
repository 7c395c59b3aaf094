package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gyrosim/internal/field"
	"github.com/san-kum/gyrosim/internal/motion"
	"github.com/san-kum/gyrosim/internal/orbit"
	"github.com/san-kum/gyrosim/internal/step"
)

const (
	canvasWidth     = 64
	canvasHeight    = 28
	historyCapacity = 400
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a batch live and renders the poloidal cross section.
type Model struct {
	batch   *orbit.Batch
	h       []float64
	bf      field.Evaluator
	ef      field.Electric
	stepper *step.GC

	section      *CrossSection
	trails       [][2]float64
	rhoHistory   []float64
	stepsPerTick int
	steps        int
	t            float64
	paused       bool
	fps          int
}

// NewModel prepares a live view around an initialized batch. bound is the
// half-width of the displayed window around the magnetic axis.
func NewModel(p *orbit.Batch, h []float64, bf field.Evaluator, ef field.Electric, eom motion.Model, bound float64, stepsPerTick, fps int) Model {
	axisR, axisZ := bf.Axis()
	section := NewCrossSection(canvasWidth, canvasHeight, axisR, axisZ, bound)
	return Model{
		batch:        p,
		h:            h,
		bf:           bf,
		ef:           ef,
		stepper:      step.NewGC(eom),
		section:      section,
		rhoHistory:   make([]float64, 0, historyCapacity),
		stepsPerTick: stepsPerTick,
		fps:          fps,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}

	case TickMsg:
		if !m.paused && m.batch.NumRunning() > 0 {
			for k := 0; k < m.stepsPerTick; k++ {
				m.stepper.Step(m.batch, m.h, m.bf, m.ef)
				m.steps++
			}
			m.t += float64(m.stepsPerTick) * m.h[0]

			for i := 0; i < m.batch.N(); i++ {
				if m.batch.Running[i] {
					m.trails = append(m.trails, [2]float64{m.batch.R[i], m.batch.Z[i]})
				}
			}
			if len(m.trails) > historyCapacity*m.batch.N() {
				m.trails = m.trails[len(m.trails)-historyCapacity*m.batch.N():]
			}

			if m.batch.N() > 0 {
				m.rhoHistory = append(m.rhoHistory, m.batch.Rho[0])
				if len(m.rhoHistory) > historyCapacity {
					m.rhoHistory = m.rhoHistory[1:]
				}
			}
		}
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	m.section.Clear()
	m.section.Frame()
	rs := make([]float64, len(m.trails))
	zs := make([]float64, len(m.trails))
	for i, p := range m.trails {
		rs[i] = p[0]
		zs[i] = p[1]
	}
	m.section.AddPoints(rs, zs)

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("gyrosim live") + "\n")
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.3e s", m.t))
	row("steps", fmt.Sprintf("%d", m.steps))
	row("running", fmt.Sprintf("%d / %d", m.batch.NumRunning(), m.batch.N()))
	if m.batch.N() > 0 {
		row("rho[0]", fmt.Sprintf("%.4f", m.batch.Rho[0]))
		row("vpar[0]", fmt.Sprintf("%.3e m/s", m.batch.Vpar[0]))
		row("pol[0]", fmt.Sprintf("%.3f rad", m.batch.Pol[0]))
	}
	for i := 0; i < m.batch.N(); i++ {
		if !m.batch.Running[i] && !m.batch.Err[i].OK() {
			stats.WriteString(errStyle.Render(fmt.Sprintf("lane %d: %s", i, m.batch.Err[i].Error())) + "\n")
		}
	}

	if len(m.rhoHistory) > 2 {
		graph := asciigraph.Plot(m.rhoHistory,
			asciigraph.Height(6),
			asciigraph.Width(38),
			asciigraph.Caption("rho (lane 0)"))
		stats.WriteString(graphStyle.Render(graph))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.section.String()),
		statsStyle.Render(stats.String()),
	)
	return body + helpStyle.Render("\n space pause · q quit")
}

// RunLive starts the live view and blocks until quit.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
