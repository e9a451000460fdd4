package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"bioflow/internal/models"
	"bioflow/internal/sim"
)

const (
	liveWidth       = 70
	liveHeight      = 8
	historyCapacity = 600
	stepsPerFrame   = 25
)

type TickMsg time.Time

// Model is the bubbletea model for a live run: it steps the reactor a few
// grid points per frame and scrolls the recent history.
type Model struct {
	reactor    *models.Bioreactor
	integrator sim.Integrator
	grid       sim.Grid
	times      []float64

	x0    sim.State
	state sim.State
	step  int

	oxygenHist  []float64
	klaHist     []float64
	biomassHist []float64

	running bool
	failed  error
}

func NewModel(reactor *models.Bioreactor, integ sim.Integrator, x0 sim.State, grid sim.Grid) Model {
	return Model{
		reactor:     reactor,
		integrator:  integ,
		grid:        grid,
		times:       grid.Times(),
		x0:          x0.Clone(),
		state:       x0.Clone(),
		oxygenHist:  make([]float64, 0, historyCapacity),
		klaHist:     make([]float64, 0, historyCapacity),
		biomassHist: make([]float64, 0, historyCapacity),
		running:     true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

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
		}
	case TickMsg:
		if m.running && m.failed == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) reset() {
	m.state = m.x0.Clone()
	m.step = 0
	m.oxygenHist = m.oxygenHist[:0]
	m.klaHist = m.klaHist[:0]
	m.biomassHist = m.biomassHist[:0]
	m.failed = nil
	m.running = true
}

func (m *Model) advance() {
	for i := 0; i < stepsPerFrame && m.step < m.grid.Points-1; i++ {
		t := m.times[m.step]
		dt := m.times[m.step+1] - t
		next := m.integrator.Step(m.reactor, m.state, t, dt)
		if !next.IsValid() {
			m.failed = &sim.StepError{Step: m.step + 1, Time: m.times[m.step+1], Err: sim.ErrNonFiniteState}
			m.running = false
			return
		}
		m.state = next
		m.step++

		m.push(&m.oxygenHist, m.state[sim.IdxOxygen])
		m.push(&m.klaHist, m.state[sim.IdxKla])
		m.push(&m.biomassHist, m.state[sim.IdxBiomass])
	}
	if m.step >= m.grid.Points-1 {
		m.running = false
	}
}

func (m *Model) push(hist *[]float64, v float64) {
	*hist = append(*hist, v)
	if len(*hist) > historyCapacity {
		*hist = (*hist)[1:]
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("bioflow live"))
	b.WriteString("\n")

	stats := []string{
		labelStyle.Render("t (hr)") + valueStyle.Render(fmt.Sprintf("%.3f", m.times[m.step])),
		labelStyle.Render("X/Xm") + valueStyle.Render(fmt.Sprintf("%.5f", m.state[sim.IdxBiomass])),
		labelStyle.Render("S") + valueStyle.Render(fmt.Sprintf("%.5f", m.state[sim.IdxOxygen])),
		labelStyle.Render("kla (1/hr)") + valueStyle.Render(fmt.Sprintf("%.3f", m.state[sim.IdxKla])),
		labelStyle.Render("setpoint Do") + valueStyle.Render(fmt.Sprintf("%.2f", m.reactor.Do)),
	}
	if m.failed != nil {
		stats = append(stats, alertStyle.Render(m.failed.Error()))
	} else if !m.running && m.step >= m.grid.Points-1 {
		stats = append(stats, valueStyle.Render("run complete"))
	}
	b.WriteString(statsStyle.Render(lipgloss.JoinVertical(lipgloss.Left, stats...)))
	b.WriteString("\n")

	if len(m.oxygenHist) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.oxygenHist,
			asciigraph.Height(liveHeight),
			asciigraph.Width(liveWidth),
			asciigraph.Caption("S (dissolved oxygen)"),
		)))
		b.WriteString("\n")
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.klaHist,
			asciigraph.Height(liveHeight),
			asciigraph.Width(liveWidth),
			asciigraph.Caption("kla"),
		)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause · r restart · q quit"))
	b.WriteString("\n")
	return b.String()
}
