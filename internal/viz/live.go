package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dtesn/internal/engine"
	"github.com/san-kum/dtesn/internal/membrane"
)

const historyCapacity = 600

// Builder recreates a fresh hierarchy and engine, used at startup and on
// reset.
type Builder func() (*membrane.Hierarchy, *engine.Engine, error)

type TickMsg time.Time

// Model drives one evolving hierarchy inside the terminal UI.
type Model struct {
	build  Builder
	h      *membrane.Hierarchy
	engine *engine.Engine

	cycle    int
	applied  []float64
	lastTick engine.Metrics
	running  bool
	err      error
	showHelp bool
}

func NewModel(build Builder) (Model, error) {
	h, e, err := build()
	if err != nil {
		return Model{}, err
	}
	return Model{
		build:   build,
		h:       h,
		engine:  e,
		applied: make([]float64, 0, historyCapacity),
		running: true,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return TickMsg(t) })
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
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case TickMsg:
		if m.running && !m.h.Halted() && m.err == nil {
			metrics, err := m.engine.Evolve(context.Background(), m.h, 1)
			if err != nil {
				m.err = err
			} else {
				m.cycle += metrics.Cycles
				m.lastTick = metrics
				m.applied = append(m.applied, float64(metrics.RulesApplied))
				if len(m.applied) > historyCapacity {
					m.applied = m.applied[1:]
				}
			}
		}
		return m, tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) reset() {
	h, e, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.h = h
	m.engine = e
	m.cycle = 0
	m.applied = m.applied[:0]
	m.lastTick = engine.Metrics{}
	m.err = nil
	m.running = true
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("dtesn evolve: %s", m.h.Name()))

	tree := treeStyle.Render(RenderTree(m.h))
	stats := statsStyle.Render(m.statsView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, tree, stats)

	var graph string
	if len(m.applied) > 1 {
		graph = graphStyle.Render(asciigraph.Plot(m.applied,
			asciigraph.Height(6), asciigraph.Caption("rules applied per cycle")))
	}

	help := helpStyle.Render("space pause · r reset · ? help · q quit")
	if m.showHelp {
		help = helpStyle.Render(strings.Join([]string{
			"space  pause/resume evolution",
			"r      rebuild the hierarchy and restart",
			"?      toggle this help",
			"q      quit",
		}, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, graph, help)
}

func (m Model) statsView() string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		row("cycle", fmt.Sprintf("%d", m.cycle)),
		row("membranes", fmt.Sprintf("%d", m.h.Len())),
		row("depth", fmt.Sprintf("%d", m.h.MaxDepth())),
		row("applications", fmt.Sprintf("%d", m.h.RuleApplications())),
		row("last cycle", fmt.Sprintf("%d rules", m.lastTick.RulesApplied)),
		row("score", fmt.Sprintf("%.2f", m.lastTick.PerformanceScore)),
	}
	if m.h.Halted() {
		lines = append(lines, haltedStyle.Render("HALTED"))
	} else if !m.running {
		lines = append(lines, valueStyle.Render("paused"))
	}
	if m.err != nil {
		lines = append(lines, haltedStyle.Render("error: "+m.err.Error()))
	}
	return strings.Join(lines, "\n")
}

// RunLive starts the interactive monitor and blocks until it exits.
func RunLive(build Builder) error {
	m, err := NewModel(build)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
