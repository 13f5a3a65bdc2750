package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ringsim/internal/sim"
)

const historyCapacity = 120

type TickMsg time.Time

// LiveModel steps a runner once per tick and shows the evolving activity.
type LiveModel struct {
	runner   *sim.Runner
	metrics  []sim.Metric
	name     string
	interval time.Duration
	history  [][]float64
	running  bool
	ticking  bool
	err      error
}

// NewLiveModel wraps r. metrics should be the ones already attached to r;
// they are only read for display.
func NewLiveModel(r *sim.Runner, name string, fps int, metrics []sim.Metric) LiveModel {
	if fps <= 0 {
		fps = 10
	}
	return LiveModel{
		runner:   r,
		metrics:  metrics,
		name:     name,
		interval: time.Second / time.Duration(fps),
		history:  make([][]float64, 0, historyCapacity),
		running:  true,
	}
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys and advances the runner on each tick.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance()
			}
		case "r":
			m.runner.Reset()
			m.history = m.history[:0]
			m.err = nil
			if !m.ticking {
				m.ticking = true
				return m, m.tick()
			}
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.advance()
		}
		if m.runner.Done() || m.err != nil {
			m.ticking = false
			return m, nil
		}
		m.ticking = true
		return m, m.tick()
	}

	return m, nil
}

func (m *LiveModel) advance() {
	if m.runner.Done() || m.err != nil {
		return
	}
	a, err := m.runner.Advance()
	if err != nil {
		m.err = err
		return
	}
	if len(m.history) == historyCapacity {
		copy(m.history, m.history[1:])
		m.history = m.history[:historyCapacity-1]
	}
	m.history = append(m.history, a)
}

// Steps returns how many steps the underlying runner has taken.
func (m LiveModel) Steps() int { return m.runner.StepsTaken() }

func (m LiveModel) View() string {
	cfg := m.runner.Config()

	status := StatusRunning.Render("running")
	switch {
	case m.err != nil:
		status = ErrorStyle.Render("error")
	case m.runner.Done():
		status = StatusDone.Render("done")
	case !m.running:
		status = StatusPaused.Render("paused")
	}

	mode := "unconnected"
	if cfg.Connected {
		mode = "connected"
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(fmt.Sprintf("ringsim · %s (%s)", m.name, mode)))
	sb.WriteString("\n")

	progress := 1.0
	if cfg.Steps > 0 {
		progress = float64(m.runner.StepsTaken()) / float64(cfg.Steps)
	}
	sb.WriteString(fmt.Sprintf("%s  step %d/%d  %s\n\n", status, m.runner.StepsTaken(), cfg.Steps, ProgressBar(progress, 30)))

	activity := m.runner.Activity()
	sb.WriteString(Subtle.Render("activity") + "\n")
	sb.WriteString(Sparkline(activity, 0, cfg.Neuron.Tau) + "\n\n")

	var body string
	if len(m.history) > 0 {
		body = Heatmap(Transpose(m.history), HeatmapOptions{Caption: "neuron × time", Lo: 0, Hi: maxOf(m.history)})
	} else {
		body = Subtle.Render("waiting for first step")
	}

	stats := make([]string, 0, len(m.metrics))
	for _, metric := range m.metrics {
		stats = append(stats, MetricLabel.Render(metric.Name())+MetricValue.Render(fmt.Sprintf("%.4f", metric.Value())))
	}

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(body), "  ", strings.Join(stats, "\n")))
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString(ErrorStyle.Render(m.err.Error()) + "\n")
	}

	sb.WriteString(KeyHint.Render("space pause · n step (paused) · r reset · q quit"))
	return sb.String()
}

func maxOf(rows [][]float64) float64 {
	_, hi := Range(rows)
	if hi <= 0 {
		return 1
	}
	return hi
}
