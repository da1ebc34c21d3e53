package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"depgraph/internal/builder"
	"depgraph/internal/graph"
	"depgraph/internal/resolver"
)

var (
	progressLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	statsKeyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statsValStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type progressMsg struct {
	done  int
	total int
}

type buildDoneMsg struct {
	graph *graph.Graph
	err   error
}

// buildModel drives the progress bar while the builder runs in a goroutine.
type buildModel struct {
	bar      progress.Model
	done     int
	total    int
	finished bool
	result   *graph.Graph
	err      error
}

func newBuildModel() buildModel {
	return buildModel{bar: progress.New(progress.WithDefaultGradient())}
}

func (m buildModel) Init() tea.Cmd {
	return nil
}

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.err = fmt.Errorf("interrupted")
			return m, tea.Quit
		}
		return m, nil
	case progressMsg:
		m.done, m.total = msg.done, msg.total
		if m.total == 0 {
			return m, nil
		}
		return m, m.bar.SetPercent(float64(m.done) / float64(m.total))
	case buildDoneMsg:
		m.finished = true
		m.result, m.err = msg.graph, msg.err
		return m, tea.Quit
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m buildModel) View() string {
	if m.finished {
		return ""
	}
	label := progressLabelStyle.Render(fmt.Sprintf("resolving %d/%d", m.done, m.total))
	return fmt.Sprintf("%s\n%s\n", label, m.bar.View())
}

// runBuildWithProgress runs the build under a bubbletea progress display.
func runBuildWithProgress(b *builder.Builder) (*graph.Graph, error) {
	p := tea.NewProgram(newBuildModel())

	b.SetProgressFunc(func(done, total int) {
		p.Send(progressMsg{done: done, total: total})
	})

	go func() {
		g, err := b.Build()
		p.Send(buildDoneMsg{graph: g, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}
	m := final.(buildModel)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// renderStats formats the resolution counters as an aligned two-column block.
func renderStats(s *resolver.Stats) string {
	var lines []string
	for _, tag := range resolver.AllStatTags {
		lines = append(lines, fmt.Sprintf("  %s %s",
			statsKeyStyle.Render(fmt.Sprintf("%-32s", tag)),
			statsValStyle.Render(fmt.Sprintf("%d", s.Get(tag)))))
	}
	return strings.Join(lines, "\n")
}
