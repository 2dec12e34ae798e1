package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"evah-sdk/cmd/evah/internal/utils"
	"evah-sdk/render"
	"evah-sdk/run"
)

// RunViewModel shows run progress and the summary of the last run
type RunViewModel struct {
	session        *Session
	spinner        spinner.Model
	running        bool
	statusMessages []string
}

type runFinishedMsg struct {
	outcome  run.Outcome
	accepted bool
}

type statusUpdateMsg struct {
	message string
}

func submitRun(controller *run.Controller) tea.Cmd {
	return func() tea.Msg {
		out, accepted := controller.Submit(context.Background())
		return runFinishedMsg{outcome: out, accepted: accepted}
	}
}

func waitForStatusUpdates(statusChan <-chan string) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-statusChan:
			if !ok {
				return statusUpdateMsg{message: ""}
			}
			return statusUpdateMsg{message: msg}
		case <-time.After(100 * time.Millisecond):
			return statusUpdateMsg{message: ""}
		}
	}
}

func NewRunViewModel(session *Session) RunViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return RunViewModel{
		session: session,
		spinner: s,
	}
}

func (m RunViewModel) Init() tea.Cmd {
	return nil
}

// Start submits the current parameters unless a run is already in flight
func (m RunViewModel) Start() (RunViewModel, tea.Cmd) {
	if m.running || !m.session.controller.CanSubmit() {
		return m, nil
	}
	m.running = true
	m.statusMessages = []string{"Submitting parameters..."}
	return m, tea.Batch(
		m.spinner.Tick,
		submitRun(m.session.controller),
		waitForStatusUpdates(m.session.statusChan),
	)
}

func (m RunViewModel) Update(msg tea.Msg) (RunViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statusUpdateMsg:
		if msg.message != "" {
			m.statusMessages = append(m.statusMessages, msg.message)
		}
		if m.running {
			return m, waitForStatusUpdates(m.session.statusChan)
		}
		return m, nil

	case runFinishedMsg:
		m.running = false
		if !msg.accepted {
			return m, nil
		}
		out := msg.outcome
		m.session.lastOutcome = &out
		if out.Err != nil {
			m.statusMessages = append(m.statusMessages, fmt.Sprintf("❌ Run failed (%s error)", out.FailureKind()))
			utils.LogDebug("run %s failed: %v", out.RunID, out.Err)
		} else {
			m.statusMessages = append(m.statusMessages, fmt.Sprintf("✓ Run completed in %s", out.Duration.Round(time.Millisecond)))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m.Start()
		case "e":
			if m.session.controller.Dataset() != nil {
				return m, func() tea.Msg { return NavigateMsg{view: ViewExport} }
			}
		}
	}
	return m, nil
}

func (m RunViewModel) View() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC")).
		MarginLeft(2)
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginLeft(4)
	errorStyle := lipgloss.NewStyle().
		Foreground(errorColor).
		MarginLeft(4)
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1).
		MarginLeft(2)

	var b strings.Builder
	b.WriteString(RenderHeader())
	b.WriteString("\n")

	for i, msg := range m.statusMessages {
		switch {
		case strings.HasPrefix(msg, "❌"):
			b.WriteString(errorStyle.Render("  " + msg))
		case i == len(m.statusMessages)-1 && m.running:
			b.WriteString(style.Render(fmt.Sprintf("  %s %s", m.spinner.View(), msg)))
		default:
			b.WriteString(statusStyle.Render("  " + msg))
		}
		b.WriteString("\n")
	}

	if out := m.session.lastOutcome; out != nil && !m.running {
		b.WriteString("\n")
		if out.Err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("The model run did not complete. Details were written to %s", utils.LogPath())))
			b.WriteString("\n")
		}
		if out.RenderErr != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Plots could not be drawn: %v", out.RenderErr)))
			b.WriteString("\n")
		}
	}

	if m.session.lastOutcome == nil && !m.running {
		b.WriteString(style.Render("No results yet. Fill in the parameters and run the model."))
		b.WriteString("\n")
	}

	// Results of the last successful run stay visible after a failure
	if ds := m.session.controller.Dataset(); ds != nil {
		if stats, err := render.Summarize(ds); err == nil {
			b.WriteString("\n")
			b.WriteString(renderStatsPanel(stats))
			b.WriteString("\n")
		}
		b.WriteString(renderPlotList(m.session.preview))
	}

	b.WriteString(helpStyle.Render("r: run again • e: export • esc: back"))
	return b.String()
}

func renderStatsPanel(stats render.Stats) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Width(36)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		Padding(0, 1).
		MarginLeft(2)

	var rows []string
	for _, line := range stats.Lines() {
		rows = append(rows, labelStyle.Render(line.Label)+valueStyle.Render(line.Value))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func renderPlotList(sink *render.MemorySink) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginLeft(2)
	_, updates := sink.Counts()

	var b strings.Builder
	for _, id := range sink.IDs() {
		p, ok := sink.Plot(id)
		if !ok {
			continue
		}
		b.WriteString(style.Render(fmt.Sprintf("▪ %s (%d traces)", p.Layout.Title, len(p.Traces))))
		b.WriteString("\n")
	}
	if updates > 0 {
		b.WriteString(style.Render(fmt.Sprintf("Plots updated in place %d times", updates)))
		b.WriteString("\n")
	}
	return b.String()
}
