package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"evah-sdk/cmd/evah/internal/config"
	"evah-sdk/cmd/evah/internal/utils"
	"evah-sdk/history"
)

// recentRunLimit is how many history rows the configuration view lists
const recentRunLimit = 10

// ConfigModel shows the resolved configuration and the run history
type ConfigModel struct {
	session *Session
	runs    []history.Entry
	loaded  bool
	err     error
}

type historyLoadedMsg struct {
	runs []history.Entry
	err  error
}

func loadHistory(session *Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		runs, err := session.recentRuns(ctx, recentRunLimit)
		return historyLoadedMsg{runs: runs, err: err}
	}
}

func NewConfigModel(session *Session) ConfigModel {
	return ConfigModel{session: session}
}

func (m ConfigModel) Init() tea.Cmd {
	if m.session.history == nil {
		return nil
	}
	return loadHistory(m.session)
}

func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	if msg, ok := msg.(historyLoadedMsg); ok {
		m.loaded = true
		m.runs = msg.runs
		m.err = msg.err
		if msg.err != nil {
			utils.LogDebug("Failed to load run history: %v", msg.err)
		}
	}
	return m, nil
}

func (m ConfigModel) View() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7D56F4")).
		Bold(true).
		Width(14)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA"))

	notSetStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true)

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")).
		MarginTop(2)

	containerStyle := lipgloss.NewStyle().
		MarginLeft(2)

	failedStyle := lipgloss.NewStyle().Foreground(errorColor)
	okStyle := lipgloss.NewStyle().Foreground(okColor)

	cfg := m.session.cfg
	row := func(label, value string) string {
		v := valueStyle.Render(value)
		if value == "" {
			v = notSetStyle.Render("Not set")
		}
		return containerStyle.Render(labelStyle.Render(label)) + " " + v + "\n"
	}

	var content strings.Builder
	content.WriteString(RenderHeader())
	content.WriteString("\n")
	content.WriteString(row("Base URL:", m.session.client.GetBaseURL()))
	content.WriteString(row("Variant:", cfg.Variant.String()))
	content.WriteString(row("Timeout:", cfg.Timeout.String()))
	content.WriteString(row("Output dir:", absPath(cfg.OutputDir)))
	content.WriteString(row("Debug log:", utils.LogPath()))

	dbType := ""
	if cfg.HistoryEnabled() {
		dbType = cfg.HistoryDBType
	}
	content.WriteString(row("History DB:", dbType))

	if !cfg.HistoryEnabled() {
		content.WriteString(containerStyle.Render(notSetStyle.Render(
			fmt.Sprintf("Set %s and %s to record runs", config.EnvHistoryDBType, config.EnvHistoryDSN))))
		content.WriteString("\n")
	} else if m.session.history == nil {
		content.WriteString(containerStyle.Render(failedStyle.Render("History database unavailable, see the debug log")))
		content.WriteString("\n")
	} else if m.loaded {
		content.WriteString("\n")
		if m.err != nil {
			content.WriteString(containerStyle.Render(failedStyle.Render(fmt.Sprintf("❌ %v", m.err))))
			content.WriteString("\n")
		}
		if len(m.runs) == 0 && m.err == nil {
			content.WriteString(containerStyle.Render(notSetStyle.Render("No runs recorded yet")))
			content.WriteString("\n")
		}
		for _, e := range m.runs {
			outcome := okStyle.Render(e.Outcome)
			if e.Outcome == history.OutcomeFailed {
				outcome = failedStyle.Render(fmt.Sprintf("%s (%s)", e.Outcome, e.FailureKind))
			}
			content.WriteString(containerStyle.Render(fmt.Sprintf("%s  %-9s  %8s  %s",
				e.StartedAt.Local().Format("2006-01-02 15:04:05"),
				e.Variant,
				e.Duration.Round(time.Millisecond),
				outcome)))
			content.WriteString("\n")
		}
	}

	content.WriteString(helpStyle.Render("  Press 'esc' or 'q' to go back"))
	return content.String()
}
