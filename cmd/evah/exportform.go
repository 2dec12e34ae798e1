package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"evah-sdk/cmd/evah/internal/utils"
)

const (
	formatCSV    = "csv"
	formatNetCDF = "netcdf"
	formatPNG    = "png"
	formatHTML   = "html"
)

var exportAccent = lipgloss.AdaptiveColor{Light: "#E4572E", Dark: "#E4572E"}

// exportChoices is bound to the form fields, so it must outlive each
// value copy of the model
type exportChoices struct {
	formats []string
	dir     string
	confirm bool
}

func (c *exportChoices) options() ExportOptions {
	return ExportOptions{
		CSV:    slices.Contains(c.formats, formatCSV),
		NetCDF: slices.Contains(c.formats, formatNetCDF),
		PNG:    slices.Contains(c.formats, formatPNG),
		HTML:   slices.Contains(c.formats, formatHTML),
	}
}

type ExportFormModel struct {
	session  *Session
	form     *huh.Form
	choices  *exportChoices
	lg       *lipgloss.Renderer
	started  bool
	done     bool
	written  []string
	err      error
	noResult bool
}

type exportDoneMsg struct {
	written []string
	err     error
}

func runExport(session *Session, opts ExportOptions, dir string) tea.Cmd {
	return func() tea.Msg {
		ds := session.controller.Dataset()
		written, err := exportResults(ds, session.store.Variant(), dir, opts)
		if err != nil {
			utils.LogDebug("export to %s failed: %v", dir, err)
		}
		return exportDoneMsg{written: written, err: err}
	}
}

func NewExportFormModel(session *Session) ExportFormModel {
	m := ExportFormModel{
		session: session,
		lg:      lipgloss.DefaultRenderer(),
		choices: &exportChoices{
			formats: []string{formatCSV},
			dir:     session.cfg.OutputDir,
		},
		noResult: session.controller.Dataset() == nil,
	}

	theme := huh.ThemeCharm()
	theme.Focused.Base = theme.Focused.Base.BorderForeground(exportAccent)
	theme.Focused.Title = theme.Focused.Title.Foreground(exportAccent)
	theme.Focused.TextInput.Cursor = theme.Focused.TextInput.Cursor.Foreground(exportAccent)
	theme.Focused.TextInput.Prompt = theme.Focused.TextInput.Prompt.Foreground(exportAccent)

	formats := []huh.Option[string]{
		huh.NewOption("CSV tables", formatCSV).Selected(true),
	}
	if session.store.Variant().HasWavelengths() {
		formats = append(formats, huh.NewOption("NetCDF (when returned by the model)", formatNetCDF))
	}
	formats = append(formats,
		huh.NewOption("PNG images", formatPNG),
		huh.NewOption("HTML page", formatHTML),
	)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key("formats").
				Title("Formats").
				Description("Files to write for the last run").
				Options(formats...).
				Value(&m.choices.formats).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("select at least one format")
					}
					return nil
				}),

			huh.NewInput().
				Key("dir").
				Title("Output Directory").
				Description("Created if it does not exist").
				Value(&m.choices.dir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("directory is required")
					}
					if info, err := os.Stat(s); err == nil && !info.IsDir() {
						return fmt.Errorf("%s is not a directory", s)
					}
					return nil
				}),

			huh.NewConfirm().
				Key("confirm").
				Title("Export").
				Affirmative("Write files").
				Negative("Cancel").
				Value(&m.choices.confirm),
		),
	).
		WithWidth(60).
		WithShowHelp(true).
		WithShowErrors(true).
		WithTheme(theme)

	return m
}

func (m ExportFormModel) Init() tea.Cmd {
	if m.noResult {
		return nil
	}
	return m.form.Init()
}

func (m ExportFormModel) Update(msg tea.Msg) (ExportFormModel, tea.Cmd) {
	if m.noResult {
		return m, nil
	}

	switch msg := msg.(type) {
	case exportDoneMsg:
		m.done = true
		m.written = msg.written
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		if m.done && msg.String() == "enter" {
			return m, func() tea.Msg { return NavigateMsg{view: ViewMainMenu} }
		}
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
		cmds = append(cmds, cmd)
	}

	if m.form.State == huh.StateCompleted && !m.started {
		m.started = true
		if !m.choices.confirm {
			return m, func() tea.Msg { return NavigateMsg{view: ViewMainMenu} }
		}
		dir := strings.TrimSpace(m.choices.dir)
		cmds = append(cmds, runExport(m.session, m.choices.options(), dir))
	}

	return m, tea.Batch(cmds...)
}

func (m ExportFormModel) View() string {
	style := m.lg.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).MarginLeft(2)
	fileStyle := m.lg.NewStyle().Foreground(lipgloss.Color("#888888")).MarginLeft(4)
	errorStyle := m.lg.NewStyle().Foreground(errorColor).MarginLeft(2)
	helpStyle := m.lg.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1).MarginLeft(2)

	var b strings.Builder
	b.WriteString(RenderHeader())
	b.WriteString("\n")

	if m.noResult {
		b.WriteString(style.Render("Nothing to export yet. Run the model first."))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc: back"))
		return b.String()
	}

	if !m.started {
		b.WriteString(m.form.View())
		return b.String()
	}

	if !m.done {
		b.WriteString(style.Render("Writing files..."))
		return b.String()
	}

	if len(m.written) > 0 {
		b.WriteString(style.Render(fmt.Sprintf("✓ Wrote %d files:", len(m.written))))
		b.WriteString("\n")
		for _, path := range m.written {
			b.WriteString(fileStyle.Render(absPath(path)))
			b.WriteString("\n")
		}
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ Export failed: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: main menu • esc: back"))
	return b.String()
}
