package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"evah-sdk/cmd/evah/internal/utils"
	"evah-sdk/models"
	"evah-sdk/validate"
)

// ParamFormModel edits the parameter store field by field. The last focus
// position is the run trigger, which is disabled while any field is invalid
// or a run is in flight.
type ParamFormModel struct {
	session    *Session
	fields     []validate.Field
	inputs     []textinput.Model
	focusIndex int
	width      int
	lg         *lipgloss.Renderer
	notice     string
}

var (
	errorColor    = lipgloss.Color("#FF6B6B")
	advisoryColor = lipgloss.Color("#FFB86C")
	okColor       = lipgloss.Color("#50FA7B")
)

func NewParamFormModel(session *Session) ParamFormModel {
	m := ParamFormModel{
		session: session,
		fields:  session.store.Fields(),
		width:   100,
		lg:      lipgloss.DefaultRenderer(),
	}
	m.inputs = m.newInputs()
	m.inputs[0].Focus()
	return m
}

// newInputs seeds one input per field from the store's current values
func (m ParamFormModel) newInputs() []textinput.Model {
	snapshot := m.session.store.Snapshot()
	raw := snapshot.RawValues()

	n := len(m.fields)
	if m.hasWavelengths() {
		n++
	}
	inputs := make([]textinput.Model, n)
	for i, f := range m.fields {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = f.Description
		inputs[i].SetValue(raw[f.Name])
		inputs[i].CharLimit = 32
		inputs[i].Width = 24
	}
	if m.hasWavelengths() {
		i := len(m.fields)
		inputs[i] = textinput.New()
		inputs[i].Placeholder = "380, 550, 1020"
		inputs[i].SetValue(strings.Join(snapshot.RawWavelengths(), ", "))
		inputs[i].CharLimit = 200
		inputs[i].Width = 40
	}
	return inputs
}

func (m ParamFormModel) hasWavelengths() bool {
	return m.session.store.Variant().HasWavelengths()
}

func (m ParamFormModel) triggerIndex() int {
	return len(m.inputs)
}

func (m ParamFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ParamFormModel) Update(msg tea.Msg) (ParamFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			return m, m.trigger()
		case "ctrl+s":
			if err := models.SaveParamsFile(models.ParamsFilename, m.session.store.Snapshot()); err != nil {
				m.notice = fmt.Sprintf("❌ Failed to save %s: %v", models.ParamsFilename, err)
			} else {
				m.notice = fmt.Sprintf("Saved %s", models.ParamsFilename)
			}
			return m, nil
		case "ctrl+d":
			m.session.store.Load(models.DefaultParameterSet())
			m.inputs = m.newInputs()
			m.notice = "Defaults restored"
			return m, m.focus(0)
		case "ctrl+n":
			if m.hasWavelengths() {
				p := m.session.store.Snapshot()
				m.session.store.SetNetCDF(!p.NetCDF)
			}
			return m, nil
		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			// Enter on the trigger = run
			if s == "enter" && m.focusIndex == m.triggerIndex() {
				return m, m.trigger()
			}

			next := m.focusIndex
			if s == "up" || s == "shift+tab" {
				next--
			} else {
				next++
			}
			if next > m.triggerIndex() {
				next = 0
			} else if next < 0 {
				next = m.triggerIndex()
			}
			return m, m.focus(next)
		default:
			m.notice = ""
		}
	}

	if m.focusIndex >= len(m.inputs) {
		return m, nil
	}

	var cmd tea.Cmd
	before := m.inputs[m.focusIndex].Value()
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	if m.inputs[m.focusIndex].Value() != before {
		m.apply(m.focusIndex)
	}
	return m, cmd
}

func (m *ParamFormModel) focus(index int) tea.Cmd {
	m.focusIndex = index
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		if i == index {
			cmds[i] = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

// apply validates the edited input and records it in the store
func (m *ParamFormModel) apply(index int) {
	value := m.inputs[index].Value()
	if index < len(m.fields) {
		v := m.session.store.SetField(m.fields[index].Name, value)
		utils.LogDebug("field %s=%q ok=%v kind=%s", m.fields[index].Name, value, v.OK, v.Kind)
		return
	}
	v := m.session.store.SetWavelengths(splitList(value))
	utils.LogDebug("wavelengths=%q ok=%v", value, v.OK)
}

func (m ParamFormModel) trigger() tea.Cmd {
	if !m.session.controller.CanSubmit() {
		return nil
	}
	return func() tea.Msg {
		return startRunMsg{}
	}
}

// splitList splits "380, 550,1020" into entries. Empty entries are kept so
// they fail validation.
func splitList(raw string) []string {
	raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "[]"))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (m ParamFormModel) View() string {
	labelStyle := m.lg.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(24).
		MarginLeft(2)

	errorStyle := m.lg.NewStyle().Foreground(errorColor).MarginLeft(27)
	advisoryStyle := m.lg.NewStyle().Foreground(advisoryColor).MarginLeft(27)
	noticeStyle := m.lg.NewStyle().Foreground(lipgloss.Color("240")).MarginLeft(2).MarginTop(1)
	helpStyle := m.lg.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1).
		MarginLeft(2)

	var body strings.Builder
	body.WriteString(RenderHeader())
	body.WriteString(fmt.Sprintf("  Variant: %s\n\n", m.session.store.Variant()))

	for i, input := range m.inputs {
		name := validate.FieldWavelengths
		label := "Wavelengths (nm)"
		if i < len(m.fields) {
			name = m.fields[i].Name
			label = m.fields[i].Label
		}
		body.WriteString(labelStyle.Render(label))
		body.WriteString(" ")
		body.WriteString(input.View())
		body.WriteString("\n")

		if v, ok := m.session.store.Verdict(name); ok && v.Message != "" {
			if v.OK && v.Advisory {
				body.WriteString(advisoryStyle.Render("⚠ " + v.Message))
			} else if !v.OK {
				body.WriteString(errorStyle.Render(v.Message))
			}
			body.WriteString("\n")
		}
	}

	if m.hasWavelengths() {
		nc := "no"
		if m.session.store.Snapshot().NetCDF {
			nc = "yes"
		}
		body.WriteString(labelStyle.Render("NetCDF output"))
		body.WriteString(" " + nc + "\n")
	}

	body.WriteString("\n")
	body.WriteString(m.renderTrigger())
	body.WriteString("\n")

	if m.notice != "" {
		body.WriteString(noticeStyle.Render(m.notice))
		body.WriteString("\n")
	}

	help := "tab/↑↓: move • enter on Run / ctrl+r: run • ctrl+s: save • ctrl+d: defaults • esc: back"
	if m.hasWavelengths() {
		help += " • ctrl+n: toggle NetCDF"
	}
	body.WriteString(helpStyle.Render(help))
	return body.String()
}

func (m ParamFormModel) renderTrigger() string {
	base := m.lg.NewStyle().Padding(0, 3).MarginLeft(2)
	enabled := m.session.controller.CanSubmit()

	var style lipgloss.Style
	switch {
	case !enabled:
		style = base.Foreground(lipgloss.Color("#666666")).Background(lipgloss.Color("#333333"))
	case m.focusIndex == m.triggerIndex():
		style = base.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#E4572E")).Bold(true)
	default:
		style = base.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7D56F4"))
	}

	button := style.Render("Run model")
	if !enabled && !m.session.store.IsSubmittable() {
		button += m.lg.NewStyle().Foreground(errorColor).Render(
			fmt.Sprintf("  fix: %s", strings.Join(m.session.store.Invalid(), ", ")))
	}
	return button
}
