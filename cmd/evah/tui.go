package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type ViewState int

type NavigateMsg struct {
	view ViewState
}

// startRunMsg asks the run view to submit the current parameters
type startRunMsg struct{}

const (
	ViewMainMenu ViewState = iota
	ViewParams
	ViewRun
	ViewExport
	ViewConfig
)

type Model struct {
	session     *Session
	currentView ViewState
	mainMenu    MainMenuModel
	paramForm   ParamFormModel
	runView     RunViewModel
	exportForm  ExportFormModel
	config      ConfigModel
	quitting    bool
}

func newModel(session *Session) Model {
	return Model{
		session:     session,
		currentView: ViewMainMenu,
		mainMenu:    NewMainMenuModel(),
		paramForm:   NewParamFormModel(session),
		runView:     NewRunViewModel(session),
		exportForm:  NewExportFormModel(session),
		config:      NewConfigModel(session),
	}
}

func (m Model) Init() tea.Cmd {
	return m.mainMenu.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NavigateMsg:
		m.currentView = msg.view
		switch msg.view {
		case ViewParams:
			return m, m.paramForm.Init()
		case ViewRun:
			return m, m.runView.Init()
		case ViewExport:
			m.exportForm = NewExportFormModel(m.session)
			return m, m.exportForm.Init()
		case ViewConfig:
			return m, m.config.Init()
		}
		return m, nil

	case startRunMsg:
		m.currentView = ViewRun
		var cmd tea.Cmd
		m.runView, cmd = m.runView.Start()
		return m, cmd

	// Run progress belongs to the run view whichever view is showing
	case runFinishedMsg, statusUpdateMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.runView, cmd = m.runView.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.mainMenu, cmd = m.mainMenu.Update(msg)
		cmds = append(cmds, cmd)
		m.paramForm, cmd = m.paramForm.Update(msg)
		cmds = append(cmds, cmd)
		m.runView, cmd = m.runView.Update(msg)
		cmds = append(cmds, cmd)
		m.exportForm, cmd = m.exportForm.Update(msg)
		cmds = append(cmds, cmd)
		m.config, cmd = m.config.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		k := msg.String()
		if k == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		// Text inputs own "q" in the parameter and export views
		if m.currentView != ViewMainMenu && k == "esc" {
			m.currentView = ViewMainMenu
			return m, nil
		}
		if (m.currentView == ViewRun || m.currentView == ViewConfig) && k == "q" {
			m.currentView = ViewMainMenu
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewMainMenu:
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case ViewParams:
		m.paramForm, cmd = m.paramForm.Update(msg)
	case ViewRun:
		m.runView, cmd = m.runView.Update(msg)
	case ViewExport:
		m.exportForm, cmd = m.exportForm.Update(msg)
	case ViewConfig:
		m.config, cmd = m.config.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return "bye!\n"
	}

	switch m.currentView {
	case ViewParams:
		return m.paramForm.View()
	case ViewRun:
		return m.runView.View()
	case ViewExport:
		return m.exportForm.View()
	case ViewConfig:
		return m.config.View()
	default:
		return m.mainMenu.View()
	}
}
