package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type MainMenuModel struct {
	choices list.Model
}

type menuItem struct {
	title       string
	description string
	view        ViewState
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.description }
func (i menuItem) FilterValue() string { return i.title }

const menuQuit = "Quit"

func NewMainMenuModel() MainMenuModel {
	items := []list.Item{
		menuItem{title: "Parameters", description: "Edit eruption parameters and run the model", view: ViewParams},
		menuItem{title: "Results", description: "Peak values of the last run", view: ViewRun},
		menuItem{title: "Export", description: "Write CSV, NetCDF, PNG or HTML files", view: ViewExport},
		menuItem{title: "Configuration", description: "Model service, variant and run history", view: ViewConfig},
		menuItem{title: menuQuit, description: "Exit evah"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 15)
	l.Title = "Main Menu"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return MainMenuModel{
		choices: l,
	}
}

func (m MainMenuModel) Init() tea.Cmd {
	return nil
}

func (m MainMenuModel) Update(msg tea.Msg) (MainMenuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := 15 // Fixed reasonable height for menu items
		m.choices.SetSize(msg.Width, h)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			selectedItem := m.choices.SelectedItem()
			if selectedItem != nil {
				item := selectedItem.(menuItem)
				if item.title == menuQuit {
					return m, tea.Quit
				}
				return m, func() tea.Msg {
					return NavigateMsg{view: item.view}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.choices, cmd = m.choices.Update(msg)
	return m, cmd
}

func (m MainMenuModel) View() string {
	return RenderHeader() + "\n" + m.choices.View()
}
