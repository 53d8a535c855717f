package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case NavigateMsg:
		m.previousScene = m.scene
		m.scene = msg.Scene
		return m, nil

	case ConfigLoadedMsg:
		m.loading = false
		m.config = msg.Config
		m.err = msg.Err
		return m, nil

	case CalculationCompleteMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.engineResult = msg.Result
			m.comparison = msg.Comparison
			m.resultsTable.SetRows(buildResultRows(msg.Comparison, msg.Result))
			m.scene = SceneResults
		}
		return m, nil

	case FSAECompleteMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.fsaeResult = msg.Result
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "?":
		return m, func() tea.Msg { return NavigateMsg{Scene: SceneHelp} }
	case "esc":
		if m.scene != SceneHome {
			return m, func() tea.Msg { return NavigateMsg{Scene: SceneHome} }
		}
		return m, tea.Quit
	}

	switch m.scene {
	case SceneHome:
		return m.updateHome(msg)
	case SceneResults:
		return m.updateResults(msg)
	case SceneFSAE:
		return m.updateFSAE(msg)
	case SceneHelp:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

// updateHome cycles focus between the region/status/primary-counts fields
// and fires a calculate command when the user presses enter on any of them.
func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.inputs[m.focusIndex].Blur()
		m.focusIndex = (m.focusIndex + 1) % fieldCount
		m.inputs[m.focusIndex].Focus()
		return m, textinput.Blink

	case tea.KeyShiftTab, tea.KeyUp:
		m.inputs[m.focusIndex].Blur()
		m.focusIndex = (m.focusIndex - 1 + fieldCount) % fieldCount
		m.inputs[m.focusIndex].Focus()
		return m, textinput.Blink

	case tea.KeyEnter:
		if m.config == nil {
			return m, nil
		}
		m.loading = true
		return m, m.calculateCmd()

	case tea.KeyCtrlF:
		return m, func() tea.Msg { return NavigateMsg{Scene: SceneFSAE} }
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f":
		return m, func() tea.Msg { return NavigateMsg{Scene: SceneFSAE} }
	}
	var cmd tea.Cmd
	m.resultsTable, cmd = m.resultsTable.Update(msg)
	return m, cmd
}

func (m Model) updateFSAE(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		accountTypeID := ""
		if m.config != nil && len(m.config.AccountTypesOrder) > 0 {
			accountTypeID = m.config.AccountTypesOrder[0]
		}
		m.loading = true
		return m, m.fsaeCmd(accountTypeID, decimal.NewFromInt(60000))
	}
	return m, nil
}
