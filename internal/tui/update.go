package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/logger"
	"github.com/julianstephens/tachoplan/internal/planner"
	"github.com/julianstephens/tachoplan/internal/tui/components/settings"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(msg.Width, msg.Height)
	}

	switch m.state {
	case constants.StateForm:
		return m.updateTripForm(msg)
	case constants.StateEditSettings:
		return m.updateSettingsForm(msg)
	case constants.StateConfirmReset:
		return m.updateConfirmReset(msg)
	}

	if _, ok := msg.(settings.EditSettingsMsg); ok {
		return m.startEditSettings()
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.NewTrip):
		return m.startTripForm()
	}

	switch m.state {
	case constants.StateResult:
		return m.updateResult(keyMsg)
	case constants.StateSettings:
		return m.updateSettings(keyMsg)
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	h, v := docStyle.GetFrameSize()
	contentHeight := height - v - 4 // tabs, help and status line
	if contentHeight < 0 {
		contentHeight = 0
	}
	listHeight := contentHeight / 3
	m.breakdown.SetSize(width-h, contentHeight-listHeight)
	m.rests.SetSize(width-h, listHeight)
	m.settingsView.SetSize(width-h, contentHeight)
}

func (m Model) startTripForm() (tea.Model, tea.Cmd) {
	m.tripForm = m.defaultTripForm()
	if m.result != nil {
		// Start from the last trip so small changes are quick
		m.tripForm = tripFormFromInput(m.result.Input, m.tripForm)
	}
	m.form = newTripForm(m.tripForm)
	m.formError = ""
	m.state = constants.StateForm
	return m, m.form.Init()
}

func (m Model) startEditSettings() (tea.Model, tea.Cmd) {
	m.settingsForm = newSettingsFormModel(m.planner.Settings())
	m.form = newSettingsForm(m.settingsForm)
	m.formError = ""
	m.state = constants.StateEditSettings
	return m, m.form.Init()
}

func (m Model) updateTripForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.formError = ""
		if m.result != nil {
			m.state = constants.StateResult
		} else {
			m.state = constants.StateSettings
		}
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.planTrip(); err != nil {
			// Stay in the form so the user can correct the values
			m.formError = err.Error()
			m.form = newTripForm(m.tripForm)
			return m, m.form.Init()
		}
		m.formError = ""
		m.state = constants.StateResult
	case huh.StateAborted:
		if m.result == nil {
			m.quitting = true
			return m, tea.Quit
		}
		m.state = constants.StateResult
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) planTrip() error {
	loc, err := m.planner.Settings().Location()
	if err != nil {
		return err
	}
	in, err := m.tripForm.Input(loc)
	if err != nil {
		return err
	}
	result, err := m.planner.Plan(context.Background(), in)
	if err != nil {
		return err
	}
	m.setResult(result)
	m.status = fmt.Sprintf("Planned %.0f km trip with %d rest(s)", in.DistanceKm, len(result.Schedule.Rests))
	return nil
}

func (m *Model) setResult(result planner.Result) {
	m.result = &result
	m.breakdown.SetTrip(result.Schedule, result.Request)
	m.rests.SetRests(result.Schedule.Rests)
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Settings):
		m.state = constants.StateSettings
		return m, nil
	case key.Matches(msg, m.keys.Reduce):
		m.reduceSelected()
		return m, nil
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.breakdown, cmd = m.breakdown.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.rests, cmd = m.rests.Update(msg)
	return m, cmd
}

func (m *Model) reduceSelected() {
	m.formError = ""
	if m.result == nil {
		return
	}
	item, ok := m.rests.Selected()
	if !ok {
		m.status = "No rest selected"
		return
	}
	if !item.Reducible() {
		m.status = fmt.Sprintf("Rest %d is already reduced", item.Rest.Index)
		return
	}

	selected := m.rests.Index()
	result, err := m.planner.Reduce(context.Background(), m.result.Input, item.Rest.Index)
	if err != nil {
		if errors.Is(err, planner.ErrReducedRestLimit) {
			m.formError = "No reduced rests left this week"
		} else {
			m.formError = fmt.Sprintf("Failed to reduce rest: %v", err)
		}
		logger.Warn("Reduce rest failed", "rest", item.Rest.Index, "error", err)
		return
	}

	m.setResult(result)
	m.rests.Select(selected)
	m.refreshRemaining()
	m.status = fmt.Sprintf("Rest %d reduced to 9h, %d left this week", item.Rest.Index, m.remaining)
}

func (m *Model) refreshRemaining() {
	remaining, err := m.planner.RemainingReductions(context.Background())
	if err != nil {
		m.formError = fmt.Sprintf("Failed to read reduced rests: %v", err)
		return
	}
	m.remaining = remaining
	m.settingsView.SetRemaining(remaining)
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.result != nil {
			m.state = constants.StateResult
		}
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.state = constants.StateConfirmReset
		return m, nil
	}

	var cmd tea.Cmd
	m.settingsView, cmd = m.settingsView.Update(msg)
	return m, cmd
}

func (m Model) updateSettingsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.formError = ""
		m.state = constants.StateSettings
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		updated, err := m.settingsForm.Settings(m.planner.Settings())
		if err == nil {
			err = m.store.SaveSettings(updated)
		}
		if err != nil {
			m.formError = fmt.Sprintf("Failed to save settings: %v", err)
			m.form = newSettingsForm(m.settingsForm)
			return m, m.form.Init()
		}

		m.planner.SetSettings(updated)
		m.settingsView.SetSettings(updated)
		m.formError = ""
		m.status = "Settings saved"
		m.state = constants.StateSettings

		if m.result != nil {
			// Keep the shown trip consistent with the new settings
			result, err := m.planner.Plan(context.Background(), m.result.Input)
			if err != nil {
				m.formError = fmt.Sprintf("Trip no longer plans with the new settings: %v", err)
				m.result = nil
			} else {
				m.setResult(result)
			}
		}
	case huh.StateAborted:
		m.state = constants.StateSettings
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		n, err := m.planner.ResetWeek(context.Background())
		if err != nil {
			m.formError = fmt.Sprintf("Failed to reset reduced rests: %v", err)
		} else {
			m.status = fmt.Sprintf("Cleared %d reduced rest record(s)", n)
			m.refreshRemaining()
		}
		m.state = constants.StateSettings
	case "n", "N", "esc", "q":
		m.state = constants.StateSettings
	}
	return m, nil
}
