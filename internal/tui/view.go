package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tachoplan/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateForm, constants.StateEditSettings:
		content = docStyle.Render(m.form.View())
	case constants.StateResult:
		content = m.viewResult()
	case constants.StateSettings:
		content = docStyle.Render(m.settingsView.View())
	case constants.StateConfirmReset:
		content = m.viewConfirmReset()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	)
	return ui
}

func (m Model) viewTabs() string {
	type tab struct {
		title  string
		states []constants.SessionState
	}
	tabList := []tab{
		{"Trip", []constants.SessionState{constants.StateForm}},
		{"Plan", []constants.SessionState{constants.StateResult}},
		{"Settings", []constants.SessionState{constants.StateSettings, constants.StateEditSettings, constants.StateConfirmReset}},
	}

	var tabs []string
	for _, t := range tabList {
		active := false
		for _, s := range t.states {
			if m.state == s {
				active = true
			}
		}
		if active {
			tabs = append(tabs, activeTabStyle.Render(t.title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewResult() string {
	if m.result == nil {
		return docStyle.Render("No trip planned. Press 'n' to plan one.")
	}
	parts := []string{m.breakdown.View(), m.rests.View()}
	if m.remaining == 0 {
		parts = append(parts, warningStyle.Render("No reduced rests left this week"))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewConfirmReset() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Clear every reduced rest recorded this week?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewStatus() string {
	if m.formError != "" {
		return dangerStyle.Render(m.formError)
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}
