package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
)

type EditSettingsMsg struct{}

type Model struct {
	settings  models.Settings
	remaining int
	width     int
	height    int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(25)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(settings models.Settings, remaining, width, height int) Model {
	return Model{
		settings:  settings,
		remaining: remaining,
		width:     width,
		height:    height,
	}
}

func (m *Model) SetSettings(settings models.Settings) {
	m.settings = settings
}

// SetRemaining updates the weekly reduced-rest allowance shown
func (m *Model) SetRemaining(remaining int) {
	m.remaining = remaining
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, func() tea.Msg { return EditSettingsMsg{} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(value))
	}

	var sections []string

	calcTitle := titleStyle.Render("Calculator Settings")
	calcContent := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Delay Mode:", m.settings.DelayMode),
		row("Auto Ferry Rest:", fmt.Sprintf("%v", m.settings.AutoFerryRest)),
		row("Ferry Rest Threshold:", fmt.Sprintf("%gh", m.settings.AutoFerryRestThreshold)),
		row("Duty Cap (single):", fmt.Sprintf("%gh", m.settings.DutyCapSingle)),
		row("Duty Cap (two):", fmt.Sprintf("%gh", m.settings.DutyCapTwo)),
		row("Refuel Delay:", fmt.Sprintf("%gh", m.settings.RefuelDelayHours)),
		row("Timezone:", m.settings.Timezone),
	)
	sections = append(sections, sectionStyle.Render(calcTitle+"\n"+calcContent))

	restTitle := titleStyle.Render("Weekly Reduced Rests")
	restContent := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Remaining:", fmt.Sprintf("%d of %d", m.remaining, constants.MaxReducedRestsPerWeek)),
		row("Window:", fmt.Sprintf("last %d days", constants.ReducedRestWindowDays)),
	)
	sections = append(sections, sectionStyle.Render(restTitle+"\n"+restContent))

	sections = append(sections, "\nPress 'e' to edit settings, 'x' to reset the weekly allowance.")

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
