package breakdown

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/render"
)

// Model is a scrollable view of a trip's summary and timeline
type Model struct {
	viewport viewport.Model
	schedule *models.Schedule
	request  models.TripRequest
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.schedule == nil {
		return "No trip planned. Press 'n' to plan one."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetTrip replaces the shown trip and scrolls back to the top
func (m *Model) SetTrip(schedule models.Schedule, req models.TripRequest) {
	m.schedule = &schedule
	m.request = req
	m.Render()
	m.viewport.GotoTop()
}

func (m *Model) Render() {
	if m.schedule == nil {
		m.viewport.SetContent("No trip planned.")
		return
	}
	opts := render.Options{Styled: true}
	lines := render.Breakdown(*m.schedule, m.request)
	m.viewport.SetContent(render.Summary(*m.schedule, m.request, opts) + "\n" + render.Lines(lines, opts))
}
