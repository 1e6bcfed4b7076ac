package rests

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/render"
)

type Item struct {
	Rest models.Rest
}

func (i Item) Title() string {
	title := fmt.Sprintf("Rest %d · %s", i.Rest.Index, render.FormatHours(i.Rest.Duration))
	if i.Rest.Type == models.RestFerry {
		title += " (ferry)"
	}
	return title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s → %s", render.FormatDateTime(i.Rest.Start), render.FormatClock(i.Rest.End))
	if i.Reducible() {
		desc += " | 'r' to reduce to 9h"
	} else {
		desc += " | reduced"
	}
	return desc
}

func (i Item) FilterValue() string { return fmt.Sprintf("rest %d", i.Rest.Index) }

// Reducible reports whether the rest is still at the regular length
func (i Item) Reducible() bool {
	return !i.Rest.IsReduced(constants.RegularDailyRestHours)
}

type Model struct {
	list list.Model
}

func New(width, height int) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	l.Title = "Daily rests"
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	return Model{list: l}
}

func (m *Model) SetRests(rests []models.Rest) {
	items := make([]list.Item, len(rests))
	for i, r := range rests {
		items[i] = Item{Rest: r}
	}
	m.list.SetItems(items)
}

// Selected returns the highlighted rest
func (m Model) Selected() (Item, bool) {
	item, ok := m.list.SelectedItem().(Item)
	return item, ok
}

// Select highlights the rest at position i
func (m *Model) Select(i int) {
	m.list.Select(i)
}

func (m Model) Index() int {
	return m.list.Index()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No daily rests needed for this trip."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
