package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/planner"
	"github.com/julianstephens/tachoplan/internal/storage/sqlite"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "tachoplan.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	settings, err := store.GetSettings()
	require.NoError(t, err)
	settings.Timezone = "UTC"
	require.NoError(t, store.SaveSettings(settings))

	m := NewModel(store, planner.New(settings, store))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return updated.(Model)
}

func planSampleTrip(t *testing.T, m Model) Model {
	t.Helper()
	m.tripForm = &TripFormModel{
		Distance:     "1600",
		Speed:        "80",
		Driver:       models.DriverSingle,
		FerrySegment: "1",
		Start:        "2023-01-01 00:00",
	}
	require.NoError(t, m.planTrip())
	m.state = constants.StateResult
	return m
}

func TestTripFormInput(t *testing.T) {
	f := TripFormModel{
		Distance:      "1600",
		Speed:         " 80 ",
		Driver:        models.DriverTwo,
		CustomHours:   "4.5",
		Refuels:       "1, 3,",
		FerryMinutes:  "90",
		FerrySegment:  "2",
		AutoFerryRest: true,
		Start:         "2023-01-01 06:30",
	}

	in, err := f.Input(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1600.0, in.DistanceKm)
	assert.Equal(t, 80.0, in.SpeedKmh)
	assert.Equal(t, models.DriverTwo, in.DriverType)
	assert.Equal(t, 4.5, in.CustomFirstSegmentHours)
	assert.Equal(t, []int{1, 3}, in.RefuelSegments)
	assert.Equal(t, 90.0, in.FerryMinutes)
	assert.Equal(t, 2, in.FerrySegment)
	require.NotNil(t, in.AutoFerryRest)
	assert.True(t, *in.AutoFerryRest)
	assert.Equal(t, time.Date(2023, 1, 1, 6, 30, 0, 0, time.UTC), in.StartTime)
}

func TestTripFormInputErrors(t *testing.T) {
	base := TripFormModel{Distance: "100", Speed: "80", Driver: models.DriverSingle}

	tests := []struct {
		name   string
		mutate func(*TripFormModel)
	}{
		{"zero distance", func(f *TripFormModel) { f.Distance = "0" }},
		{"text speed", func(f *TripFormModel) { f.Speed = "fast" }},
		{"negative ferry", func(f *TripFormModel) { f.FerryMinutes = "-5" }},
		{"bad refuel", func(f *TripFormModel) { f.Refuels = "1, x" }},
		{"zero refuel", func(f *TripFormModel) { f.Refuels = "0" }},
		{"bad ferry segment", func(f *TripFormModel) { f.FerrySegment = "two" }},
		{"bad start", func(f *TripFormModel) { f.Start = "tomorrow" }},
		{"NaN distance", func(f *TripFormModel) { f.Distance = "NaN" }},
		{"infinite ferry", func(f *TripFormModel) { f.FerryMinutes = "Inf" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mutate(&f)
			_, err := f.Input(time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestSettingsFormApply(t *testing.T) {
	base := models.DefaultSettings()
	f := newSettingsFormModel(base)
	f.CapSingle = "14"
	f.Timezone = ""

	updated, err := f.Settings(base)
	require.NoError(t, err)
	assert.Equal(t, 14.0, updated.DutyCapSingle)
	assert.Equal(t, constants.DefaultTimezone, updated.Timezone)
	assert.Equal(t, base.DutyCapTwo, updated.DutyCapTwo)

	f.CapTwo = "-1"
	_, err = f.Settings(base)
	assert.Error(t, err)

	f.CapTwo = "abc"
	_, err = f.Settings(base)
	assert.Error(t, err)

	f.CapTwo = "NaN"
	_, err = f.Settings(base)
	assert.Error(t, err)

	f.CapTwo = "21"
	f.RefuelDelay = "+Inf"
	_, err = f.Settings(base)
	assert.Error(t, err)
}

func TestValidateNumber(t *testing.T) {
	assert.NoError(t, validateNumber(" 12.5 "))
	for _, bad := range []string{"", "abc", "NaN", "Inf", "-Inf"} {
		assert.Error(t, validateNumber(bad), bad)
	}
}

func TestTripFormFromInput(t *testing.T) {
	auto := false
	in := planner.Input{
		DistanceKm:     850.5,
		SpeedKmh:       75,
		DriverType:     models.DriverTwo,
		RefuelSegments: []int{2, 4},
		FerryMinutes:   45,
		FerrySegment:   3,
		AutoFerryRest:  &auto,
	}
	base := &TripFormModel{Start: "2023-05-01 08:00", FerrySegment: "1", AutoFerryRest: true}

	f := tripFormFromInput(in, base)
	assert.Equal(t, "850.5", f.Distance)
	assert.Equal(t, "75", f.Speed)
	assert.Equal(t, models.DriverTwo, f.Driver)
	assert.Equal(t, "2, 4", f.Refuels)
	assert.Equal(t, "45", f.FerryMinutes)
	assert.Equal(t, "3", f.FerrySegment)
	assert.False(t, f.AutoFerryRest)
	assert.Equal(t, "2023-05-01 08:00", f.Start)
	assert.True(t, base.AutoFerryRest, "base form must not be modified")
}

func TestNewModelStartsOnTripForm(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, constants.StateForm, m.state)
	assert.Equal(t, "80", m.tripForm.Speed)
	assert.Equal(t, models.DriverSingle, m.tripForm.Driver)
	assert.Equal(t, constants.MaxReducedRestsPerWeek, m.remaining)
	assert.NotEmpty(t, m.View())
}

func TestEscFromEmptyTripFormShowsSettings(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, constants.StateSettings, m.state)
}

func TestPlanTrip(t *testing.T) {
	m := planSampleTrip(t, newTestModel(t))

	require.NotNil(t, m.result)
	assert.Len(t, m.result.Schedule.Segments, 3)
	assert.Len(t, m.result.Schedule.Rests, 2)
	assert.Equal(t, time.Date(2023, 1, 2, 19, 30, 0, 0, time.UTC), m.result.Schedule.FinalTime.UTC())
	assert.Contains(t, m.status, "2 rest(s)")
	assert.Contains(t, m.View(), "Daily rests")
}

func TestReduceSelectedRest(t *testing.T) {
	m := planSampleTrip(t, newTestModel(t))

	m = press(t, m, "r")
	require.Empty(t, m.formError)
	assert.Equal(t, constants.MaxReducedRestsPerWeek-1, m.remaining)
	assert.Equal(t, constants.ReducedDailyRestHours, m.result.Schedule.Rests[0].Duration)
	assert.Equal(t, []int{1}, m.result.Input.ForcedRests)
	assert.Contains(t, m.status, "Rest 1 reduced")

	// Reducing the same rest again is refused without touching the ledger
	m = press(t, m, "r")
	assert.Contains(t, m.status, "already reduced")
	assert.Equal(t, constants.MaxReducedRestsPerWeek-1, m.remaining)
}

func TestReduceFailsWhenAllowanceUsed(t *testing.T) {
	m := planSampleTrip(t, newTestModel(t))
	for i := 0; i < constants.MaxReducedRestsPerWeek; i++ {
		require.NoError(t, m.store.AddReducedRest(models.ReducedRest{
			ID:        "used-" + string(rune('a'+i)),
			RestIndex: 1,
			UsedAt:    time.Now(),
		}))
	}

	m = press(t, m, "r")
	assert.Equal(t, "No reduced rests left this week", m.formError)
	assert.Equal(t, constants.RegularDailyRestHours, m.result.Schedule.Rests[0].Duration)
}

func TestResetWeekFlow(t *testing.T) {
	m := planSampleTrip(t, newTestModel(t))
	m = press(t, m, "r")
	require.Equal(t, constants.MaxReducedRestsPerWeek-1, m.remaining)

	m = press(t, m, "s")
	require.Equal(t, constants.StateSettings, m.state)

	m = press(t, m, "x")
	require.Equal(t, constants.StateConfirmReset, m.state)
	assert.Contains(t, m.View(), "Clear every reduced rest")

	m = press(t, m, "n")
	require.Equal(t, constants.StateSettings, m.state)
	assert.Equal(t, constants.MaxReducedRestsPerWeek-1, m.remaining)

	m = press(t, m, "x")
	m = press(t, m, "y")
	assert.Equal(t, constants.StateSettings, m.state)
	assert.Equal(t, constants.MaxReducedRestsPerWeek, m.remaining)
	assert.Equal(t, "Cleared 1 reduced rest record(s)", m.status)
}

func TestNewTripPrefillsLastInput(t *testing.T) {
	m := planSampleTrip(t, newTestModel(t))

	m = press(t, m, "n")
	assert.Equal(t, constants.StateForm, m.state)
	assert.Equal(t, "1600", m.tripForm.Distance)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, constants.StateResult, m.state)
}

func TestQuit(t *testing.T) {
	m := planSampleTrip(t, newTestModel(t))
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(Model)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.View())
}
