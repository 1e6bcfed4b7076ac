package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/planner"
	"github.com/julianstephens/tachoplan/internal/storage"
	"github.com/julianstephens/tachoplan/internal/tui/components/breakdown"
	"github.com/julianstephens/tachoplan/internal/tui/components/rests"
	"github.com/julianstephens/tachoplan/internal/tui/components/settings"
)

type TripFormModel struct {
	Distance      string
	Speed         string
	Driver        models.DriverType
	CustomHours   string
	Refuels       string // comma separated segment numbers
	FerryMinutes  string
	FerrySegment  string
	AutoFerryRest bool
	Start         string
}

type SettingsFormModel struct {
	AutoFerryRest bool
	Threshold     string
	CapSingle     string
	CapTwo        string
	RefuelDelay   string
	Timezone      string
}

type Model struct {
	store        storage.Provider
	planner      *planner.Planner
	state        constants.SessionState
	keys         KeyMap
	help         help.Model
	form         *huh.Form
	tripForm     *TripFormModel
	settingsForm *SettingsFormModel
	breakdown    breakdown.Model
	rests        rests.Model
	settingsView settings.Model
	result       *planner.Result
	remaining    int
	status       string
	formError    string
	quitting     bool
	width        int
	height       int
}

func NewModel(store storage.Provider, p *planner.Planner) Model {
	current := p.Settings()
	remaining, err := p.RemainingReductions(context.Background())
	if err != nil {
		remaining = 0
	}

	m := Model{
		store:        store,
		planner:      p,
		state:        constants.StateForm,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		breakdown:    breakdown.New(0, 0),
		rests:        rests.New(0, 0),
		settingsView: settings.New(current, remaining, 0, 0),
		remaining:    remaining,
	}
	m.tripForm = m.defaultTripForm()
	m.form = newTripForm(m.tripForm)
	return m
}

func (m Model) defaultTripForm() *TripFormModel {
	current := m.planner.Settings()
	start := time.Now()
	if loc, err := current.Location(); err == nil {
		start = start.In(loc)
	}
	return &TripFormModel{
		Speed:         "80",
		Driver:        models.DriverSingle,
		FerrySegment:  "1",
		AutoFerryRest: current.AutoFerryRest,
		Start:         start.Format(constants.DateTimeFormat),
	}
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Input converts the form values into planner input. Empty optional fields
// are left at their zero value.
func (f TripFormModel) Input(loc *time.Location) (planner.Input, error) {
	distance, err := parsePositive(f.Distance, "distance")
	if err != nil {
		return planner.Input{}, err
	}
	speed, err := parsePositive(f.Speed, "speed")
	if err != nil {
		return planner.Input{}, err
	}

	in := planner.Input{
		DistanceKm: distance,
		SpeedKmh:   speed,
		DriverType: f.Driver,
	}

	if in.CustomFirstSegmentHours, err = parseOptional(f.CustomHours, "first segment hours"); err != nil {
		return planner.Input{}, err
	}
	if in.FerryMinutes, err = parseOptional(f.FerryMinutes, "ferry minutes"); err != nil {
		return planner.Input{}, err
	}
	if in.RefuelSegments, err = parseSegments(f.Refuels); err != nil {
		return planner.Input{}, err
	}

	if s := strings.TrimSpace(f.FerrySegment); s != "" {
		seg, err := strconv.Atoi(s)
		if err != nil {
			return planner.Input{}, fmt.Errorf("invalid ferry segment %q", s)
		}
		in.FerrySegment = seg
	}

	autoFerry := f.AutoFerryRest
	in.AutoFerryRest = &autoFerry

	if s := strings.TrimSpace(f.Start); s != "" {
		start, err := time.ParseInLocation(constants.DateTimeFormat, s, loc)
		if err != nil {
			return planner.Input{}, fmt.Errorf("invalid start time %q (expected YYYY-MM-DD HH:MM)", s)
		}
		in.StartTime = start
	}
	return in, nil
}

// Settings applies the form values to base
func (f SettingsFormModel) Settings(base models.Settings) (models.Settings, error) {
	out := base
	out.AutoFerryRest = f.AutoFerryRest

	fields := []struct {
		raw  string
		name string
		dst  *float64
	}{
		{f.Threshold, "ferry rest threshold", &out.AutoFerryRestThreshold},
		{f.CapSingle, "single duty cap", &out.DutyCapSingle},
		{f.CapTwo, "two-driver duty cap", &out.DutyCapTwo},
		{f.RefuelDelay, "refuel delay", &out.RefuelDelayHours},
	}
	for _, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field.raw), 64)
		if err != nil {
			return base, fmt.Errorf("invalid %s %q", field.name, field.raw)
		}
		*field.dst = v
	}

	out.Timezone = strings.TrimSpace(f.Timezone)
	if out.Timezone == "" {
		out.Timezone = constants.DefaultTimezone
	}
	if err := out.Validate(); err != nil {
		return base, err
	}
	return out, nil
}

func newSettingsFormModel(s models.Settings) *SettingsFormModel {
	return &SettingsFormModel{
		AutoFerryRest: s.AutoFerryRest,
		Threshold:     strconv.FormatFloat(s.AutoFerryRestThreshold, 'f', -1, 64),
		CapSingle:     strconv.FormatFloat(s.DutyCapSingle, 'f', -1, 64),
		CapTwo:        strconv.FormatFloat(s.DutyCapTwo, 'f', -1, 64),
		RefuelDelay:   strconv.FormatFloat(s.RefuelDelayHours, 'f', -1, 64),
		Timezone:      s.Timezone,
	}
}

func parsePositive(raw, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !(v > 0) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number greater than zero", name)
	}
	return v, nil
}

func parseOptional(raw, name string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(v >= 0) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a non-negative number", name)
	}
	return v, nil
}

// parseSegments parses "1, 3,4" into segment numbers
func parseSegments(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid refuel segment %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// tripFormFromInput fills a form from a previous trip, keeping base's
// departure time
func tripFormFromInput(in planner.Input, base *TripFormModel) *TripFormModel {
	f := *base
	f.Distance = strconv.FormatFloat(in.DistanceKm, 'f', -1, 64)
	f.Speed = strconv.FormatFloat(in.SpeedKmh, 'f', -1, 64)
	if in.DriverType != "" {
		f.Driver = in.DriverType
	}
	if in.CustomFirstSegmentHours > 0 {
		f.CustomHours = strconv.FormatFloat(in.CustomFirstSegmentHours, 'f', -1, 64)
	}
	if in.FerryMinutes > 0 {
		f.FerryMinutes = strconv.FormatFloat(in.FerryMinutes, 'f', -1, 64)
	}
	if in.FerrySegment > 0 {
		f.FerrySegment = strconv.Itoa(in.FerrySegment)
	}
	if in.AutoFerryRest != nil {
		f.AutoFerryRest = *in.AutoFerryRest
	}
	segs := make([]string, len(in.RefuelSegments))
	for i, s := range in.RefuelSegments {
		segs[i] = strconv.Itoa(s)
	}
	f.Refuels = strings.Join(segs, ", ")
	return &f
}
