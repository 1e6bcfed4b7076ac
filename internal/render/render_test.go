package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/scheduler"
)

var tripStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func plan(t *testing.T, base float64, mutate func(*models.TripRequest)) (models.Schedule, models.TripRequest) {
	t.Helper()
	req := models.TripRequest{
		BaseTime:                  base,
		DefaultAvailableTime:      9,
		FirstSegmentAvailableTime: 9,
		DriverType:                models.DriverSingle,
		Speed:                     80,
		StartTime:                 tripStart,
		Settings:                  models.DefaultSettings(),
	}
	if mutate != nil {
		mutate(&req)
	}
	return scheduler.New().ScheduleTrip(req), req
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{9, "9h 00m"},
		{0.75, "0h 45m"},
		{43.5, "43h 30m"},
		{0.999, "1h 00m"},
		{1.0 / 3, "0h 20m"},
		{-1.5, "-1h 30m"},
		{0, "0h 00m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHours(tt.in), "FormatHours(%v)", tt.in)
	}
}

func TestStampAddsDayNumber(t *testing.T) {
	assert.Equal(t, "09:45", stamp(tripStart, tripStart.Add(9*time.Hour+45*time.Minute)))
	assert.Equal(t, "06:30 (day 2)", stamp(tripStart, tripStart.Add(30*time.Hour+30*time.Minute)))
	assert.Equal(t, "00:00 (day 3)", stamp(tripStart, tripStart.Add(48*time.Hour)))
}

func TestBreakdown_SingleDriverThreeDays(t *testing.T) {
	schedule, req := plan(t, 20, nil)

	lines := Breakdown(schedule, req)
	require.Len(t, lines, 5)

	kinds := make([]LineKind, 0, len(lines))
	for _, l := range lines {
		kinds = append(kinds, l.Kind)
	}
	assert.Equal(t, []LineKind{LineSegment, LineRest, LineSegment, LineRest, LineSegment}, kinds)

	first := lines[0]
	assert.Equal(t, "Segment 1", first.Title)
	assert.Equal(t, []string{
		"Start at 00:00.",
		"Drive 4h 30m, 45m break, then drive 4h 30m, covering 720.00 km",
		"(in-shift break 0h 45m)",
		"End work at 09:45.",
	}, first.Details)

	assert.Equal(t, "Daily rest: 11h 00m from 09:45 to 20:45.", lines[1].Title)
	assert.True(t, lines[1].Reducible)
	require.NotNil(t, lines[1].Rest)
	assert.Equal(t, 1, lines[1].Rest.Index)

	assert.Equal(t, "Daily rest: 11h 00m from 06:30 (day 2) to 17:30 (day 2).", lines[3].Title)

	last := lines[4]
	assert.Equal(t, "Drive 2h 00m, covering 160.00 km", last.Details[1])
	assert.Equal(t, "End at 19:30 (day 2).", last.Details[len(last.Details)-1])
}

func TestBreakdown_FerryRestLabel(t *testing.T) {
	schedule, req := plan(t, 20, func(r *models.TripRequest) {
		r.FerryEvent = &models.FerryEvent{SegmentIndex: 1, DelayHours: 7}
	})

	lines := Breakdown(schedule, req)
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, LineRest, lines[1].Kind)
	assert.True(t, strings.HasPrefix(lines[1].Title, "Daily rest (ferry as rest):"), lines[1].Title)
}

func TestBreakdown_OffDutyWaitFollowsSegment(t *testing.T) {
	schedule, req := plan(t, 20, func(r *models.TripRequest) {
		r.Settings.AutoFerryRest = false
		r.FerryEvent = &models.FerryEvent{SegmentIndex: 1, DelayHours: 7}
	})

	lines := Breakdown(schedule, req)
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, LineSegment, lines[0].Kind)
	assert.Contains(t, lines[0].Details, "(in-shift break 0h 45m; on-duty delay 5h 15m (ferry 7.00h); off-duty delay 1h 45m (ferry 7.00h))")
	assert.Contains(t, lines[0].Details, "End work at 15:00.")

	assert.Equal(t, LineWait, lines[1].Kind)
	assert.Equal(t, "Off-duty wait: 1h 45m from 15:00 to 16:45.", lines[1].Title)
	assert.Equal(t, LineRest, lines[2].Kind)
}

func TestBreakdown_ReducedRestNotReducible(t *testing.T) {
	schedule, req := plan(t, 20, func(r *models.TripRequest) {
		r.PickDailyRest = scheduler.ForcedRestPolicy(map[int]bool{1: true})
	})

	lines := Breakdown(schedule, req)
	var rests []Line
	for _, l := range lines {
		if l.Kind == LineRest {
			rests = append(rests, l)
		}
	}
	require.Len(t, rests, 2)
	assert.False(t, rests[0].Reducible)
	assert.True(t, rests[1].Reducible)
	assert.Contains(t, rests[0].Title, "9h 00m")
}

func TestText_PlainSummary(t *testing.T) {
	schedule, req := plan(t, 20, nil)

	out := Text(schedule, req, Options{})

	assert.Contains(t, out, "Arrival       2023-01-02 19:30")
	assert.Contains(t, out, "Total trip    43h 30m")
	assert.Contains(t, out, "Driving       20h 00m (1600 km)")
	assert.Contains(t, out, "Segment 3:")
	assert.NotContains(t, out, "Warning:")
}

func TestText_WarningsRendered(t *testing.T) {
	schedule := models.Schedule{FinalTime: tripStart, Warnings: []string{"segment limit reached"}}
	req := models.TripRequest{StartTime: tripStart, DriverType: models.DriverSingle}

	out := Lines(Breakdown(schedule, req), Options{})
	assert.Equal(t, "Warning: segment limit reached\n", out)
}

func TestJSON_Document(t *testing.T) {
	schedule, req := plan(t, 20, nil)

	data, err := JSON(schedule, req)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "single", doc["driver_type"])
	assert.InDelta(t, 43.5, doc["total_hours"], 1e-6)
	assert.Equal(t, "43h 30m", doc["total_display"])
	assert.InDelta(t, 1600.0, doc["distance_km"], 1e-6)
	assert.Len(t, doc["segments"], 3)
	assert.Len(t, doc["rests"], 2)
	assert.Equal(t, []any{}, doc["warnings"])
}
