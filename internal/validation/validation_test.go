package validation

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/scheduler"
)

func validRequest() models.TripRequest {
	return models.TripRequest{
		BaseTime:                  20,
		DefaultAvailableTime:      9,
		FirstSegmentAvailableTime: 9,
		DriverType:                models.DriverSingle,
		Speed:                     80,
		StartTime:                 time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Settings:                  models.DefaultSettings(),
	}
}

func hasConflict(result ValidationResult, ct ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestValidateRequest_Valid(t *testing.T) {
	result := New().ValidateRequest(validRequest())
	if result.HasConflicts() {
		t.Fatalf("Expected no conflicts, got:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("Unexpected report: %q", result.FormatReport())
	}
}

func TestValidateRequest_Conflicts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.TripRequest)
		want   ConflictType
	}{
		{"zero drive time", func(r *models.TripRequest) { r.BaseTime = 0 }, ConflictNonPositiveInput},
		{"negative speed", func(r *models.TripRequest) { r.Speed = -10 }, ConflictNonPositiveInput},
		{"zero allowance", func(r *models.TripRequest) { r.DefaultAvailableTime = 0 }, ConflictNonPositiveInput},
		{"unknown driver", func(r *models.TripRequest) { r.DriverType = "three" }, ConflictUnknownDriver},
		{"refuel segment zero", func(r *models.TripRequest) {
			r.RefuelEvents = []models.DelayEvent{{SegmentIndex: 0, DelayHours: 1}}
		}, ConflictInvalidSegmentRef},
		{"negative refuel", func(r *models.TripRequest) {
			r.RefuelEvents = []models.DelayEvent{{SegmentIndex: 1, DelayHours: -1}}
		}, ConflictNegativeDelay},
		{"ferry segment zero", func(r *models.TripRequest) {
			r.FerryEvent = &models.FerryEvent{SegmentIndex: 0, DelayHours: 1}
		}, ConflictInvalidSegmentRef},
		{"NaN refuel", func(r *models.TripRequest) {
			r.RefuelEvents = []models.DelayEvent{{SegmentIndex: 1, DelayHours: math.NaN()}}
		}, ConflictNegativeDelay},
		{"infinite refuel", func(r *models.TripRequest) {
			r.RefuelEvents = []models.DelayEvent{{SegmentIndex: 1, DelayHours: math.Inf(1)}}
		}, ConflictNegativeDelay},
		{"negative ferry", func(r *models.TripRequest) {
			r.FerryEvent = &models.FerryEvent{SegmentIndex: 1, DelayHours: -1}
		}, ConflictNegativeDelay},
		{"NaN ferry", func(r *models.TripRequest) {
			r.FerryEvent = &models.FerryEvent{SegmentIndex: 1, DelayHours: math.NaN()}
		}, ConflictNegativeDelay},
		{"infinite ferry", func(r *models.TripRequest) {
			r.FerryEvent = &models.FerryEvent{SegmentIndex: 1, DelayHours: math.Inf(1)}
		}, ConflictNegativeDelay},
		{"NaN duty cap", func(r *models.TripRequest) { r.Settings.DutyCapSingle = math.NaN() }, ConflictInvalidSettings},
		{"infinite duty cap", func(r *models.TripRequest) { r.Settings.DutyCapTwo = math.Inf(1) }, ConflictInvalidSettings},
		{"bad delay mode", func(r *models.TripRequest) { r.Settings.DelayMode = "manual" }, ConflictInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			result := New().ValidateRequest(req)
			if !hasConflict(result, tt.want) {
				t.Errorf("Expected %s conflict, got:\n%s", tt.want, result.FormatReport())
			}
		})
	}
}

func TestCheckSchedule_CleanSchedule(t *testing.T) {
	req := validRequest()
	req.RefuelEvents = []models.DelayEvent{{SegmentIndex: 2, DelayHours: 1}}
	req.FerryEvent = &models.FerryEvent{SegmentIndex: 1, DelayHours: 7}

	schedule := scheduler.New().ScheduleTrip(req)
	result := New().CheckSchedule(schedule, req)

	if result.HasConflicts() {
		t.Fatalf("Expected scheduler output to pass the rule check, got:\n%s", result.FormatReport())
	}
}

func TestCheckSchedule_DetectsViolations(t *testing.T) {
	req := validRequest()
	schedule := scheduler.New().ScheduleTrip(req)

	// Corrupt the output in ways the scheduler never would
	schedule.Segments[0].DelayOnDuty = 10
	schedule.Segments[1].DelayNotes = []string{"refuel 1.00h"}
	schedule.Rests[0].Start = schedule.Rests[0].Start.Add(time.Hour)
	schedule.Segments = schedule.Segments[:2]

	result := New().CheckSchedule(schedule, req)

	for _, want := range []ConflictType{
		ConflictDutyCapExceeded,
		ConflictConservation,
		ConflictDelayAttribution,
		ConflictRestGap,
		ConflictIncompleteTrip,
	} {
		if !hasConflict(result, want) {
			t.Errorf("Expected %s conflict, got:\n%s", want, result.FormatReport())
		}
	}
}

func TestCheckSchedule_CapOrdering(t *testing.T) {
	req := validRequest()
	req.Settings.DutyCapTwo = req.Settings.DutyCapSingle

	schedule := scheduler.New().ScheduleTrip(req)
	result := New().CheckSchedule(schedule, req)

	if !hasConflict(result, ConflictCapOrdering) {
		t.Fatalf("Expected cap ordering warning")
	}
	descs := result.Descriptions()
	if len(descs) != 1 || !strings.Contains(descs[0], "two-driver duty cap") {
		t.Errorf("Unexpected descriptions: %v", descs)
	}
}
