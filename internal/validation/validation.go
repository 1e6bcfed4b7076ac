package validation

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/scheduler"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictNonPositiveInput  ConflictType = "non_positive_input"
	ConflictInvalidSegmentRef ConflictType = "invalid_segment_index"
	ConflictNegativeDelay     ConflictType = "negative_delay"
	ConflictUnknownDriver     ConflictType = "unknown_driver_type"
	ConflictInvalidSettings   ConflictType = "invalid_settings"
	ConflictCapOrdering       ConflictType = "cap_ordering"
	ConflictDutyCapExceeded   ConflictType = "duty_cap_exceeded"
	ConflictConservation      ConflictType = "segment_conservation"
	ConflictRestGap           ConflictType = "rest_gap"
	ConflictDelayAttribution  ConflictType = "delay_attribution"
	ConflictIncompleteTrip    ConflictType = "incomplete_trip"
)

// conservationTolerance is how far a segment's wall-clock span may drift from
// the sum of its parts.
const conservationTolerance = time.Minute

// Conflict represents a detected problem in a trip request or schedule
type Conflict struct {
	Type         ConflictType
	Description  string
	SegmentIndex int // 0 when not tied to a segment
	RestIndex    int // 0 when not tied to a rest
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Descriptions returns the conflict descriptions in detection order
func (vr *ValidationResult) Descriptions() []string {
	out := make([]string, 0, len(vr.Conflicts))
	for _, c := range vr.Conflicts {
		out = append(out, c.Description)
	}
	return out
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks trip requests before scheduling and schedules after it
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateRequest checks the caller-side contract the scheduler relies on.
// Any conflict means the request must not be scheduled.
func (v *Validator) ValidateRequest(req models.TripRequest) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	positives := []struct {
		name  string
		value float64
	}{
		{"drive time", req.BaseTime},
		{"speed", req.Speed},
		{"default available time", req.DefaultAvailableTime},
		{"first segment available time", req.FirstSegmentAvailableTime},
	}
	for _, p := range positives {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			result.add(Conflict{
				Type:        ConflictNonPositiveInput,
				Description: fmt.Sprintf("%s must be a positive number, got %v", p.name, p.value),
			})
		}
	}

	if req.DriverType != models.DriverSingle && req.DriverType != models.DriverTwo {
		result.add(Conflict{
			Type:        ConflictUnknownDriver,
			Description: fmt.Sprintf("unknown driver type %q", req.DriverType),
		})
	}

	for i, ev := range req.RefuelEvents {
		if ev.SegmentIndex < 1 {
			result.add(Conflict{
				Type:        ConflictInvalidSegmentRef,
				Description: fmt.Sprintf("refuel %d refers to segment %d (segments start at 1)", i+1, ev.SegmentIndex),
			})
		}
		if !validDelay(ev.DelayHours) {
			result.add(Conflict{
				Type:         ConflictNegativeDelay,
				Description:  fmt.Sprintf("refuel %d delay must be a finite non-negative number, got %vh", i+1, ev.DelayHours),
				SegmentIndex: ev.SegmentIndex,
			})
		}
	}

	if ferry := req.FerryEvent; ferry != nil {
		if ferry.SegmentIndex < 1 {
			result.add(Conflict{
				Type:        ConflictInvalidSegmentRef,
				Description: fmt.Sprintf("ferry refers to segment %d (segments start at 1)", ferry.SegmentIndex),
			})
		}
		if !validDelay(ferry.DelayHours) {
			result.add(Conflict{
				Type:         ConflictNegativeDelay,
				Description:  fmt.Sprintf("ferry delay must be a finite non-negative number, got %vh", ferry.DelayHours),
				SegmentIndex: ferry.SegmentIndex,
			})
		}
	}

	if err := req.Settings.Validate(); err != nil {
		result.add(Conflict{
			Type:        ConflictInvalidSettings,
			Description: fmt.Sprintf("invalid settings: %v", err),
		})
	}

	return result
}

// validDelay rejects negative, NaN and infinite delays
func validDelay(hours float64) bool {
	return hours >= 0 && !math.IsInf(hours, 0)
}

// CheckSchedule is the rule-check pass over a finished schedule. The scheduler
// satisfies these rules by construction, so any conflict points at a bug or a
// request that skipped ValidateRequest.
func (v *Validator) CheckSchedule(schedule models.Schedule, req models.TripRequest) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	dutyCap := req.DutyCap()

	if req.Settings.DutyCapTwo <= req.Settings.DutyCapSingle {
		result.add(Conflict{
			Type: ConflictCapOrdering,
			Description: fmt.Sprintf("two-driver duty cap (%vh) is not above the single-driver cap (%vh)",
				req.Settings.DutyCapTwo, req.Settings.DutyCapSingle),
		})
	}

	for i, seg := range schedule.Segments {
		if seg.DutyHours() > dutyCap+constants.HoursEpsilon {
			result.add(Conflict{
				Type:         ConflictDutyCapExceeded,
				Description:  fmt.Sprintf("segment %d has %.2fh on duty, above the %vh cap", seg.Index, seg.DutyHours(), dutyCap),
				SegmentIndex: seg.Index,
			})
		}

		parts := scheduler.HoursToDuration(seg.DriveTime + seg.InShiftBreak + seg.DelayOnDuty + seg.DelayOffDuty)
		span := seg.End.Sub(seg.Start)
		if diff := span - parts; diff > conservationTolerance || diff < -conservationTolerance {
			result.add(Conflict{
				Type:         ConflictConservation,
				Description:  fmt.Sprintf("segment %d spans %s but its parts add up to %s", seg.Index, span, parts),
				SegmentIndex: seg.Index,
			})
		}

		want := scheduler.ResolveDelays(seg.Index, req.RefuelEvents, req.FerryEvent, req.Settings).Notes
		if !slices.Equal(want, seg.DelayNotes) {
			result.add(Conflict{
				Type:         ConflictDelayAttribution,
				Description:  fmt.Sprintf("segment %d delay notes %v do not match its events %v", seg.Index, seg.DelayNotes, want),
				SegmentIndex: seg.Index,
			})
		}

		if i < len(schedule.Rests) {
			rest := schedule.Rests[i]
			if !rest.Start.Equal(seg.End) {
				result.add(Conflict{
					Type:         ConflictRestGap,
					Description:  fmt.Sprintf("rest %d starts at %s, not at the end of segment %d", rest.Index, rest.Start.Format(constants.DateTimeFormat), seg.Index),
					SegmentIndex: seg.Index,
					RestIndex:    rest.Index,
				})
			}
			if i+1 < len(schedule.Segments) && !schedule.Segments[i+1].Start.Equal(rest.End) {
				result.add(Conflict{
					Type:         ConflictRestGap,
					Description:  fmt.Sprintf("segment %d does not start when rest %d ends", i+2, rest.Index),
					SegmentIndex: i + 2,
					RestIndex:    rest.Index,
				})
			}
		}
	}

	if driven := schedule.TotalDriveHours(); driven < req.BaseTime-1e-6 {
		result.add(Conflict{
			Type:        ConflictIncompleteTrip,
			Description: fmt.Sprintf("schedule covers %.2fh of %.2fh driving", driven, req.BaseTime),
		})
	}

	return result
}
