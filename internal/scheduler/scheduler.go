package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
)

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// scheduleState is owned by a single ScheduleTrip call and never escapes it.
type scheduleState struct {
	now      time.Time
	dutyUsed float64
	segments []models.Segment
	rests    []models.Rest
}

// ScheduleTrip segments the request's driving into duty periods separated by
// rests. The request must already be validated; ScheduleTrip never fails.
func (s *Scheduler) ScheduleTrip(req models.TripRequest) models.Schedule {
	pickRest := req.PickDailyRest
	if pickRest == nil {
		pickRest = DefaultRestPolicy()
	}

	isSingle := req.DriverType != models.DriverTwo
	dutyCap := req.DutyCap()

	st := &scheduleState{
		now:      req.StartTime,
		segments: []models.Segment{},
		rests:    []models.Rest{},
	}
	warnings := []string{}

	remaining := req.BaseTime
	segmentIndex := 0

	for remaining > constants.HoursEpsilon {
		if segmentIndex >= constants.MaxSegments {
			warnings = append(warnings, fmt.Sprintf("stopped after %d segments with %.2fh of driving left", constants.MaxSegments, remaining))
			break
		}
		segmentIndex++

		ceiling := req.DefaultAvailableTime
		if segmentIndex == 1 {
			ceiling = req.FirstSegmentAvailableTime
		}

		delays := ResolveDelays(segmentIndex, req.RefuelEvents, req.FerryEvent, req.Settings)

		plannedDrive := math.Min(ceiling, remaining)
		inShiftBreak := breakFor(isSingle, plannedDrive)

		countedDelay := 0.0
		offDutyDelay := 0.0

		// A ferry crossing that becomes the rest supersedes its own delay.
		if !delays.FerryAsRest {
			wouldBeDuty := st.dutyUsed + plannedDrive + inShiftBreak
			if wouldBeDuty > dutyCap {
				overflow := wouldBeDuty - dutyCap
				plannedDrive = math.Max(0, plannedDrive-overflow)
				// The break is re-evaluated at the trimmed drive time but the
				// segment is not trimmed a second time.
				inShiftBreak = breakFor(isSingle, plannedDrive)
				offDutyDelay = delays.ExtraDelay
			} else {
				countedDelay = math.Min(delays.ExtraDelay, dutyCap-wouldBeDuty)
				offDutyDelay = delays.ExtraDelay - countedDelay
			}
		}

		if !isSingle {
			effective := math.Max(0, ceiling-countedDelay)
			plannedDrive = math.Min(plannedDrive, math.Min(effective, remaining))
		}

		seg := models.Segment{
			Index:        segmentIndex,
			Start:        st.now,
			DriveTime:    plannedDrive,
			DelayOnDuty:  countedDelay,
			DelayOffDuty: offDutyDelay,
			DistanceKm:   plannedDrive * req.Speed,
			DelayNotes:   delays.Notes,
		}

		if plannedDrive <= 0 {
			if countedDelay <= 0 && offDutyDelay <= 0 {
				// Nothing to drive and nothing to wait for: only reachable
				// with a non-positive allowance, which validation rejects.
				warnings = append(warnings, fmt.Sprintf("segment %d has no drive time available", segmentIndex))
				break
			}
			seg.DriveTime = 0
			seg.DistanceKm = 0
			st.advance(countedDelay + offDutyDelay)
			st.dutyUsed += countedDelay
		} else {
			seg.InShiftBreak = inShiftBreak
			st.advance(plannedDrive + inShiftBreak + countedDelay)
			st.dutyUsed += plannedDrive + inShiftBreak + countedDelay
			st.advance(offDutyDelay)
			remaining -= plannedDrive
		}
		seg.End = st.now
		st.segments = append(st.segments, seg)

		if remaining > constants.HoursEpsilon {
			restType := models.RestDaily
			if delays.FerryAsRest {
				restType = models.RestFerry
			}
			st.rest(restType, pickRest())
		}
	}

	return models.Schedule{
		Segments:  st.segments,
		Rests:     st.rests,
		FinalTime: st.now,
		Warnings:  warnings,
	}
}

func (st *scheduleState) advance(hours float64) {
	if hours <= 0 {
		return
	}
	st.now = st.now.Add(HoursToDuration(hours))
}

func (st *scheduleState) rest(restType models.RestType, hours float64) {
	start := st.now
	st.advance(hours)
	st.rests = append(st.rests, models.Rest{
		Index:    len(st.rests) + 1,
		Type:     restType,
		Start:    start,
		End:      st.now,
		Duration: hours,
	})
	st.dutyUsed = 0
}

func breakFor(isSingle bool, plannedDrive float64) float64 {
	if isSingle && plannedDrive > constants.ContinuousDriveLimitHours {
		return constants.InShiftBreakHours
	}
	return 0
}

// HoursToDuration converts fractional hours to a time.Duration rounded to the
// nearest nanosecond.
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(math.Round(hours * float64(time.Hour)))
}
