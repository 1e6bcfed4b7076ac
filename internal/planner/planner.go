// Package planner turns raw trip input into a scheduled trip and owns the
// weekly reduced-rest allowance the scheduler itself never sees.
package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/logger"
	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/scheduler"
	"github.com/julianstephens/tachoplan/internal/validation"
)

var (
	ErrInvalidInput     = errors.New("invalid trip input")
	ErrReducedRestLimit = errors.New("weekly reduced rest allowance used up")
)

// Input is the trip as entered by a user
type Input struct {
	DistanceKm              float64           `json:"distance_km"`
	SpeedKmh                float64           `json:"speed_kmh"`
	DriverType              models.DriverType `json:"driver_type,omitempty"`
	CustomFirstSegmentHours float64           `json:"custom_first_segment_hours,omitempty"`
	RefuelSegments          []int             `json:"refuel_segments,omitempty"`
	FerryMinutes            float64           `json:"ferry_minutes,omitempty"`
	FerrySegment            int               `json:"ferry_segment,omitempty"`
	AutoFerryRest           *bool             `json:"auto_ferry_rest,omitempty"`
	StartTime               time.Time         `json:"start_time"`
	ForcedRests             []int             `json:"forced_rests,omitempty"`
}

// Result is a planned trip
type Result struct {
	Input      Input              `json:"input"`
	Request    models.TripRequest `json:"request"`
	Schedule   models.Schedule    `json:"schedule"`
	TotalHours float64            `json:"total_hours"`
}

// Ledger is the reduced-rest history the allowance is counted from
type Ledger interface {
	AddReducedRest(models.ReducedRest) error
	GetReducedRestsSince(since time.Time) ([]models.ReducedRest, error)
	ResetReducedRests() (int, error)
}

type Planner struct {
	settings  models.Settings
	ledger    Ledger
	scheduler *scheduler.Scheduler
	validator *validation.Validator
	now       func() time.Time
}

// New creates a planner. ledger may be nil, in which case every reduction
// request fails and Plan only honours Input.ForcedRests.
func New(settings models.Settings, ledger Ledger) *Planner {
	return &Planner{
		settings:  settings,
		ledger:    ledger,
		scheduler: scheduler.New(),
		validator: validation.New(),
		now:       time.Now,
	}
}

// Settings returns the settings trips are planned with
func (p *Planner) Settings() models.Settings {
	return p.settings
}

// SetSettings replaces the settings used for subsequent plans
func (p *Planner) SetSettings(settings models.Settings) {
	p.settings = settings
}

// BuildRequest converts user input into a scheduler request. Segment numbers
// below 1 are moved to the first segment and refuels beyond the limit are
// dropped. A zero StartTime is left for the caller to fill.
func BuildRequest(in Input, settings models.Settings) (models.TripRequest, error) {
	if !(in.DistanceKm > 0) {
		return models.TripRequest{}, fmt.Errorf("%w: distance must be greater than zero", ErrInvalidInput)
	}
	if !(in.SpeedKmh > 0) {
		return models.TripRequest{}, fmt.Errorf("%w: speed must be greater than zero", ErrInvalidInput)
	}

	driver := in.DriverType
	if driver == "" {
		driver = models.DriverSingle
	}
	if driver != models.DriverSingle && driver != models.DriverTwo {
		return models.TripRequest{}, fmt.Errorf("%w: unknown driver type %q", ErrInvalidInput, driver)
	}

	if in.AutoFerryRest != nil {
		settings.AutoFerryRest = *in.AutoFerryRest
	}

	defaultAvail := driver.DefaultAvailableTime()
	firstAvail := defaultAvail
	if in.CustomFirstSegmentHours > 0 && in.CustomFirstSegmentHours < defaultAvail {
		firstAvail = in.CustomFirstSegmentHours
	}

	refuelSegments := in.RefuelSegments
	if len(refuelSegments) > constants.MaxRefuels {
		logger.Warn("Too many refuel stops, extra stops ignored", "given", len(refuelSegments), "max", constants.MaxRefuels)
		refuelSegments = refuelSegments[:constants.MaxRefuels]
	}
	refuels := make([]models.DelayEvent, 0, len(refuelSegments))
	for _, seg := range refuelSegments {
		refuels = append(refuels, models.DelayEvent{
			SegmentIndex: normaliseSegment(seg),
			DelayHours:   settings.RefuelDelayHours,
		})
	}

	var ferry *models.FerryEvent
	if in.FerryMinutes > 0 {
		ferry = &models.FerryEvent{
			SegmentIndex: normaliseSegment(in.FerrySegment),
			DelayHours:   in.FerryMinutes / 60,
		}
	}

	forced := make(map[int]bool, len(in.ForcedRests))
	for _, idx := range in.ForcedRests {
		forced[idx] = true
	}

	return models.TripRequest{
		BaseTime:                  in.DistanceKm / in.SpeedKmh,
		DefaultAvailableTime:      defaultAvail,
		FirstSegmentAvailableTime: firstAvail,
		DriverType:                driver,
		Speed:                     in.SpeedKmh,
		StartTime:                 in.StartTime,
		RefuelEvents:              refuels,
		FerryEvent:                ferry,
		Settings:                  settings,
		PickDailyRest:             scheduler.ForcedRestPolicy(forced),
	}, nil
}

func normaliseSegment(seg int) int {
	if seg < 1 {
		return 1
	}
	return seg
}

// Plan schedules the trip and runs the rule check over the result
func (p *Planner) Plan(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if in.StartTime.IsZero() {
		loc, err := p.settings.Location()
		if err != nil {
			return Result{}, err
		}
		in.StartTime = p.now().In(loc).Truncate(time.Minute)
	}

	req, err := BuildRequest(in, p.settings)
	if err != nil {
		return Result{}, err
	}

	if check := p.validator.ValidateRequest(req); check.HasConflicts() {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidInput, check.Conflicts[0].Description)
	}

	schedule := p.scheduler.ScheduleTrip(req)

	rules := p.validator.CheckSchedule(schedule, req)
	if rules.HasConflicts() {
		logger.Warn("Schedule rule check reported conflicts", "count", len(rules.Conflicts))
		schedule.Warnings = append(schedule.Warnings, rules.Descriptions()...)
	}

	logger.Debug("Trip planned",
		"drive_hours", req.BaseTime,
		"segments", len(schedule.Segments),
		"rests", len(schedule.Rests),
	)

	return Result{
		Input:      in,
		Request:    req,
		Schedule:   schedule,
		TotalHours: schedule.FinalTime.Sub(req.StartTime).Hours(),
	}, nil
}

// Reduce shortens the given rests to 9h, charging one weekly reduction each,
// and re-plans the trip. Rests already listed in in.ForcedRests are not
// charged again.
func (p *Planner) Reduce(ctx context.Context, in Input, restIndices ...int) (Result, error) {
	baseline, err := p.Plan(ctx, in)
	if err != nil {
		return Result{}, err
	}
	in = baseline.Input

	var toCharge []int
	for _, idx := range restIndices {
		if idx < 1 || idx > len(baseline.Schedule.Rests) {
			return Result{}, fmt.Errorf("%w: trip has no rest %d (it has %d)", ErrInvalidInput, idx, len(baseline.Schedule.Rests))
		}
		if slices.Contains(in.ForcedRests, idx) || slices.Contains(toCharge, idx) {
			continue
		}
		toCharge = append(toCharge, idx)
	}

	if len(toCharge) == 0 {
		return baseline, nil
	}

	remaining, err := p.RemainingReductions(ctx)
	if err != nil {
		return Result{}, err
	}
	if remaining < len(toCharge) {
		return Result{}, fmt.Errorf("%w: %d requested, %d left this week", ErrReducedRestLimit, len(toCharge), remaining)
	}

	for _, idx := range toCharge {
		entry := models.ReducedRest{
			ID:        uuid.NewString(),
			RestIndex: idx,
			UsedAt:    p.now(),
			Note:      fmt.Sprintf("rest %d of %.0f km trip", idx, in.DistanceKm),
		}
		if err := p.ledger.AddReducedRest(entry); err != nil {
			return Result{}, fmt.Errorf("failed to record reduced rest: %w", err)
		}
		logger.Info("Reduced rest recorded", "rest", idx, "id", entry.ID)
		in.ForcedRests = append(in.ForcedRests, idx)
	}

	return p.Plan(ctx, in)
}

// RemainingReductions returns how many 9h rests are still allowed in the
// rolling week ending now.
func (p *Planner) RemainingReductions(ctx context.Context) (int, error) {
	used, err := p.UsedReductions(ctx)
	if err != nil {
		return 0, err
	}
	return max(0, constants.MaxReducedRestsPerWeek-len(used)), nil
}

// UsedReductions lists ledger entries inside the rolling week
func (p *Planner) UsedReductions(ctx context.Context) ([]models.ReducedRest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.ledger == nil {
		return nil, errors.New("no reduced rest ledger configured")
	}
	since := p.now().AddDate(0, 0, -constants.ReducedRestWindowDays)
	used, err := p.ledger.GetReducedRestsSince(since)
	if err != nil {
		return nil, fmt.Errorf("failed to read reduced rest ledger: %w", err)
	}
	return used, nil
}

// ResetWeek clears the ledger and returns the number of entries removed
func (p *Planner) ResetWeek(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if p.ledger == nil {
		return 0, errors.New("no reduced rest ledger configured")
	}
	n, err := p.ledger.ResetReducedRests()
	if err != nil {
		return 0, err
	}
	logger.Info("Reduced rest ledger reset", "removed", n)
	return n, nil
}
