package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/tachoplan/internal/constants"
)

type DriverType string

const (
	DriverSingle DriverType = "single"
	DriverTwo    DriverType = "two"
)

// ParseDriverType accepts "single"/"two" plus the "1"/"2" shorthands
func ParseDriverType(s string) (DriverType, error) {
	switch s {
	case "single", "1":
		return DriverSingle, nil
	case "two", "2":
		return DriverTwo, nil
	default:
		return "", fmt.Errorf("invalid driver type %q (expected single or two)", s)
	}
}

// DefaultAvailableTime returns the daily drive-time allowance for the crew
func (d DriverType) DefaultAvailableTime() float64 {
	if d == DriverTwo {
		return constants.DefaultDriveTwoHours
	}
	return constants.DefaultDriveSingleHours
}

// DelayEvent is an exogenous delay attributed to a 1-based segment index.
type DelayEvent struct {
	SegmentIndex int     `json:"segment"`
	DelayHours   float64 `json:"delay_hours"`
}

// FerryEvent is a ferry crossing. At most one exists per trip; whether it
// substitutes a daily rest is decided from Settings when it is resolved.
type FerryEvent struct {
	SegmentIndex int     `json:"segment"`
	DelayHours   float64 `json:"delay_hours"`
}

// RestPolicy returns the length in hours of the next daily rest. It is called
// once per inserted rest, in order.
type RestPolicy func() float64

// TripRequest is the immutable input of a scheduling run. It is expected to be
// validated by the caller before it reaches the scheduler.
type TripRequest struct {
	BaseTime                  float64      `json:"base_time"` // hours of driving
	DefaultAvailableTime      float64      `json:"default_available_time"`
	FirstSegmentAvailableTime float64      `json:"first_segment_available_time"`
	DriverType                DriverType   `json:"driver_type"`
	Speed                     float64      `json:"speed"` // km/h, only used for distance reporting
	StartTime                 time.Time    `json:"start_time"`
	RefuelEvents              []DelayEvent `json:"refuel_events,omitempty"`
	FerryEvent                *FerryEvent  `json:"ferry_event,omitempty"`
	Settings                  Settings     `json:"settings"`
	PickDailyRest             RestPolicy   `json:"-"`
}

// DutyCap returns the configured duty cap for the request's driver type
func (r TripRequest) DutyCap() float64 {
	return r.Settings.DutyCapFor(r.DriverType)
}
