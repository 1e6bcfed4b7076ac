package models

import "time"

type RestType string

const (
	RestDaily RestType = "daily"
	RestFerry RestType = "ferry"
)

// Segment is one continuous unit of a trip between rests. All durations are hours.
type Segment struct {
	Index        int       `json:"index"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DriveTime    float64   `json:"drive_time"`
	DelayOnDuty  float64   `json:"delay_on_duty"`
	DelayOffDuty float64   `json:"delay_off_duty"`
	InShiftBreak float64   `json:"in_shift_break"`
	DistanceKm   float64   `json:"distance_km"`
	DelayNotes   []string  `json:"delay_notes"`
}

// DutyHours is the time counted against the duty cap
func (s Segment) DutyHours() float64 {
	return s.DriveTime + s.InShiftBreak + s.DelayOnDuty
}

// IsDelayOnly reports whether the segment consumed delay without driving
func (s Segment) IsDelayOnly() bool {
	return s.DriveTime == 0
}

type Rest struct {
	Index    int       `json:"index"` // 1-based, in insertion order
	Type     RestType  `json:"type"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration float64   `json:"duration"`
}

// IsReduced reports whether the rest was shortened below the regular length
func (r Rest) IsReduced(regular float64) bool {
	return r.Duration < regular
}

// Schedule is the output of a scheduling run.
type Schedule struct {
	Segments  []Segment `json:"segments"`
	Rests     []Rest    `json:"rests"`
	FinalTime time.Time `json:"final_time"`
	Warnings  []string  `json:"warnings"`
}

// TotalDriveHours sums the drive time over all segments
func (s Schedule) TotalDriveHours() float64 {
	total := 0.0
	for _, seg := range s.Segments {
		total += seg.DriveTime
	}
	return total
}
