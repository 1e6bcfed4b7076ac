package render

import (
	"encoding/json"
	"time"

	"github.com/julianstephens/tachoplan/internal/models"
)

// Document is the JSON form of a planned trip
type Document struct {
	DriverType   models.DriverType `json:"driver_type"`
	StartTime    time.Time         `json:"start_time"`
	FinalTime    time.Time         `json:"final_time"`
	TotalHours   float64           `json:"total_hours"`
	TotalDisplay string            `json:"total_display"`
	DriveHours   float64           `json:"drive_hours"`
	DistanceKm   float64           `json:"distance_km"`
	Segments     []models.Segment  `json:"segments"`
	Rests        []models.Rest     `json:"rests"`
	Warnings     []string          `json:"warnings"`
}

// NewDocument builds the JSON document for a schedule
func NewDocument(schedule models.Schedule, req models.TripRequest) Document {
	total := schedule.FinalTime.Sub(req.StartTime).Hours()
	doc := Document{
		DriverType:   req.DriverType,
		StartTime:    req.StartTime,
		FinalTime:    schedule.FinalTime,
		TotalHours:   total,
		TotalDisplay: FormatHours(total),
		DriveHours:   schedule.TotalDriveHours(),
		Segments:     schedule.Segments,
		Rests:        schedule.Rests,
		Warnings:     schedule.Warnings,
	}
	for _, seg := range schedule.Segments {
		doc.DistanceKm += seg.DistanceKm
	}
	if doc.Segments == nil {
		doc.Segments = []models.Segment{}
	}
	if doc.Rests == nil {
		doc.Rests = []models.Rest{}
	}
	if doc.Warnings == nil {
		doc.Warnings = []string{}
	}
	return doc
}

// JSON renders the schedule as indented JSON
func JSON(schedule models.Schedule, req models.TripRequest) ([]byte, error) {
	return json.MarshalIndent(NewDocument(schedule, req), "", "  ")
}
