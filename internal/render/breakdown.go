package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
	"github.com/julianstephens/tachoplan/internal/scheduler"
)

type LineKind string

const (
	LineSegment LineKind = "segment"
	LineWait    LineKind = "wait"
	LineRest    LineKind = "rest"
	LineWarning LineKind = "warning"
)

// Line is one entry of a human-readable breakdown. Segment and Rest point at
// the structured data the line was built from.
type Line struct {
	Kind    LineKind
	Title   string
	Details []string
	Segment *models.Segment
	Rest    *models.Rest
	// Reducible marks a rest that is still at the regular length
	Reducible bool
}

// Breakdown builds the per-segment timeline of a schedule
func Breakdown(schedule models.Schedule, req models.TripRequest) []Line {
	start := req.StartTime
	isSingle := req.DriverType != models.DriverTwo
	lines := make([]Line, 0, len(schedule.Segments)*3+len(schedule.Warnings))

	for i := range schedule.Segments {
		seg := &schedule.Segments[i]
		last := i == len(schedule.Segments)-1
		lines = append(lines, segmentLine(seg, start, isSingle, last))

		if seg.DelayOffDuty > 0 && !seg.IsDelayOnly() {
			waitStart := seg.End.Add(-scheduler.HoursToDuration(seg.DelayOffDuty))
			lines = append(lines, Line{
				Kind: LineWait,
				Title: fmt.Sprintf("Off-duty wait: %s from %s to %s.",
					FormatHours(seg.DelayOffDuty), stamp(start, waitStart), stamp(start, seg.End)),
				Segment: seg,
			})
		}

		if i < len(schedule.Rests) {
			rest := &schedule.Rests[i]
			label := "Daily rest"
			if rest.Type == models.RestFerry {
				label = "Daily rest (ferry as rest)"
			}
			lines = append(lines, Line{
				Kind: LineRest,
				Title: fmt.Sprintf("%s: %s from %s to %s.",
					label, FormatHours(rest.Duration), stamp(start, rest.Start), stamp(start, rest.End)),
				Rest:      rest,
				Reducible: !rest.IsReduced(constants.RegularDailyRestHours),
			})
		}
	}

	for _, w := range schedule.Warnings {
		lines = append(lines, Line{Kind: LineWarning, Title: w})
	}

	return lines
}

func segmentLine(seg *models.Segment, start time.Time, isSingle, last bool) Line {
	title := fmt.Sprintf("Segment %d", seg.Index)
	details := []string{fmt.Sprintf("Start at %s.", stamp(start, seg.Start))}

	if seg.IsDelayOnly() {
		extra := ""
		if len(seg.DelayNotes) > 0 {
			extra = fmt.Sprintf(" (Extra: %s)", strings.Join(seg.DelayNotes, ", "))
		}
		details = append(details,
			"Delay-only"+extra,
			fmt.Sprintf("End at %s.", stamp(start, seg.End)),
		)
		return Line{Kind: LineSegment, Title: title, Details: details, Segment: seg}
	}

	details = append(details, fmt.Sprintf("%s, covering %.2f km", driveDetail(seg.DriveTime, isSingle), seg.DistanceKm))

	notes := ""
	if len(seg.DelayNotes) > 0 {
		notes = fmt.Sprintf(" (%s)", strings.Join(seg.DelayNotes, ", "))
	}
	var extras []string
	if seg.InShiftBreak > 0 {
		extras = append(extras, "in-shift break "+FormatHours(seg.InShiftBreak))
	}
	if seg.DelayOnDuty > 0 {
		extras = append(extras, "on-duty delay "+FormatHours(seg.DelayOnDuty)+notes)
	}
	if seg.DelayOffDuty > 0 {
		extras = append(extras, "off-duty delay "+FormatHours(seg.DelayOffDuty)+notes)
	}
	if len(extras) > 0 {
		details = append(details, "("+strings.Join(extras, "; ")+")")
	}

	workEnd := seg.End.Add(-scheduler.HoursToDuration(seg.DelayOffDuty))
	verb := "End work at"
	if last {
		verb = "End at"
	}
	details = append(details, fmt.Sprintf("%s %s.", verb, stamp(start, workEnd)))

	return Line{Kind: LineSegment, Title: title, Details: details, Segment: seg}
}

func driveDetail(drive float64, isSingle bool) string {
	if !isSingle {
		return fmt.Sprintf("Drive %.2fh", drive)
	}
	if drive > constants.ContinuousDriveLimitHours {
		return fmt.Sprintf("Drive %s, 45m break, then drive %s",
			FormatHours(constants.ContinuousDriveLimitHours), FormatHours(drive-constants.ContinuousDriveLimitHours))
	}
	return "Drive " + FormatHours(drive)
}
