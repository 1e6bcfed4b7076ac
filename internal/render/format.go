package render

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/tachoplan/internal/constants"
)

// FormatHours renders fractional hours as "9h 05m", rounded to the minute
func FormatHours(h float64) string {
	if h < 0 {
		return "-" + FormatHours(-h)
	}
	minutes := int(math.Round(h * 60))
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// FormatClock renders a wall-clock time as HH:MM
func FormatClock(t time.Time) string {
	return t.Format(constants.TimeFormat)
}

// FormatDateTime renders a timestamp as YYYY-MM-DD HH:MM
func FormatDateTime(t time.Time) string {
	return t.Format(constants.DateTimeFormat)
}

// stamp renders t as a clock time, tagged with the trip day once the trip
// has crossed midnight.
func stamp(start, t time.Time) string {
	day := dayNumber(start, t)
	if day <= 1 {
		return FormatClock(t)
	}
	return fmt.Sprintf("%s (day %d)", FormatClock(t), day)
}

func dayNumber(start, t time.Time) int {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := t.In(start.Location()).Date()
	first := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	cur := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(cur.Sub(first).Hours()/24) + 1
}
