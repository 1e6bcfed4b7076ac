package scheduler

import (
	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/models"
)

// DefaultRestPolicy always returns the regular 11h daily rest.
func DefaultRestPolicy() models.RestPolicy {
	return func() float64 {
		return constants.RegularDailyRestHours
	}
}

// ForcedRestPolicy returns the reduced 9h rest for the rest numbers in forced
// (1-based, counted per call) and the regular rest otherwise. Each returned
// policy keeps its own counter, so build a fresh one per scheduling run.
func ForcedRestPolicy(forced map[int]bool) models.RestPolicy {
	n := 0
	return func() float64 {
		n++
		if forced[n] {
			return constants.ReducedDailyRestHours
		}
		return constants.RegularDailyRestHours
	}
}
