package scheduler

import (
	"fmt"

	"github.com/julianstephens/tachoplan/internal/models"
)

// DelayResolution is the delay attributed to a single segment.
type DelayResolution struct {
	ExtraDelay  float64
	Notes       []string
	FerryAsRest bool
	FerryDelay  float64
}

// ResolveDelays sums the refuel and ferry delay keyed to segmentIndex.
// Refuel notes come first in input order, the ferry note last.
func ResolveDelays(segmentIndex int, refuels []models.DelayEvent, ferry *models.FerryEvent, settings models.Settings) DelayResolution {
	res := DelayResolution{Notes: []string{}}

	for _, ev := range refuels {
		if ev.SegmentIndex != segmentIndex {
			continue
		}
		res.ExtraDelay += ev.DelayHours
		res.Notes = append(res.Notes, fmt.Sprintf("refuel %.2fh", ev.DelayHours))
	}

	if ferry != nil && ferry.DelayHours > 0 && ferry.SegmentIndex == segmentIndex {
		res.FerryDelay = ferry.DelayHours
		res.ExtraDelay += ferry.DelayHours
		res.Notes = append(res.Notes, fmt.Sprintf("ferry %.2fh", ferry.DelayHours))
		if settings.AutoFerryRest && ferry.DelayHours >= settings.AutoFerryRestThreshold {
			res.FerryAsRest = true
		}
	}

	return res
}
