package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/tachoplan/internal/models"
)

func TestResolveDelays(t *testing.T) {
	settings := models.DefaultSettings()

	tests := []struct {
		name        string
		segment     int
		refuels     []models.DelayEvent
		ferry       *models.FerryEvent
		settings    models.Settings
		wantDelay   float64
		wantNotes   []string
		wantAsRest  bool
		wantFerryHr float64
	}{
		{
			name:      "no events",
			segment:   1,
			settings:  settings,
			wantNotes: []string{},
		},
		{
			name:    "refuels for other segments are ignored",
			segment: 2,
			refuels: []models.DelayEvent{
				{SegmentIndex: 1, DelayHours: 1},
				{SegmentIndex: 2, DelayHours: 1},
				{SegmentIndex: 2, DelayHours: 0.5},
				{SegmentIndex: 3, DelayHours: 1},
			},
			settings:  settings,
			wantDelay: 1.5,
			wantNotes: []string{"refuel 1.00h", "refuel 0.50h"},
		},
		{
			name:        "refuel and ferry on same segment",
			segment:     1,
			refuels:     []models.DelayEvent{{SegmentIndex: 1, DelayHours: 1}},
			ferry:       &models.FerryEvent{SegmentIndex: 1, DelayHours: 7},
			settings:    settings,
			wantDelay:   8,
			wantNotes:   []string{"refuel 1.00h", "ferry 7.00h"},
			wantAsRest:  true,
			wantFerryHr: 7,
		},
		{
			name:        "ferry below threshold stays a delay",
			segment:     1,
			ferry:       &models.FerryEvent{SegmentIndex: 1, DelayHours: 2},
			settings:    settings,
			wantDelay:   2,
			wantNotes:   []string{"ferry 2.00h"},
			wantFerryHr: 2,
		},
		{
			name:    "ferry exactly at threshold becomes rest",
			segment: 1,
			ferry:   &models.FerryEvent{SegmentIndex: 1, DelayHours: 6},
			settings: func() models.Settings {
				s := settings
				s.AutoFerryRestThreshold = 6
				return s
			}(),
			wantDelay:   6,
			wantNotes:   []string{"ferry 6.00h"},
			wantAsRest:  true,
			wantFerryHr: 6,
		},
		{
			name:    "auto ferry rest disabled",
			segment: 1,
			ferry:   &models.FerryEvent{SegmentIndex: 1, DelayHours: 8},
			settings: func() models.Settings {
				s := settings
				s.AutoFerryRest = false
				return s
			}(),
			wantDelay:   8,
			wantNotes:   []string{"ferry 8.00h"},
			wantFerryHr: 8,
		},
		{
			name:    "zero threshold converts any positive ferry",
			segment: 1,
			ferry:   &models.FerryEvent{SegmentIndex: 1, DelayHours: 0.25},
			settings: func() models.Settings {
				s := settings
				s.AutoFerryRestThreshold = 0
				return s
			}(),
			wantDelay:   0.25,
			wantNotes:   []string{"ferry 0.25h"},
			wantAsRest:  true,
			wantFerryHr: 0.25,
		},
		{
			name:    "zero-length ferry is ignored",
			segment: 1,
			ferry:   &models.FerryEvent{SegmentIndex: 1, DelayHours: 0},
			settings: func() models.Settings {
				s := settings
				s.AutoFerryRestThreshold = 0
				return s
			}(),
			wantNotes: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDelays(tt.segment, tt.refuels, tt.ferry, tt.settings)
			assert.InDelta(t, tt.wantDelay, got.ExtraDelay, 1e-9)
			assert.Equal(t, tt.wantNotes, got.Notes)
			assert.Equal(t, tt.wantAsRest, got.FerryAsRest)
			assert.InDelta(t, tt.wantFerryHr, got.FerryDelay, 1e-9)
		})
	}
}

func TestResolveDelays_Idempotent(t *testing.T) {
	refuels := []models.DelayEvent{{SegmentIndex: 1, DelayHours: 1}, {SegmentIndex: 1, DelayHours: 1}}
	ferry := &models.FerryEvent{SegmentIndex: 1, DelayHours: 3}
	settings := models.DefaultSettings()

	first := ResolveDelays(1, refuels, ferry, settings)
	second := ResolveDelays(1, refuels, ferry, settings)
	assert.Equal(t, first, second)
	assert.Len(t, refuels, 2)
}
