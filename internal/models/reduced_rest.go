package models

import "time"

// ReducedRest records one use of the weekly 9h reduced daily rest allowance.
type ReducedRest struct {
	ID        string    `json:"id"`
	RestIndex int       `json:"rest_index"`
	UsedAt    time.Time `json:"used_at"`
	Note      string    `json:"note,omitempty"`
}
