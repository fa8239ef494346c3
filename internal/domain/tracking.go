package domain

import "time"

// TrackingEvent is one append-only entry in a parcel's status log,
// keyed by the public tracking identifier rather than the parcel id.
type TrackingEvent struct {
	ID         string
	TrackingID string
	Status     string
	Detail     string
	CreatedAt  time.Time
}
