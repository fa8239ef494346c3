package repository

import (
	"context"

	"zapshift/internal/domain"
)

// TrackingRepository defines the persistence operations for the
// append-only tracking log.
type TrackingRepository interface {
	// Append persists a new tracking event.
	Append(ctx context.Context, event *domain.TrackingEvent) error

	// GetByTrackingID retrieves all events for a tracking id, oldest
	// first. An unknown id yields an empty slice, not an error.
	GetByTrackingID(ctx context.Context, trackingID string) ([]*domain.TrackingEvent, error)
}
