package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"zapshift/internal/domain"
	"zapshift/internal/repository"
)

// TrackingService exposes the append-only tracking log.
type TrackingService struct {
	trackingRepo repository.TrackingRepository
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(trackingRepo repository.TrackingRepository) *TrackingService {
	return &TrackingService{trackingRepo: trackingRepo}
}

// newTrackingEvent builds a log entry for a status change. The detail
// string is the status label with separators replaced by spaces, e.g.
// "pending_pickup" becomes "pending pickup".
func newTrackingEvent(trackingID, status string) *domain.TrackingEvent {
	return &domain.TrackingEvent{
		ID:         uuid.New().String(),
		TrackingID: trackingID,
		Status:     status,
		Detail:     strings.NewReplacer("_", " ", "-", " ").Replace(status),
		CreatedAt:  time.Now(),
	}
}

// Append records a status event against a tracking id.
func (s *TrackingService) Append(ctx context.Context, trackingID, status string) (*domain.TrackingEvent, error) {
	if trackingID == "" {
		return nil, ErrInvalidTrackingID
	}

	event := newTrackingEvent(trackingID, status)
	if err := s.trackingRepo.Append(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// History returns all events for a tracking id, oldest first. An
// unknown id yields an empty history, not an error.
func (s *TrackingService) History(ctx context.Context, trackingID string) ([]*domain.TrackingEvent, error) {
	if trackingID == "" {
		return nil, ErrInvalidTrackingID
	}

	return s.trackingRepo.GetByTrackingID(ctx, trackingID)
}
