package repository

import (
	"context"

	"zapshift/internal/domain"
)

// ParcelRepository defines the persistence operations for parcels.
type ParcelRepository interface {
	// Create persists a new parcel booking.
	Create(ctx context.Context, parcel *domain.Parcel) error

	// GetByID retrieves a parcel by ID.
	GetByID(ctx context.Context, id string) (*domain.Parcel, error)

	// GetBySenderEmail retrieves all parcels booked by the given sender,
	// newest first. An empty email returns every parcel.
	GetBySenderEmail(ctx context.Context, email string) ([]*domain.Parcel, error)

	// Update persists the parcel's mutable fields (statuses, tracking id,
	// rider reference).
	Update(ctx context.Context, parcel *domain.Parcel) error

	// Delete removes a parcel booking.
	Delete(ctx context.Context, id string) error
}
