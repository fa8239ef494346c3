package repository

import (
	"context"

	"zapshift/internal/domain"
)

// RiderRepository defines the persistence operations for riders.
type RiderRepository interface {
	// Create persists a new rider application.
	Create(ctx context.Context, rider *domain.Rider) error

	// GetByID retrieves a rider by ID.
	GetByID(ctx context.Context, id string) (*domain.Rider, error)

	// GetByStatus retrieves all riders with the given application status.
	GetByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error)

	// GetAvailableByDistrict retrieves approved riders in the district
	// whose work status is available.
	GetAvailableByDistrict(ctx context.Context, district string) ([]*domain.Rider, error)

	// UpdateStatus updates a rider's application status.
	UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) error

	// UpdateWorkStatus updates a rider's availability.
	UpdateWorkStatus(ctx context.Context, id string, status domain.WorkStatus) error
}
