package postgres

import (
	"context"
	"database/sql"
	"errors"

	"zapshift/internal/domain"
	"zapshift/internal/repository"
)

// RiderRepository is a PostgreSQL implementation of repository.RiderRepository.
type RiderRepository struct {
	q Querier
}

// NewRiderRepository creates a new PostgreSQL rider repository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{q: db}
}

// NewRiderRepositoryWithTx creates a rider repository using a transaction.
func NewRiderRepositoryWithTx(tx *sql.Tx) *RiderRepository {
	return &RiderRepository{q: tx}
}

const riderColumns = `id, name, email, phone, district, status, work_status, created_at`

// Create persists a new rider application.
func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	query := `
		INSERT INTO riders (` + riderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		rider.ID,
		rider.Name,
		rider.Email,
		rider.Phone,
		rider.District,
		rider.Status,
		rider.WorkStatus,
		rider.CreatedAt,
	)

	return err
}

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	query := `SELECT ` + riderColumns + ` FROM riders WHERE id = $1`

	var rider domain.Rider
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&rider.ID,
		&rider.Name,
		&rider.Email,
		&rider.Phone,
		&rider.District,
		&rider.Status,
		&rider.WorkStatus,
		&rider.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &rider, nil
}

// GetByStatus retrieves all riders with the given application status.
func (r *RiderRepository) GetByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	query := `SELECT ` + riderColumns + ` FROM riders WHERE status = $1 ORDER BY created_at DESC`

	return r.queryRiders(ctx, query, status)
}

// GetAvailableByDistrict retrieves approved riders in the district whose
// work status is available.
func (r *RiderRepository) GetAvailableByDistrict(ctx context.Context, district string) ([]*domain.Rider, error) {
	query := `
		SELECT ` + riderColumns + `
		FROM riders
		WHERE status = $1 AND work_status = $2 AND district = $3
		ORDER BY created_at
	`

	return r.queryRiders(ctx, query, domain.RiderStatusApproved, domain.WorkStatusAvailable, district)
}

// UpdateStatus updates a rider's application status.
func (r *RiderRepository) UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE riders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// UpdateWorkStatus updates a rider's availability.
func (r *RiderRepository) UpdateWorkStatus(ctx context.Context, id string, status domain.WorkStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE riders SET work_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

func (r *RiderRepository) queryRiders(ctx context.Context, query string, args ...any) ([]*domain.Rider, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var riders []*domain.Rider
	for rows.Next() {
		var rider domain.Rider
		err := rows.Scan(
			&rider.ID,
			&rider.Name,
			&rider.Email,
			&rider.Phone,
			&rider.District,
			&rider.Status,
			&rider.WorkStatus,
			&rider.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		riders = append(riders, &rider)
	}

	return riders, rows.Err()
}
