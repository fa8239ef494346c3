package postgres

import (
	"context"
	"database/sql"

	"zapshift/internal/domain"
)

// TrackingRepository is a PostgreSQL implementation of repository.TrackingRepository.
type TrackingRepository struct {
	q Querier
}

// NewTrackingRepository creates a new PostgreSQL tracking repository.
func NewTrackingRepository(db *sql.DB) *TrackingRepository {
	return &TrackingRepository{q: db}
}

// NewTrackingRepositoryWithTx creates a tracking repository using a transaction.
func NewTrackingRepositoryWithTx(tx *sql.Tx) *TrackingRepository {
	return &TrackingRepository{q: tx}
}

// Append persists a new tracking event.
func (r *TrackingRepository) Append(ctx context.Context, event *domain.TrackingEvent) error {
	query := `
		INSERT INTO tracking_events (id, tracking_id, status, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		event.ID,
		event.TrackingID,
		event.Status,
		event.Detail,
		event.CreatedAt,
	)

	return err
}

// GetByTrackingID retrieves all events for a tracking id, oldest first.
func (r *TrackingRepository) GetByTrackingID(ctx context.Context, trackingID string) ([]*domain.TrackingEvent, error) {
	query := `
		SELECT id, tracking_id, status, detail, created_at
		FROM tracking_events
		WHERE tracking_id = $1
		ORDER BY created_at
	`

	rows, err := r.q.QueryContext(ctx, query, trackingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.TrackingEvent
	for rows.Next() {
		var event domain.TrackingEvent
		err := rows.Scan(
			&event.ID,
			&event.TrackingID,
			&event.Status,
			&event.Detail,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}
