package postgres

import (
	"context"
	"database/sql"
	"errors"

	"zapshift/internal/domain"
	"zapshift/internal/repository"
)

// ParcelRepository is a PostgreSQL implementation of repository.ParcelRepository.
type ParcelRepository struct {
	q Querier
}

// NewParcelRepository creates a new PostgreSQL parcel repository.
func NewParcelRepository(db *sql.DB) *ParcelRepository {
	return &ParcelRepository{q: db}
}

// NewParcelRepositoryWithTx creates a parcel repository using a transaction.
func NewParcelRepositoryWithTx(tx *sql.Tx) *ParcelRepository {
	return &ParcelRepository{q: tx}
}

const parcelColumns = `
	id, title, sender_email, receiver_email, sender_district, receiver_region,
	cost, tracking_id, delivery_status, payment_status,
	rider_id, rider_name, rider_email, created_at
`

// Create persists a new parcel booking.
func (r *ParcelRepository) Create(ctx context.Context, parcel *domain.Parcel) error {
	query := `
		INSERT INTO parcels (` + parcelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''), $14)
	`

	_, err := r.q.ExecContext(ctx, query,
		parcel.ID,
		parcel.Title,
		parcel.SenderEmail,
		parcel.ReceiverEmail,
		parcel.SenderDistrict,
		parcel.ReceiverRegion,
		parcel.Cost,
		parcel.TrackingID,
		parcel.DeliveryStatus,
		parcel.PaymentStatus,
		parcel.RiderID,
		parcel.RiderName,
		parcel.RiderEmail,
		parcel.CreatedAt,
	)

	return err
}

// GetByID retrieves a parcel by ID.
func (r *ParcelRepository) GetByID(ctx context.Context, id string) (*domain.Parcel, error) {
	query := `SELECT ` + parcelColumns + ` FROM parcels WHERE id = $1`

	parcel, err := scanParcel(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return parcel, nil
}

// GetBySenderEmail retrieves parcels booked by the given sender, newest
// first. An empty email returns every parcel.
func (r *ParcelRepository) GetBySenderEmail(ctx context.Context, email string) ([]*domain.Parcel, error) {
	query := `
		SELECT ` + parcelColumns + `
		FROM parcels
		WHERE $1 = '' OR sender_email = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parcels []*domain.Parcel
	for rows.Next() {
		parcel, err := scanParcel(rows)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, parcel)
	}

	return parcels, rows.Err()
}

// Update persists the parcel's mutable fields.
func (r *ParcelRepository) Update(ctx context.Context, parcel *domain.Parcel) error {
	query := `
		UPDATE parcels
		SET tracking_id = $1,
			delivery_status = $2,
			payment_status = $3,
			rider_id = NULLIF($4, ''),
			rider_name = NULLIF($5, ''),
			rider_email = NULLIF($6, '')
		WHERE id = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		parcel.TrackingID,
		parcel.DeliveryStatus,
		parcel.PaymentStatus,
		parcel.RiderID,
		parcel.RiderName,
		parcel.RiderEmail,
		parcel.ID,
	)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// Delete removes a parcel booking.
func (r *ParcelRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM parcels WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanParcel(row rowScanner) (*domain.Parcel, error) {
	var parcel domain.Parcel
	var riderID, riderName, riderEmail sql.NullString

	err := row.Scan(
		&parcel.ID,
		&parcel.Title,
		&parcel.SenderEmail,
		&parcel.ReceiverEmail,
		&parcel.SenderDistrict,
		&parcel.ReceiverRegion,
		&parcel.Cost,
		&parcel.TrackingID,
		&parcel.DeliveryStatus,
		&parcel.PaymentStatus,
		&riderID,
		&riderName,
		&riderEmail,
		&parcel.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	parcel.RiderID = riderID.String
	parcel.RiderName = riderName.String
	parcel.RiderEmail = riderEmail.String

	return &parcel, nil
}

// requireRowsAffected converts a zero-row update or delete into ErrNotFound.
func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
