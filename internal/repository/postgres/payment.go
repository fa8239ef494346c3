package postgres

import (
	"context"
	"database/sql"
	"errors"

	"zapshift/internal/domain"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, parcel_id, tracking_id, amount, currency, customer_email, transaction_id, status, paid_at`

// Create persists a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.ParcelID,
		payment.TrackingID,
		payment.Amount,
		payment.Currency,
		payment.CustomerEmail,
		payment.TransactionID,
		payment.Status,
		payment.PaidAt,
	)

	return err
}

// GetByTransactionID retrieves a payment by the checkout provider's
// transaction identifier. Returns nil if no payment exists with the
// given id.
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	var payment domain.Payment
	err := r.q.QueryRowContext(ctx, query, transactionID).Scan(
		&payment.ID,
		&payment.ParcelID,
		&payment.TrackingID,
		&payment.Amount,
		&payment.Currency,
		&payment.CustomerEmail,
		&payment.TransactionID,
		&payment.Status,
		&payment.PaidAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &payment, nil
}

// GetByCustomerEmail retrieves all payments made by the given customer,
// newest first.
func (r *PaymentRepository) GetByCustomerEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE customer_email = $1
		ORDER BY paid_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		var payment domain.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.ParcelID,
			&payment.TrackingID,
			&payment.Amount,
			&payment.Currency,
			&payment.CustomerEmail,
			&payment.TransactionID,
			&payment.Status,
			&payment.PaidAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, &payment)
	}

	return payments, rows.Err()
}
