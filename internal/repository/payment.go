package repository

import (
	"context"

	"zapshift/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment record.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByTransactionID retrieves a payment by the checkout provider's
	// transaction identifier. Returns nil if no payment exists with the
	// given id.
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)

	// GetByCustomerEmail retrieves all payments made by the given
	// customer, newest first.
	GetByCustomerEmail(ctx context.Context, email string) ([]*domain.Payment, error)
}
