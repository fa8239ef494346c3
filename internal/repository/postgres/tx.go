package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"zapshift/internal/repository"
)

// TxManager runs functions inside a single PostgreSQL transaction,
// handing them repositories bound to that transaction.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx begins a transaction, runs fn against transaction-scoped
// repositories, and commits. Any error from fn rolls the whole
// transaction back.
func (m *TxManager) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	repos := repository.Repositories{
		Parcels:  NewParcelRepositoryWithTx(tx),
		Riders:   NewRiderRepositoryWithTx(tx),
		Users:    NewUserRepositoryWithTx(tx),
		Payments: NewPaymentRepositoryWithTx(tx),
		Tracking: NewTrackingRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
