package repository

import "context"

// Repositories bundles the per-entity repositories bound to a single
// storage context (a live transaction, or an in-memory fake in tests).
type Repositories struct {
	Parcels  ParcelRepository
	Riders   RiderRepository
	Users    UserRepository
	Payments PaymentRepository
	Tracking TrackingRepository
}

// TxManager runs a function against transaction-scoped repositories.
// If fn returns an error the transaction is rolled back, otherwise
// committed. Multi-entity lifecycle writes (parcel+rider on assignment
// and delivery, rider+user on approval) go through here so the paired
// writes land atomically.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
