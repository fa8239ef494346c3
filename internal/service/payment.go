package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zapshift/internal/auth"
	"zapshift/internal/domain"
	"zapshift/internal/repository"
)

// CheckoutSession is the provider's view of a checkout, as returned by
// CreateSession and RetrieveSession. AmountTotal is in minor units.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	AmountTotal     int64
	Currency        string
	CustomerEmail   string
	ParcelID        string
	TrackingID      string
}

// sessionPaid is the provider's payment status for a completed checkout.
const sessionPaid = "paid"

// CreateSessionRequest contains the parameters for opening a checkout
// session with the provider.
type CreateSessionRequest struct {
	AmountMinor   int64
	Currency      string
	ProductName   string
	CustomerEmail string
	ParcelID      string
	TrackingID    string
}

// CheckoutProvider is the external checkout service. The provider is
// the source of truth for payment success; local state only changes
// after RetrieveSession reports the session paid.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

// PaymentService creates checkout sessions and reconciles their
// outcomes into payment records and parcel state.
type PaymentService struct {
	parcelRepo  repository.ParcelRepository
	paymentRepo repository.PaymentRepository
	tx          repository.TxManager
	provider    CheckoutProvider
	currency    string
	notifier    *NotificationService
}

// NewPaymentService creates a new PaymentService. notifier may be nil.
func NewPaymentService(
	parcelRepo repository.ParcelRepository,
	paymentRepo repository.PaymentRepository,
	tx repository.TxManager,
	provider CheckoutProvider,
	currency string,
	notifier *NotificationService,
) *PaymentService {
	return &PaymentService{
		parcelRepo:  parcelRepo,
		paymentRepo: paymentRepo,
		tx:          tx,
		provider:    provider,
		currency:    currency,
		notifier:    notifier,
	}
}

// CreateCheckoutRequest contains the parameters for starting payment
// of a parcel booking.
type CreateCheckoutRequest struct {
	ParcelID string
	Caller   *auth.Principal
}

// CreateCheckout opens a provider checkout session for an unpaid
// parcel and returns the session with its redirect URL. The session
// carries the parcel and tracking ids as metadata so reconciliation
// can find its way back.
func (s *PaymentService) CreateCheckout(ctx context.Context, req CreateCheckoutRequest) (*CheckoutSession, error) {
	if req.Caller == nil {
		return nil, ErrUnauthorized
	}

	if req.ParcelID == "" {
		return nil, ErrInvalidParcelID
	}

	parcel, err := s.parcelRepo.GetByID(ctx, req.ParcelID)
	if err != nil {
		return nil, err
	}

	if !req.Caller.CanActFor(parcel.SenderEmail) {
		return nil, ErrForbidden
	}

	if parcel.PaymentStatus == domain.PaymentStatusPaid {
		return nil, ErrParcelAlreadyPaid
	}

	session, err := s.provider.CreateSession(ctx, CreateSessionRequest{
		AmountMinor:   int64(parcel.Cost * 100),
		Currency:      s.currency,
		ProductName:   fmt.Sprintf("Parcel delivery %s", parcel.TrackingID),
		CustomerEmail: parcel.SenderEmail,
		ParcelID:      parcel.ID,
		TrackingID:    parcel.TrackingID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckoutUnavailable, err)
	}

	return session, nil
}

// ReconciliationResult reports the outcome of reconciling a checkout
// session.
type ReconciliationResult struct {
	Status        string
	AlreadyExists bool
	TrackingID    string
	TransactionID string
	Amount        float64
}

// Reconcile confirms a checkout session's outcome with the provider
// and applies the resulting state exactly once. Re-reconciling a
// session (webhook redelivery, success-page reload) returns the
// original payment unchanged. An unpaid session is reported
// explicitly, with no local writes.
func (s *PaymentService) Reconcile(ctx context.Context, sessionID string) (*ReconciliationResult, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	session, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckoutUnavailable, err)
	}

	// Idempotency: one payment record per provider transaction id.
	existing, err := s.paymentRepo.GetByTransactionID(ctx, session.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ReconciliationResult{
			Status:        sessionPaid,
			AlreadyExists: true,
			TrackingID:    existing.TrackingID,
			TransactionID: existing.TransactionID,
			Amount:        existing.Amount,
		}, nil
	}

	if session.PaymentStatus != sessionPaid {
		return &ReconciliationResult{Status: session.PaymentStatus}, nil
	}

	parcel, err := s.parcelRepo.GetByID(ctx, session.ParcelID)
	if err != nil {
		return nil, err
	}

	if parcel.PaymentStatus == domain.PaymentStatusPaid {
		return nil, ErrParcelAlreadyPaid
	}

	payment := &domain.Payment{
		ID:            uuid.New().String(),
		ParcelID:      parcel.ID,
		TrackingID:    parcel.TrackingID,
		Amount:        float64(session.AmountTotal) / 100,
		Currency:      session.Currency,
		CustomerEmail: session.CustomerEmail,
		TransactionID: session.PaymentIntentID,
		Status:        domain.PaymentStatusPaid,
		PaidAt:        time.Now(),
	}

	parcel.PaymentStatus = domain.PaymentStatusPaid
	parcel.DeliveryStatus = domain.DeliveryStatusPendingPickup

	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Parcels.Update(ctx, parcel); err != nil {
			return err
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}
		return r.Tracking.Append(ctx, newTrackingEvent(parcel.TrackingID, string(domain.DeliveryStatusPendingPickup)))
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyPaymentConfirmed(ctx, parcel, payment)
	}

	return &ReconciliationResult{
		Status:        sessionPaid,
		TrackingID:    payment.TrackingID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
	}, nil
}

// History returns the caller's payments, newest first.
func (s *PaymentService) History(ctx context.Context, caller *auth.Principal) ([]*domain.Payment, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	return s.paymentRepo.GetByCustomerEmail(ctx, caller.Email)
}
