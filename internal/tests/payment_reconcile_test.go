package tests

import (
	"context"
	"errors"
	"testing"

	"zapshift/internal/domain"
	"zapshift/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT RECONCILIATION
// ──────────────────────────────────────────────

type paymentFixture struct {
	parcelRepo   *MockParcelRepository
	paymentRepo  *MockPaymentRepository
	trackingRepo *MockTrackingRepository
	provider     *MockCheckoutProvider
	service      *service.PaymentService
}

func newPaymentFixture() *paymentFixture {
	parcelRepo := NewMockParcelRepository()
	riderRepo := NewMockRiderRepository()
	userRepo := NewMockUserRepository()
	paymentRepo := NewMockPaymentRepository()
	trackingRepo := NewMockTrackingRepository()
	provider := NewMockCheckoutProvider()
	tx := NewMockTxManager(parcelRepo, riderRepo, userRepo, paymentRepo, trackingRepo)

	return &paymentFixture{
		parcelRepo:   parcelRepo,
		paymentRepo:  paymentRepo,
		trackingRepo: trackingRepo,
		provider:     provider,
		service:      service.NewPaymentService(parcelRepo, paymentRepo, tx, provider, "bdt", nil),
	}
}

func addUnpaidParcel(f *paymentFixture) *domain.Parcel {
	parcel := &domain.Parcel{
		ID:             "parcel-1",
		Title:          "Documents",
		SenderEmail:    "sender@x.com",
		ReceiverEmail:  "receiver@x.com",
		Cost:           500,
		TrackingID:     "BD-0A1B2C3D",
		DeliveryStatus: domain.DeliveryStatusCreated,
		PaymentStatus:  domain.PaymentStatusUnpaid,
	}
	f.parcelRepo.AddParcel(parcel)
	return parcel
}

func addPaidSession(f *paymentFixture, parcel *domain.Parcel) *service.CheckoutSession {
	session := &service.CheckoutSession{
		ID:              "cs_test_paid",
		PaymentStatus:   "paid",
		PaymentIntentID: "pi_123",
		AmountTotal:     50000,
		Currency:        "bdt",
		CustomerEmail:   parcel.SenderEmail,
		ParcelID:        parcel.ID,
		TrackingID:      parcel.TrackingID,
	}
	f.provider.AddSession(session)
	return session
}

func TestReconcile_PaidSessionRecordsPaymentAndAdvancesParcel(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	parcel := addUnpaidParcel(f)
	session := addPaidSession(f, parcel)

	result, err := f.service.Reconcile(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != "paid" || result.AlreadyExists {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Amount != 500 {
		t.Errorf("expected amount 500 from 50000 minor units, got %v", result.Amount)
	}
	if result.TransactionID != "pi_123" || result.TrackingID != parcel.TrackingID {
		t.Errorf("result ids wrong: %+v", result)
	}

	stored := f.parcelRepo.GetParcel(parcel.ID)
	if stored.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("expected parcel paid, got %s", stored.PaymentStatus)
	}
	if stored.DeliveryStatus != domain.DeliveryStatusPendingPickup {
		t.Errorf("expected parcel %s, got %s", domain.DeliveryStatusPendingPickup, stored.DeliveryStatus)
	}

	if got := f.paymentRepo.CountPayments(); got != 1 {
		t.Errorf("expected 1 payment record, got %d", got)
	}
	if got := f.trackingRepo.CountEvents(parcel.TrackingID); got != 1 {
		t.Errorf("expected 1 tracking event, got %d", got)
	}
}

func TestReconcile_SecondCallIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	parcel := addUnpaidParcel(f)
	session := addPaidSession(f, parcel)

	first, err := f.service.Reconcile(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("unexpected error on first reconcile: %v", err)
	}

	second, err := f.service.Reconcile(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("unexpected error on second reconcile: %v", err)
	}

	if !second.AlreadyExists {
		t.Error("expected AlreadyExists on repeated reconciliation")
	}
	if second.TransactionID != first.TransactionID || second.TrackingID != first.TrackingID || second.Amount != first.Amount {
		t.Errorf("repeated reconciliation changed the reported payment: first=%+v second=%+v", first, second)
	}

	if got := f.paymentRepo.CountPayments(); got != 1 {
		t.Errorf("expected exactly 1 payment record after double reconcile, got %d", got)
	}
	if got := f.trackingRepo.CountEvents(parcel.TrackingID); got != 1 {
		t.Errorf("expected exactly 1 tracking event after double reconcile, got %d", got)
	}
}

func TestReconcile_UnpaidSessionWritesNothing(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	parcel := addUnpaidParcel(f)
	f.provider.AddSession(&service.CheckoutSession{
		ID:              "cs_test_open",
		PaymentStatus:   "unpaid",
		PaymentIntentID: "pi_open",
		ParcelID:        parcel.ID,
		TrackingID:      parcel.TrackingID,
	})

	result, err := f.service.Reconcile(context.Background(), "cs_test_open")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != "unpaid" {
		t.Errorf("expected status unpaid, got %q", result.Status)
	}
	if result.AlreadyExists {
		t.Error("unpaid session must not report an existing payment")
	}

	if got := f.parcelRepo.GetParcel(parcel.ID).PaymentStatus; got != domain.PaymentStatusUnpaid {
		t.Errorf("parcel mutated by unpaid reconcile: %s", got)
	}
	if got := f.paymentRepo.CountPayments(); got != 0 {
		t.Errorf("expected no payment records, got %d", got)
	}
	if got := f.trackingRepo.CountEvents(parcel.TrackingID); got != 0 {
		t.Errorf("expected no tracking events, got %d", got)
	}
}

func TestReconcile_ProviderFailureSurfaces(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	f.provider.RetrieveSessionError = errors.New("connection reset")

	_, err := f.service.Reconcile(context.Background(), "cs_test_paid")
	if !errors.Is(err, service.ErrCheckoutUnavailable) {
		t.Fatalf("expected ErrCheckoutUnavailable, got %v", err)
	}
}

func TestReconcile_EmptySessionIDRejected(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()

	_, err := f.service.Reconcile(context.Background(), "")
	if !errors.Is(err, service.ErrInvalidSessionID) {
		t.Fatalf("expected ErrInvalidSessionID, got %v", err)
	}
}

func TestCreateCheckout_ReturnsSessionWithMetadata(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	parcel := addUnpaidParcel(f)

	session, err := f.service.CreateCheckout(context.Background(), service.CreateCheckoutRequest{
		ParcelID: parcel.ID,
		Caller:   userCaller(parcel.SenderEmail),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.URL == "" {
		t.Error("expected redirect URL on session")
	}
	if session.AmountTotal != 50000 {
		t.Errorf("expected 50000 minor units for cost 500, got %d", session.AmountTotal)
	}
	if session.ParcelID != parcel.ID || session.TrackingID != parcel.TrackingID {
		t.Errorf("session metadata wrong: %+v", session)
	}
}

func TestCreateCheckout_NonOwnerForbidden(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	parcel := addUnpaidParcel(f)

	_, err := f.service.CreateCheckout(context.Background(), service.CreateCheckoutRequest{
		ParcelID: parcel.ID,
		Caller:   userCaller("stranger@x.com"),
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateCheckout_AlreadyPaidRejected(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	parcel := addUnpaidParcel(f)
	parcel.PaymentStatus = domain.PaymentStatusPaid
	f.parcelRepo.AddParcel(parcel)

	_, err := f.service.CreateCheckout(context.Background(), service.CreateCheckoutRequest{
		ParcelID: parcel.ID,
		Caller:   userCaller(parcel.SenderEmail),
	})
	if !errors.Is(err, service.ErrParcelAlreadyPaid) {
		t.Fatalf("expected ErrParcelAlreadyPaid, got %v", err)
	}

	if got := f.provider.CreateSessionCallCount; got != 0 {
		t.Errorf("provider must not be called for a paid parcel, got %d calls", got)
	}
}
