package tests

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"zapshift/internal/auth"
	"zapshift/internal/domain"
	"zapshift/internal/repository"
	"zapshift/internal/service"
)

// ──────────────────────────────────────────────
// PARCEL LIFECYCLE
// ──────────────────────────────────────────────

type lifecycleFixture struct {
	parcelRepo   *MockParcelRepository
	riderRepo    *MockRiderRepository
	trackingRepo *MockTrackingRepository
	lockStore    *MockLockStore
	service      *service.ParcelService
}

func newLifecycleFixture() *lifecycleFixture {
	parcelRepo := NewMockParcelRepository()
	riderRepo := NewMockRiderRepository()
	userRepo := NewMockUserRepository()
	paymentRepo := NewMockPaymentRepository()
	trackingRepo := NewMockTrackingRepository()
	lockStore := NewMockLockStore()
	tx := NewMockTxManager(parcelRepo, riderRepo, userRepo, paymentRepo, trackingRepo)

	return &lifecycleFixture{
		parcelRepo:   parcelRepo,
		riderRepo:    riderRepo,
		trackingRepo: trackingRepo,
		lockStore:    lockStore,
		service:      service.NewParcelService(parcelRepo, riderRepo, tx, lockStore, nil, nil),
	}
}

func adminCaller() *auth.Principal {
	return &auth.Principal{Email: "admin@zapshift.test", Role: domain.RoleAdmin}
}

func userCaller(email string) *auth.Principal {
	return &auth.Principal{Email: email, Role: domain.RoleUser}
}

func riderCaller(email string) *auth.Principal {
	return &auth.Principal{Email: email, Role: domain.RoleRider}
}

func addPaidParcel(f *lifecycleFixture, id string) *domain.Parcel {
	parcel := &domain.Parcel{
		ID:             id,
		SenderEmail:    "sender@x.com",
		ReceiverEmail:  "receiver@x.com",
		Cost:           500,
		TrackingID:     "BD-0A1B2C3D",
		DeliveryStatus: domain.DeliveryStatusPendingPickup,
		PaymentStatus:  domain.PaymentStatusPaid,
		CreatedAt:      time.Now(),
	}
	f.parcelRepo.AddParcel(parcel)
	return parcel
}

func addAvailableRider(f *lifecycleFixture, id string) *domain.Rider {
	rider := &domain.Rider{
		ID:         id,
		Name:       "Rahim",
		Email:      "rider@x.com",
		District:   "Dhaka",
		Status:     domain.RiderStatusApproved,
		WorkStatus: domain.WorkStatusAvailable,
	}
	f.riderRepo.AddRider(rider)
	return rider
}

var trackingIDPattern = regexp.MustCompile(`^BD-[0-9A-F]{8}$`)

func TestCreateParcel_AssignsTrackingIDAndLogsCreation(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()

	parcel, err := f.service.Create(context.Background(), service.CreateParcelRequest{
		Title:         "Documents",
		SenderEmail:   "a@x.com",
		ReceiverEmail: "b@x.com",
		Cost:          500,
		Caller:        userCaller("a@x.com"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !trackingIDPattern.MatchString(parcel.TrackingID) {
		t.Errorf("tracking id %q does not match BD-XXXXXXXX format", parcel.TrackingID)
	}
	if parcel.DeliveryStatus != domain.DeliveryStatusCreated {
		t.Errorf("expected delivery status %s, got %s", domain.DeliveryStatusCreated, parcel.DeliveryStatus)
	}
	if parcel.PaymentStatus != domain.PaymentStatusUnpaid {
		t.Errorf("expected payment status %s, got %s", domain.PaymentStatusUnpaid, parcel.PaymentStatus)
	}

	if got := f.trackingRepo.CountEvents(parcel.TrackingID); got != 1 {
		t.Errorf("expected 1 tracking event after creation, got %d", got)
	}
	events, _ := f.trackingRepo.GetByTrackingID(context.Background(), parcel.TrackingID)
	if events[0].Status != "Parcel_Created" {
		t.Errorf("expected creation event Parcel_Created, got %s", events[0].Status)
	}
}

func TestCreateParcel_TrackingIDsAreUnique(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		parcel, err := f.service.Create(context.Background(), service.CreateParcelRequest{
			SenderEmail:   "a@x.com",
			ReceiverEmail: "b@x.com",
			Cost:          100,
			Caller:        userCaller("a@x.com"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[parcel.TrackingID] {
			t.Fatalf("duplicate tracking id %s", parcel.TrackingID)
		}
		seen[parcel.TrackingID] = true
	}
}

func TestCreateParcel_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()

	_, err := f.service.Create(context.Background(), service.CreateParcelRequest{
		SenderEmail:   "a@x.com",
		ReceiverEmail: "b@x.com",
		Cost:          100,
	})
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAssignRider_SetsParcelAndRiderState(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	parcel := addPaidParcel(f, "parcel-1")
	rider := addAvailableRider(f, "rider-1")

	result, err := f.service.AssignRider(context.Background(), service.AssignRiderRequest{
		ParcelID: parcel.ID,
		RiderID:  rider.ID,
		Caller:   adminCaller(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.DeliveryStatus != domain.DeliveryStatusRiderAssigned {
		t.Errorf("expected delivery status %s, got %s", domain.DeliveryStatusRiderAssigned, result.DeliveryStatus)
	}
	if result.RiderID != rider.ID || result.RiderEmail != rider.Email || result.RiderName != rider.Name {
		t.Errorf("rider reference not set on parcel: %+v", result)
	}

	if got := f.riderRepo.GetRider(rider.ID).WorkStatus; got != domain.WorkStatusInDelivery {
		t.Errorf("expected rider work status %s, got %s", domain.WorkStatusInDelivery, got)
	}

	if got := f.trackingRepo.CountEvents(parcel.TrackingID); got != 1 {
		t.Errorf("expected 1 tracking event after assignment, got %d", got)
	}
}

func TestAssignRider_NonAdminForbidden(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	parcel := addPaidParcel(f, "parcel-1")
	rider := addAvailableRider(f, "rider-1")

	_, err := f.service.AssignRider(context.Background(), service.AssignRiderRequest{
		ParcelID: parcel.ID,
		RiderID:  rider.ID,
		Caller:   userCaller("sender@x.com"),
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// No mutation happened.
	if got := f.parcelRepo.GetParcel(parcel.ID).DeliveryStatus; got != domain.DeliveryStatusPendingPickup {
		t.Errorf("parcel mutated by forbidden call: %s", got)
	}
	if got := f.riderRepo.GetRider(rider.ID).WorkStatus; got != domain.WorkStatusAvailable {
		t.Errorf("rider mutated by forbidden call: %s", got)
	}
}

func TestAssignRider_UnknownParcelNotFound(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	addAvailableRider(f, "rider-1")

	_, err := f.service.AssignRider(context.Background(), service.AssignRiderRequest{
		ParcelID: "nope",
		RiderID:  "rider-1",
		Caller:   adminCaller(),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignRider_UnpaidParcelRejected(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	f.parcelRepo.AddParcel(&domain.Parcel{
		ID:             "parcel-1",
		SenderEmail:    "sender@x.com",
		TrackingID:     "BD-0A1B2C3D",
		DeliveryStatus: domain.DeliveryStatusCreated,
		PaymentStatus:  domain.PaymentStatusUnpaid,
	})
	addAvailableRider(f, "rider-1")

	_, err := f.service.AssignRider(context.Background(), service.AssignRiderRequest{
		ParcelID: "parcel-1",
		RiderID:  "rider-1",
		Caller:   adminCaller(),
	})
	if !errors.Is(err, service.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestAssignRider_BusyRiderRejected(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	parcel := addPaidParcel(f, "parcel-1")
	rider := addAvailableRider(f, "rider-1")
	rider.WorkStatus = domain.WorkStatusInDelivery
	f.riderRepo.AddRider(rider)

	_, err := f.service.AssignRider(context.Background(), service.AssignRiderRequest{
		ParcelID: parcel.ID,
		RiderID:  rider.ID,
		Caller:   adminCaller(),
	})
	if !errors.Is(err, service.ErrRiderUnavailable) {
		t.Fatalf("expected ErrRiderUnavailable, got %v", err)
	}
}

func TestAssignRider_LockedRiderRejected(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	parcel := addPaidParcel(f, "parcel-1")
	rider := addAvailableRider(f, "rider-1")
	f.lockStore.DenyAll = true

	_, err := f.service.AssignRider(context.Background(), service.AssignRiderRequest{
		ParcelID: parcel.ID,
		RiderID:  rider.ID,
		Caller:   adminCaller(),
	})
	if !errors.Is(err, service.ErrRiderUnavailable) {
		t.Fatalf("expected ErrRiderUnavailable when lock is held, got %v", err)
	}
}

// barrierLockStore holds every acquirer until the expected number of
// callers have arrived, then hands the lock to one caller at a time.
// This forces concurrent assignments to complete their pre-lock rider
// read before either of them holds the lock.
type barrierLockStore struct {
	mu       sync.Mutex
	cond     *sync.Cond
	held     bool
	arrivals int
	expected int
}

func newBarrierLockStore(expected int) *barrierLockStore {
	s := &barrierLockStore{expected: expected}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *barrierLockStore) AcquireRiderLock(ctx context.Context, riderID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.arrivals++
	s.cond.Broadcast()
	for s.arrivals < s.expected || s.held {
		s.cond.Wait()
	}

	s.held = true
	return true, nil
}

func (s *barrierLockStore) ReleaseRiderLock(ctx context.Context, riderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.held = false
	s.cond.Broadcast()
	return nil
}

func TestAssignRider_ConcurrentAssignmentsSingleWinner(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	lockStore := newBarrierLockStore(2)
	svc := service.NewParcelService(f.parcelRepo, f.riderRepo, NewMockTxManager(
		f.parcelRepo, f.riderRepo, NewMockUserRepository(), NewMockPaymentRepository(), f.trackingRepo,
	), lockStore, nil, nil)

	p1 := addPaidParcel(f, "parcel-1")
	p2 := addPaidParcel(f, "parcel-2")
	p2.TrackingID = "BD-11223344"
	f.parcelRepo.AddParcel(p2)
	rider := addAvailableRider(f, "rider-1")

	errs := make(chan error, 2)
	for _, parcelID := range []string{p1.ID, p2.ID} {
		go func(id string) {
			_, err := svc.AssignRider(context.Background(), service.AssignRiderRequest{
				ParcelID: id,
				RiderID:  rider.ID,
				Caller:   adminCaller(),
			})
			errs <- err
		}(parcelID)
	}

	var succeeded, unavailable int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrRiderUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 || unavailable != 1 {
		t.Fatalf("expected exactly one assignment to win, got %d successes and %d unavailable", succeeded, unavailable)
	}

	var assigned int
	for _, id := range []string{p1.ID, p2.ID} {
		if f.parcelRepo.GetParcel(id).RiderID == rider.ID {
			assigned++
		}
	}
	if assigned != 1 {
		t.Errorf("expected the rider referenced by exactly one parcel, got %d", assigned)
	}
	if got := f.riderRepo.GetRider(rider.ID).WorkStatus; got != domain.WorkStatusInDelivery {
		t.Errorf("expected rider %s after the winning assignment, got %s", domain.WorkStatusInDelivery, got)
	}
}

func TestUpdateStatus_DeliveredFreesRider(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	rider := addAvailableRider(f, "rider-1")
	rider.WorkStatus = domain.WorkStatusInDelivery
	f.riderRepo.AddRider(rider)
	f.parcelRepo.AddParcel(&domain.Parcel{
		ID:             "parcel-1",
		SenderEmail:    "sender@x.com",
		TrackingID:     "BD-0A1B2C3D",
		DeliveryStatus: domain.DeliveryStatusInDelivery,
		PaymentStatus:  domain.PaymentStatusPaid,
		RiderID:        rider.ID,
		RiderName:      rider.Name,
		RiderEmail:     rider.Email,
	})

	parcel, err := f.service.UpdateStatus(context.Background(), service.UpdateStatusRequest{
		ParcelID:  "parcel-1",
		NewStatus: domain.DeliveryStatusDelivered,
		Caller:    riderCaller(rider.Email),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parcel.DeliveryStatus != domain.DeliveryStatusDelivered {
		t.Errorf("expected delivery status %s, got %s", domain.DeliveryStatusDelivered, parcel.DeliveryStatus)
	}
	if got := f.riderRepo.GetRider(rider.ID).WorkStatus; got != domain.WorkStatusAvailable {
		t.Errorf("expected rider freed after delivery, got work status %s", got)
	}
	if got := f.trackingRepo.CountEvents("BD-0A1B2C3D"); got != 1 {
		t.Errorf("expected 1 tracking event after delivery, got %d", got)
	}
}

func TestUpdateStatus_DeliveredOnUnassignedParcelFails(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	addPaidParcel(f, "parcel-1") // pending_pickup, no rider

	_, err := f.service.UpdateStatus(context.Background(), service.UpdateStatusRequest{
		ParcelID:  "parcel-1",
		NewStatus: domain.DeliveryStatusDelivered,
		Caller:    adminCaller(),
	})
	if !errors.Is(err, service.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}

	if got := f.trackingRepo.CountEvents("BD-0A1B2C3D"); got != 0 {
		t.Errorf("illegal transition must not log, got %d events", got)
	}
}

func TestUpdateStatus_RejectsUnknownStatusValue(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	addPaidParcel(f, "parcel-1")

	_, err := f.service.UpdateStatus(context.Background(), service.UpdateStatusRequest{
		ParcelID:  "parcel-1",
		NewStatus: domain.DeliveryStatus("teleported"),
		Caller:    adminCaller(),
	})
	if !errors.Is(err, service.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatus_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	addPaidParcel(f, "parcel-1")

	_, err := f.service.UpdateStatus(context.Background(), service.UpdateStatusRequest{
		ParcelID:  "parcel-1",
		NewStatus: domain.DeliveryStatusInDelivery,
	})
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestReject_RevertsParcelAndFreesRider(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	rider := addAvailableRider(f, "rider-1")
	rider.WorkStatus = domain.WorkStatusInDelivery
	f.riderRepo.AddRider(rider)
	f.parcelRepo.AddParcel(&domain.Parcel{
		ID:             "parcel-1",
		SenderEmail:    "sender@x.com",
		TrackingID:     "BD-0A1B2C3D",
		DeliveryStatus: domain.DeliveryStatusRiderAssigned,
		PaymentStatus:  domain.PaymentStatusPaid,
		RiderID:        rider.ID,
		RiderName:      rider.Name,
		RiderEmail:     rider.Email,
	})

	parcel, err := f.service.Reject(context.Background(), service.RejectRequest{
		ParcelID: "parcel-1",
		Caller:   riderCaller(rider.Email),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parcel.DeliveryStatus != domain.DeliveryStatusPendingPickup {
		t.Errorf("expected delivery status %s, got %s", domain.DeliveryStatusPendingPickup, parcel.DeliveryStatus)
	}
	if parcel.RiderID != "" || parcel.RiderName != "" || parcel.RiderEmail != "" {
		t.Errorf("rider reference not cleared: %+v", parcel)
	}
	if got := f.riderRepo.GetRider(rider.ID).WorkStatus; got != domain.WorkStatusAvailable {
		t.Errorf("expected rider freed after rejection, got %s", got)
	}
	if got := f.trackingRepo.CountEvents("BD-0A1B2C3D"); got != 1 {
		t.Errorf("expected rejection to log a tracking event, got %d", got)
	}
}

func TestReject_OnlyAssignedRiderOrAdmin(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	rider := addAvailableRider(f, "rider-1")
	f.parcelRepo.AddParcel(&domain.Parcel{
		ID:             "parcel-1",
		SenderEmail:    "sender@x.com",
		TrackingID:     "BD-0A1B2C3D",
		DeliveryStatus: domain.DeliveryStatusRiderAssigned,
		PaymentStatus:  domain.PaymentStatusPaid,
		RiderID:        rider.ID,
		RiderEmail:     rider.Email,
	})

	_, err := f.service.Reject(context.Background(), service.RejectRequest{
		ParcelID: "parcel-1",
		Caller:   riderCaller("someone-else@x.com"),
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestReject_UnassignedParcelFails(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	addPaidParcel(f, "parcel-1")

	_, err := f.service.Reject(context.Background(), service.RejectRequest{
		ParcelID: "parcel-1",
		Caller:   adminCaller(),
	})
	if !errors.Is(err, service.ErrParcelNotAssigned) {
		t.Fatalf("expected ErrParcelNotAssigned, got %v", err)
	}
}

func TestListParcels_OwnScopeEnforced(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	addPaidParcel(f, "parcel-1")

	// A caller may not list another user's parcels.
	_, err := f.service.List(context.Background(), service.ListRequest{
		SenderEmail: "a@x.com",
		Caller:      userCaller("b@x.com"),
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Own parcels are fine.
	parcels, err := f.service.List(context.Background(), service.ListRequest{
		SenderEmail: "sender@x.com",
		Caller:      userCaller("sender@x.com"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parcels) != 1 {
		t.Errorf("expected 1 parcel, got %d", len(parcels))
	}

	// Admin may list anyone's.
	if _, err := f.service.List(context.Background(), service.ListRequest{
		SenderEmail: "sender@x.com",
		Caller:      adminCaller(),
	}); err != nil {
		t.Fatalf("unexpected error for admin: %v", err)
	}

	// Listing everything is admin only.
	if _, err := f.service.List(context.Background(), service.ListRequest{
		Caller: userCaller("sender@x.com"),
	}); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for full listing, got %v", err)
	}
}

func TestDeleteParcel_AdminOnly(t *testing.T) {
	t.Parallel()

	f := newLifecycleFixture()
	addPaidParcel(f, "parcel-1")

	if err := f.service.Delete(context.Background(), "parcel-1", userCaller("sender@x.com")); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := f.service.Delete(context.Background(), "parcel-1", adminCaller()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.parcelRepo.GetParcel("parcel-1") != nil {
		t.Error("parcel still present after delete")
	}
}
