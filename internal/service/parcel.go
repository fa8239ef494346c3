package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zapshift/internal/auth"
	"zapshift/internal/domain"
	"zapshift/internal/redis"
	"zapshift/internal/repository"
)

// trackingStatusCreated is the log label for a fresh booking. Every
// later entry is tagged with the parcel's new delivery status.
const trackingStatusCreated = "Parcel_Created"

const riderLockTTL = 10 * time.Second

// ParcelService orchestrates the parcel delivery lifecycle: booking,
// rider assignment, status progression, and rider rejection.
type ParcelService struct {
	parcelRepo repository.ParcelRepository
	riderRepo  repository.RiderRepository
	tx         repository.TxManager
	lockStore  redis.LockStoreInterface
	cacheStore *redis.CacheStore
	notifier   *NotificationService
}

// NewParcelService creates a new ParcelService. lockStore, cacheStore
// and notifier may be nil.
func NewParcelService(
	parcelRepo repository.ParcelRepository,
	riderRepo repository.RiderRepository,
	tx repository.TxManager,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	notifier *NotificationService,
) *ParcelService {
	return &ParcelService{
		parcelRepo: parcelRepo,
		riderRepo:  riderRepo,
		tx:         tx,
		lockStore:  lockStore,
		cacheStore: cacheStore,
		notifier:   notifier,
	}
}

// riderAssignable reports whether a rider can take a new parcel.
func riderAssignable(rider *domain.Rider) error {
	if rider.Status != domain.RiderStatusApproved {
		return ErrRiderNotApproved
	}
	if rider.WorkStatus != domain.WorkStatusAvailable {
		return ErrRiderUnavailable
	}
	return nil
}

// newTrackingID generates a public tracking identifier: "BD-" followed
// by 8 uppercase hex characters from 4 random bytes. At this keyspace
// a collision check is not worth a round trip.
func newTrackingID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("BD-%X", b)
}

// CreateParcelRequest contains the parameters for booking a parcel.
type CreateParcelRequest struct {
	Title          string
	SenderEmail    string
	ReceiverEmail  string
	SenderDistrict string
	ReceiverRegion string
	Cost           float64
	Caller         *auth.Principal
}

// Create books a new parcel. The booking starts unpaid with a fresh
// tracking identifier, and the tracking log opens with a creation entry.
func (s *ParcelService) Create(ctx context.Context, req CreateParcelRequest) (*domain.Parcel, error) {
	if req.Caller == nil {
		return nil, ErrUnauthorized
	}

	if req.SenderEmail == "" || req.ReceiverEmail == "" || req.Cost <= 0 {
		return nil, ErrInvalidBooking
	}

	parcel := &domain.Parcel{
		ID:             uuid.New().String(),
		Title:          req.Title,
		SenderEmail:    req.SenderEmail,
		ReceiverEmail:  req.ReceiverEmail,
		SenderDistrict: req.SenderDistrict,
		ReceiverRegion: req.ReceiverRegion,
		Cost:           req.Cost,
		TrackingID:     newTrackingID(),
		DeliveryStatus: domain.DeliveryStatusCreated,
		PaymentStatus:  domain.PaymentStatusUnpaid,
		CreatedAt:      time.Now(),
	}

	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Parcels.Create(ctx, parcel); err != nil {
			return err
		}
		return r.Tracking.Append(ctx, newTrackingEvent(parcel.TrackingID, trackingStatusCreated))
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyParcelBooked(ctx, parcel)
	}

	return parcel, nil
}

// AssignRiderRequest contains the parameters for assigning a rider.
type AssignRiderRequest struct {
	ParcelID string
	RiderID  string
	Caller   *auth.Principal
}

// AssignRider hands a paid parcel to an approved, available rider. The
// parcel's rider reference, the parcel status and the rider's work
// status change together in one transaction, and the tracking log
// records the assignment.
func (s *ParcelService) AssignRider(ctx context.Context, req AssignRiderRequest) (*domain.Parcel, error) {
	if req.Caller == nil {
		return nil, ErrUnauthorized
	}

	if !req.Caller.IsAdmin() {
		return nil, ErrForbidden
	}

	if req.ParcelID == "" {
		return nil, ErrInvalidParcelID
	}

	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}

	parcel, err := s.parcelRepo.GetByID(ctx, req.ParcelID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(parcel.DeliveryStatus, domain.DeliveryStatusRiderAssigned) {
		return nil, ErrInvalidStatusTransition
	}

	rider, err := s.riderRepo.GetByID(ctx, req.RiderID)
	if err != nil {
		return nil, err
	}

	if err := riderAssignable(rider); err != nil {
		return nil, err
	}

	// Serialize concurrent assignments of the same rider.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRiderLock(ctx, rider.ID, riderLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrRiderUnavailable
		}
		defer func() { _ = s.lockStore.ReleaseRiderLock(ctx, rider.ID) }()

		// Re-read under the lock: a competing assignment may have taken
		// the rider between the first read and lock acquisition.
		rider, err = s.riderRepo.GetByID(ctx, rider.ID)
		if err != nil {
			return nil, err
		}
		if err := riderAssignable(rider); err != nil {
			return nil, err
		}
	}

	parcel.DeliveryStatus = domain.DeliveryStatusRiderAssigned
	parcel.RiderID = rider.ID
	parcel.RiderName = rider.Name
	parcel.RiderEmail = rider.Email

	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Parcels.Update(ctx, parcel); err != nil {
			return err
		}
		if err := r.Riders.UpdateWorkStatus(ctx, rider.ID, domain.WorkStatusInDelivery); err != nil {
			return err
		}
		return r.Tracking.Append(ctx, newTrackingEvent(parcel.TrackingID, string(domain.DeliveryStatusRiderAssigned)))
	})
	if err != nil {
		return nil, err
	}

	s.invalidateRiderDistrict(ctx, rider.District)

	if s.notifier != nil {
		_ = s.notifier.NotifyRiderAssigned(ctx, parcel, rider)
	}

	return parcel, nil
}

// UpdateStatusRequest contains the parameters for progressing a parcel.
type UpdateStatusRequest struct {
	ParcelID  string
	NewStatus domain.DeliveryStatus
	Caller    *auth.Principal
}

// UpdateStatus moves a parcel forward through the lifecycle. Only
// in_delivery and Parcel_delivered can be set this way; rejection has
// its own operation. Delivery completion frees the rider before the
// parcel's own status write. The tracking entry is logged under the
// parcel's stored tracking id, never a caller-supplied one.
func (s *ParcelService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*domain.Parcel, error) {
	if req.Caller == nil {
		return nil, ErrUnauthorized
	}

	if req.ParcelID == "" {
		return nil, ErrInvalidParcelID
	}

	if req.NewStatus != domain.DeliveryStatusInDelivery && req.NewStatus != domain.DeliveryStatusDelivered {
		return nil, ErrInvalidStatus
	}

	parcel, err := s.parcelRepo.GetByID(ctx, req.ParcelID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(parcel.DeliveryStatus, req.NewStatus) {
		return nil, ErrInvalidStatusTransition
	}

	delivered := req.NewStatus == domain.DeliveryStatusDelivered

	var rider *domain.Rider
	if delivered && parcel.RiderID != "" {
		if rider, err = s.riderRepo.GetByID(ctx, parcel.RiderID); err != nil {
			return nil, err
		}
	}

	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if rider != nil {
			if err := r.Riders.UpdateWorkStatus(ctx, rider.ID, domain.WorkStatusAvailable); err != nil {
				return err
			}
		}
		parcel.DeliveryStatus = req.NewStatus
		if err := r.Parcels.Update(ctx, parcel); err != nil {
			return err
		}
		return r.Tracking.Append(ctx, newTrackingEvent(parcel.TrackingID, string(req.NewStatus)))
	})
	if err != nil {
		return nil, err
	}

	if rider != nil {
		s.invalidateRiderDistrict(ctx, rider.District)
	}

	if delivered && s.notifier != nil {
		_ = s.notifier.NotifyDelivered(ctx, parcel)
	}

	return parcel, nil
}

// RejectRequest contains the parameters for a rider rejecting an assignment.
type RejectRequest struct {
	ParcelID string
	Caller   *auth.Principal
}

// Reject reverts an assigned parcel to pending_pickup: the rider
// reference is cleared, the rider goes back to available, and the
// reversion is logged. Only the assigned rider or an admin may reject.
func (s *ParcelService) Reject(ctx context.Context, req RejectRequest) (*domain.Parcel, error) {
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

	if !parcel.Active() || parcel.RiderID == "" {
		return nil, ErrParcelNotAssigned
	}

	if !req.Caller.IsAdmin() && req.Caller.Email != parcel.RiderEmail {
		return nil, ErrForbidden
	}

	rider, err := s.riderRepo.GetByID(ctx, parcel.RiderID)
	if err != nil {
		return nil, err
	}

	parcel.DeliveryStatus = domain.DeliveryStatusPendingPickup
	parcel.RiderID = ""
	parcel.RiderName = ""
	parcel.RiderEmail = ""

	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Riders.UpdateWorkStatus(ctx, rider.ID, domain.WorkStatusAvailable); err != nil {
			return err
		}
		if err := r.Parcels.Update(ctx, parcel); err != nil {
			return err
		}
		return r.Tracking.Append(ctx, newTrackingEvent(parcel.TrackingID, string(domain.DeliveryStatusPendingPickup)))
	})
	if err != nil {
		return nil, err
	}

	s.invalidateRiderDistrict(ctx, rider.District)

	if s.notifier != nil {
		_ = s.notifier.NotifyAssignmentRejected(ctx, parcel, rider)
	}

	return parcel, nil
}

// ListRequest contains the parameters for listing parcels.
type ListRequest struct {
	SenderEmail string
	Caller      *auth.Principal
}

// List returns parcels booked by a sender, newest first. Callers may
// only list their own parcels; admins may list anyone's, or all
// parcels by leaving the email empty.
func (s *ParcelService) List(ctx context.Context, req ListRequest) ([]*domain.Parcel, error) {
	if req.Caller == nil {
		return nil, ErrUnauthorized
	}

	if req.SenderEmail == "" {
		if !req.Caller.IsAdmin() {
			return nil, ErrForbidden
		}
	} else if !req.Caller.CanActFor(req.SenderEmail) {
		return nil, ErrForbidden
	}

	return s.parcelRepo.GetBySenderEmail(ctx, req.SenderEmail)
}

// Get retrieves a single parcel. The sender, receiver, assigned rider
// and admins may see it.
func (s *ParcelService) Get(ctx context.Context, parcelID string, caller *auth.Principal) (*domain.Parcel, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	if parcelID == "" {
		return nil, ErrInvalidParcelID
	}

	parcel, err := s.parcelRepo.GetByID(ctx, parcelID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() &&
		caller.Email != parcel.SenderEmail &&
		caller.Email != parcel.ReceiverEmail &&
		caller.Email != parcel.RiderEmail {
		return nil, ErrForbidden
	}

	return parcel, nil
}

// Delete removes a parcel booking. Admin only.
func (s *ParcelService) Delete(ctx context.Context, parcelID string, caller *auth.Principal) error {
	if caller == nil {
		return ErrUnauthorized
	}

	if !caller.IsAdmin() {
		return ErrForbidden
	}

	if parcelID == "" {
		return ErrInvalidParcelID
	}

	return s.parcelRepo.Delete(ctx, parcelID)
}

func (s *ParcelService) invalidateRiderDistrict(ctx context.Context, district string) {
	if s.cacheStore != nil && district != "" {
		_ = s.cacheStore.InvalidateDistrict(ctx, district)
	}
}
