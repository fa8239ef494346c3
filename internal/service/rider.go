package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"zapshift/internal/auth"
	"zapshift/internal/domain"
	"zapshift/internal/redis"
	"zapshift/internal/repository"
)

// RiderService handles the rider approval workflow and availability
// lookups.
type RiderService struct {
	riderRepo  repository.RiderRepository
	userRepo   repository.UserRepository
	tx         repository.TxManager
	cacheStore *redis.CacheStore
}

// NewRiderService creates a new RiderService. cacheStore may be nil.
func NewRiderService(
	riderRepo repository.RiderRepository,
	userRepo repository.UserRepository,
	tx repository.TxManager,
	cacheStore *redis.CacheStore,
) *RiderService {
	return &RiderService{
		riderRepo:  riderRepo,
		userRepo:   userRepo,
		tx:         tx,
		cacheStore: cacheStore,
	}
}

// ApplyRequest contains the parameters for a rider application.
type ApplyRequest struct {
	Name     string
	Phone    string
	District string
	Caller   *auth.Principal
}

// Apply files a rider application under the caller's own email. New
// riders start pending and available.
func (s *RiderService) Apply(ctx context.Context, req ApplyRequest) (*domain.Rider, error) {
	if req.Caller == nil {
		return nil, ErrUnauthorized
	}

	if req.Name == "" || req.District == "" {
		return nil, ErrInvalidBooking
	}

	rider := &domain.Rider{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Email:      req.Caller.Email,
		Phone:      req.Phone,
		District:   req.District,
		Status:     domain.RiderStatusPending,
		WorkStatus: domain.WorkStatusAvailable,
		CreatedAt:  time.Now(),
	}

	if err := s.riderRepo.Create(ctx, rider); err != nil {
		return nil, err
	}

	return rider, nil
}

// ApproveRequest contains the parameters for deciding a rider application.
type ApproveRequest struct {
	RiderID string
	Status  domain.RiderStatus
	Caller  *auth.Principal
}

// Approve records an admin's decision on a rider application. Approval
// also promotes the rider's user account to the Rider role; both
// writes commit in the same transaction so a failed promotion rolls
// back the approval.
func (s *RiderService) Approve(ctx context.Context, req ApproveRequest) (*domain.Rider, error) {
	if req.Caller == nil {
		return nil, ErrUnauthorized
	}

	if !req.Caller.IsAdmin() {
		return nil, ErrForbidden
	}

	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}

	if req.Status != domain.RiderStatusApproved && req.Status != domain.RiderStatusRejected {
		return nil, ErrInvalidRiderStatus
	}

	rider, err := s.riderRepo.GetByID(ctx, req.RiderID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Riders.UpdateStatus(ctx, rider.ID, req.Status); err != nil {
			return err
		}
		if req.Status == domain.RiderStatusApproved {
			return r.Users.UpdateRole(ctx, rider.Email, domain.RoleRider)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rider.Status = req.Status
	s.invalidateDistrict(ctx, rider.District)

	return rider, nil
}

// ListPending returns riders awaiting an approval decision. Admin only.
func (s *RiderService) ListPending(ctx context.Context, caller *auth.Principal) ([]*domain.Rider, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	return s.riderRepo.GetByStatus(ctx, domain.RiderStatusPending)
}

// ListAvailable returns approved, available riders in a district,
// read through the Redis cache. Admin only.
func (s *RiderService) ListAvailable(ctx context.Context, district string, caller *auth.Principal) ([]*domain.Rider, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetAvailableRiders(ctx, district)
		if err == nil && cached != nil {
			riders := make([]*domain.Rider, 0, len(cached))
			for _, c := range cached {
				riders = append(riders, &domain.Rider{
					ID:         c.ID,
					Name:       c.Name,
					Email:      c.Email,
					Phone:      c.Phone,
					District:   c.District,
					Status:     domain.RiderStatusApproved,
					WorkStatus: domain.WorkStatusAvailable,
				})
			}
			return riders, nil
		}
	}

	riders, err := s.riderRepo.GetAvailableByDistrict(ctx, district)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		cached := make([]redis.CachedRider, 0, len(riders))
		for _, rider := range riders {
			cached = append(cached, redis.CachedRider{
				ID:       rider.ID,
				Name:     rider.Name,
				Email:    rider.Email,
				Phone:    rider.Phone,
				District: rider.District,
			})
		}
		_ = s.cacheStore.SetAvailableRiders(ctx, district, cached)
	}

	return riders, nil
}

func (s *RiderService) invalidateDistrict(ctx context.Context, district string) {
	if s.cacheStore != nil && district != "" {
		_ = s.cacheStore.InvalidateDistrict(ctx, district)
	}
}
