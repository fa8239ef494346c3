package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"zapshift/internal/domain"
	"zapshift/internal/repository"
	"zapshift/internal/service"
)

// ──────────────────────────────────────────────
// MOCK PARCEL REPOSITORY
// ──────────────────────────────────────────────

// MockParcelRepository is a mock implementation of ParcelRepository.
type MockParcelRepository struct {
	mu      sync.RWMutex
	parcels map[string]*domain.Parcel

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockParcelRepository creates a new mock parcel repository.
func NewMockParcelRepository() *MockParcelRepository {
	return &MockParcelRepository{
		parcels: make(map[string]*domain.Parcel),
	}
}

// AddParcel adds a parcel to the mock repository.
func (m *MockParcelRepository) AddParcel(parcel *domain.Parcel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parcels[parcel.ID] = parcel
}

func (m *MockParcelRepository) Create(ctx context.Context, parcel *domain.Parcel) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *parcel
	m.parcels[parcel.ID] = &copy
	return nil
}

func (m *MockParcelRepository) GetByID(ctx context.Context, id string) (*domain.Parcel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	parcel, ok := m.parcels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *parcel
	return &copy, nil
}

func (m *MockParcelRepository) GetBySenderEmail(ctx context.Context, email string) ([]*domain.Parcel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Parcel
	for _, p := range m.parcels {
		if email == "" || p.SenderEmail == email {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockParcelRepository) Update(ctx context.Context, parcel *domain.Parcel) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.parcels[parcel.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *parcel
	m.parcels[parcel.ID] = &copy
	return nil
}

func (m *MockParcelRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.parcels[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.parcels, id)
	return nil
}

// GetParcel returns a parcel for test assertions.
func (m *MockParcelRepository) GetParcel(id string) *domain.Parcel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parcels[id]
}

// ──────────────────────────────────────────────
// MOCK RIDER REPOSITORY
// ──────────────────────────────────────────────

// MockRiderRepository is a mock implementation of RiderRepository.
type MockRiderRepository struct {
	mu     sync.RWMutex
	riders map[string]*domain.Rider

	// Counters for verification
	UpdateStatusCallCount     int32
	UpdateWorkStatusCallCount int32

	// Error injection
	UpdateStatusError     error
	UpdateWorkStatusError error
}

// NewMockRiderRepository creates a new mock rider repository.
func NewMockRiderRepository() *MockRiderRepository {
	return &MockRiderRepository{
		riders: make(map[string]*domain.Rider),
	}
}

// AddRider adds a rider to the mock repository.
func (m *MockRiderRepository) AddRider(rider *domain.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders[rider.ID] = rider
}

func (m *MockRiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *rider
	m.riders[rider.ID] = &copy
	return nil
}

func (m *MockRiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rider, ok := m.riders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rider
	return &copy, nil
}

func (m *MockRiderRepository) GetByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Rider
	for _, r := range m.riders {
		if r.Status == status {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRiderRepository) GetAvailableByDistrict(ctx context.Context, district string) ([]*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Rider
	for _, r := range m.riders {
		if r.District == district && r.Status == domain.RiderStatusApproved && r.WorkStatus == domain.WorkStatusAvailable {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRiderRepository) UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rider, ok := m.riders[id]
	if !ok {
		return repository.ErrNotFound
	}
	rider.Status = status
	return nil
}

func (m *MockRiderRepository) UpdateWorkStatus(ctx context.Context, id string, status domain.WorkStatus) error {
	atomic.AddInt32(&m.UpdateWorkStatusCallCount, 1)
	if m.UpdateWorkStatusError != nil {
		return m.UpdateWorkStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rider, ok := m.riders[id]
	if !ok {
		return repository.ErrNotFound
	}
	rider.WorkStatus = status
	return nil
}

// GetRider returns a rider for test assertions.
func (m *MockRiderRepository) GetRider(id string) *domain.Rider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.riders[id]
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // keyed by email

	// Counters for verification
	UpdateRoleCallCount int32

	// Error injection
	UpdateRoleError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *user
	m.users[user.Email] = &copy
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, email string, role domain.Role) error {
	atomic.AddInt32(&m.UpdateRoleCallCount, 1)
	if m.UpdateRoleError != nil {
		return m.UpdateRoleError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return repository.ErrNotFound
	}
	user.Role = role
	return nil
}

// GetUser returns a user for test assertions.
func (m *MockUserRepository) GetUser(email string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[email]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment // keyed by transaction id

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.TransactionID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[transactionID]
	if !ok {
		return nil, nil
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByCustomerEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.CustomerEmail == email {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK TRACKING REPOSITORY
// ──────────────────────────────────────────────

// MockTrackingRepository is a mock implementation of TrackingRepository.
// Events keep insertion order, which matches the timestamp order the
// real store returns.
type MockTrackingRepository struct {
	mu     sync.RWMutex
	events []*domain.TrackingEvent

	// Error injection
	AppendError error
}

// NewMockTrackingRepository creates a new mock tracking repository.
func NewMockTrackingRepository() *MockTrackingRepository {
	return &MockTrackingRepository{}
}

func (m *MockTrackingRepository) Append(ctx context.Context, event *domain.TrackingEvent) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *event
	m.events = append(m.events, &copy)
	return nil
}

func (m *MockTrackingRepository) GetByTrackingID(ctx context.Context, trackingID string) ([]*domain.TrackingEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.TrackingEvent
	for _, e := range m.events {
		if e.TrackingID == trackingID {
			copy := *e
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountEvents returns the number of events logged for a tracking id.
func (m *MockTrackingRepository) CountEvents(trackingID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.events {
		if e.TrackingID == trackingID {
			count++
		}
	}
	return count
}

// ──────────────────────────────────────────────
// MOCK TX MANAGER
// ──────────────────────────────────────────────

// MockTxManager runs the transactional function directly against the
// shared mocks. Rollback is not simulated; error-injection on the
// individual mocks covers the failure paths.
type MockTxManager struct {
	Repos repository.Repositories

	// Counters for verification
	WithinTxCallCount int32

	// Error injection
	BeginError error
}

// NewMockTxManager wires a tx manager over the given mocks.
func NewMockTxManager(
	parcels *MockParcelRepository,
	riders *MockRiderRepository,
	users *MockUserRepository,
	payments *MockPaymentRepository,
	tracking *MockTrackingRepository,
) *MockTxManager {
	return &MockTxManager{
		Repos: repository.Repositories{
			Parcels:  parcels,
			Riders:   riders,
			Users:    users,
			Payments: payments,
			Tracking: tracking,
		},
	}
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	atomic.AddInt32(&m.WithinTxCallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}
	return fn(m.Repos)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Error injection
	AcquireError error
	// DenyAll makes every acquire fail as if the lock were held.
	DenyAll bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireRiderLock(ctx context.Context, riderID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DenyAll || m.locks[riderID] {
		return false, nil
	}
	m.locks[riderID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseRiderLock(ctx context.Context, riderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, riderID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK CHECKOUT PROVIDER
// ──────────────────────────────────────────────

// MockCheckoutProvider is a mock implementation of CheckoutProvider.
type MockCheckoutProvider struct {
	mu       sync.RWMutex
	sessions map[string]*service.CheckoutSession

	// Counters for verification
	CreateSessionCallCount   int32
	RetrieveSessionCallCount int32

	// Error injection
	CreateSessionError   error
	RetrieveSessionError error
}

// NewMockCheckoutProvider creates a new mock checkout provider.
func NewMockCheckoutProvider() *MockCheckoutProvider {
	return &MockCheckoutProvider{
		sessions: make(map[string]*service.CheckoutSession),
	}
}

// AddSession registers a session the provider will return from
// RetrieveSession.
func (m *MockCheckoutProvider) AddSession(session *service.CheckoutSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
}

func (m *MockCheckoutProvider) CreateSession(ctx context.Context, req service.CreateSessionRequest) (*service.CheckoutSession, error) {
	atomic.AddInt32(&m.CreateSessionCallCount, 1)
	if m.CreateSessionError != nil {
		return nil, m.CreateSessionError
	}
	session := &service.CheckoutSession{
		ID:            "cs_test_" + req.ParcelID,
		URL:           "https://checkout.example.com/cs_test_" + req.ParcelID,
		PaymentStatus: "unpaid",
		AmountTotal:   req.AmountMinor,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		ParcelID:      req.ParcelID,
		TrackingID:    req.TrackingID,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return session, nil
}

func (m *MockCheckoutProvider) RetrieveSession(ctx context.Context, sessionID string) (*service.CheckoutSession, error) {
	atomic.AddInt32(&m.RetrieveSessionCallCount, 1)
	if m.RetrieveSessionError != nil {
		return nil, m.RetrieveSessionError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *session
	return &copy, nil
}
