package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Rohangit/ilab-test/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks domain.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockInteractionRepository mocks domain.InteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func (m *MockInteractionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Interaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Interaction), args.Error(1)
}

func (m *MockInteractionRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionRepository) CountSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockProvider mocks llm.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) DefaultModel() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// memUsageRepository is an in-memory domain.UsageRepository with the same
// atomicity guarantee as the SQL counter: check and increment happen under
// one lock.
type memUsageRepository struct {
	mu   sync.Mutex
	used map[string]int
}

func newMemUsageRepository() *memUsageRepository {
	return &memUsageRepository{used: make(map[string]int)}
}

func (r *memUsageRepository) key(userID int64, day string) string {
	return day + "/" + strconv.FormatInt(userID, 10)
}

func (r *memUsageRepository) TryIncrement(ctx context.Context, userID int64, day string, limit int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := r.key(userID, day)
	if r.used[k] >= limit {
		return false, nil
	}
	r.used[k]++
	return true, nil
}

func (r *memUsageRepository) Decrement(ctx context.Context, userID int64, day string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := r.key(userID, day)
	if r.used[k] > 0 {
		r.used[k]--
	}
	return nil
}

func (r *memUsageRepository) Used(ctx context.Context, userID int64, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used[r.key(userID, day)], nil
}
