package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rohangit/ilab-test/internal/domain"
	"github.com/Rohangit/ilab-test/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager(t *testing.T) *security.TokenManager {
	t.Helper()
	tm, err := security.NewTokenManager("auth-test-secret-key-32-chars!!!", "HS256", 20*time.Minute)
	require.NoError(t, err)
	return tm
}

func TestAuthService_Register(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, newTestTokenManager(t))

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		// The stored hash must never be the plaintext.
		return u.Email == "alice@example.com" && u.PasswordHash != "pw123456" && u.PasswordHash != ""
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 1
	}).Return(nil)

	user, err := svc.Register(context.Background(), domain.UserCreate{
		Email:    "alice@example.com",
		Password: "pw123456",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.True(t, security.VerifyPassword(user.PasswordHash, "pw123456"))
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, newTestTokenManager(t))

	userRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailTaken)

	_, err := svc.Register(context.Background(), domain.UserCreate{
		Email:    "alice@example.com",
		Password: "pw123456",
	})

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := security.HashPassword("pw123456")
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	tm := newTestTokenManager(t)
	svc := NewAuthService(userRepo, tm)

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID:           7,
		Email:        "alice@example.com",
		PasswordHash: hash,
	}, nil)

	token, err := svc.Login(context.Background(), "alice@example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, int64((20*time.Minute).Seconds()), token.ExpiresIn)

	claims, err := tm.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := security.HashPassword("pw123456")
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, newTestTokenManager(t))

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID:           7,
		Email:        "alice@example.com",
		PasswordHash: hash,
	}, nil)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, newTestTokenManager(t))

	userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	_, err := svc.Login(context.Background(), "nobody@example.com", "pw123456")

	// Unknown identity and wrong password are indistinguishable.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_TimingUniform(t *testing.T) {
	hash, err := security.HashPassword("pw123456")
	require.NoError(t, err)

	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, newTestTokenManager(t))

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{
		ID:           7,
		Email:        "alice@example.com",
		PasswordHash: hash,
	}, nil)
	userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	const rounds = 3
	var known, unknown time.Duration
	for i := 0; i < rounds; i++ {
		start := time.Now()
		_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
		known += time.Since(start)

		start = time.Now()
		_, err = svc.Login(context.Background(), "nobody@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
		unknown += time.Since(start)
	}

	// Both paths must pay for a bcrypt comparison. Without the burned
	// verification the unknown-identity path returns orders of magnitude
	// faster; a factor of four leaves room for scheduler jitter.
	if unknown*4 < known {
		t.Errorf("unknown-identity login too fast: %v vs %v per attempt", unknown/rounds, known/rounds)
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewAuthService(userRepo, newTestTokenManager(t))

	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, errors.New("connection refused"))

	_, err := svc.Login(context.Background(), "alice@example.com", "pw123456")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}
