package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rohangit/ilab-test/internal/domain"
	"github.com/Rohangit/ilab-test/internal/security"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo     domain.UserRepository
	tokenManager *security.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, tokenManager *security.TokenManager) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
	}
}

// Register creates a new user account. Returns domain.ErrEmailTaken when the
// email is already registered; uniqueness is enforced by the store, so
// concurrent duplicate registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, input domain.UserCreate) (*domain.User, error) {
	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password both return domain.ErrInvalidCredentials, and both paths
// cost one bcrypt verification.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Token, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		security.BurnVerification(password)
		return nil, domain.ErrInvalidCredentials
	}

	if !security.VerifyPassword(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.tokenManager.Issue(user.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.Token{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokenManager.TTL().Seconds()),
	}, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
