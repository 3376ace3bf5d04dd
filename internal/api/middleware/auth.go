package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rohangit/ilab-test/internal/api/response"
	"github.com/Rohangit/ilab-test/internal/security"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	IdentityKey contextKey = "identity"
)

// unauthorizedMessage is the single message for every authentication
// failure. It must not reveal whether the token was missing, malformed,
// badly signed or expired.
const unauthorizedMessage = "could not validate credentials"

// AuthMiddleware is the authentication gate for protected routes
type AuthMiddleware struct {
	tokenManager *security.TokenManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokenManager *security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tokenManager}
}

// Authenticate validates the bearer token and stores the caller's identity
// and user ID in the request context. Stateless and safe to invoke any
// number of times for the same token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, unauthorizedMessage)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Unauthorized(w, unauthorizedMessage)
			return
		}

		claims, err := m.tokenManager.Validate(parts[1])
		if err != nil {
			response.Unauthorized(w, unauthorizedMessage)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, IdentityKey, claims.Subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID gets the user ID from context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetIdentity gets the caller's email from context
func GetIdentity(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(IdentityKey).(string)
	return identity, ok
}
