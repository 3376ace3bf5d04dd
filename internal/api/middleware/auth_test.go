package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rohangit/ilab-test/internal/api/middleware"
	"github.com/Rohangit/ilab-test/internal/security"
)

func newGate(t *testing.T, ttl time.Duration) (*middleware.AuthMiddleware, *security.TokenManager) {
	t.Helper()
	tm, err := security.NewTokenManager("middleware-test-secret-32-chars!", "HS256", ttl)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return middleware.NewAuthMiddleware(tm), tm
}

func TestAuthenticate_ValidToken(t *testing.T) {
	gate, tm := newGate(t, 20*time.Minute)

	token, err := tm.Issue("alice@example.com", 7)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	var gotUserID int64
	var gotIdentity string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = middleware.GetUserID(r.Context())
		gotIdentity, _ = middleware.GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	gate.Authenticate(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotUserID != 7 {
		t.Errorf("user ID mismatch: got %d, want 7", gotUserID)
	}
	if gotIdentity != "alice@example.com" {
		t.Errorf("identity mismatch: got %q", gotIdentity)
	}
}

func TestAuthenticate_UniformRejection(t *testing.T) {
	gate, _ := newGate(t, 20*time.Minute)

	_, expiredTM := newGate(t, -time.Minute)
	expiredToken, _ := expiredTM.Issue("alice@example.com", 7)

	foreignTM, _ := security.NewTokenManager("some-other-secret-key-32-chars!!", "HS256", 20*time.Minute)
	foreignToken, _ := foreignTM.Issue("alice@example.com", 7)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"malformed token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expiredToken},
		{"foreign signature", "Bearer " + foreignToken},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for rejected requests")
	})

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			gate.Authenticate(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rec.Code)
			}

			var body struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			messages = append(messages, body.Error)
		})
	}

	// Every failure mode must produce the same message: the response may not
	// reveal whether signature, expiry or format was at fault.
	for i := 1; i < len(messages); i++ {
		if messages[i] != messages[0] {
			t.Errorf("rejection messages differ: %q vs %q", messages[0], messages[i])
		}
	}
}

func TestAuthenticate_Idempotent(t *testing.T) {
	gate, tm := newGate(t, 20*time.Minute)

	token, err := tm.Issue("alice@example.com", 7)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// The same token is accepted any number of times.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		gate.Authenticate(next).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected status 200, got %d", i, rec.Code)
		}
	}
}
