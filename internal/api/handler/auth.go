package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rohangit/ilab-test/internal/api/middleware"
	"github.com/Rohangit/ilab-test/internal/api/response"
	"github.com/Rohangit/ilab-test/internal/domain"
	"github.com/Rohangit/ilab-test/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string)
			for _, e := range validationErrors {
				switch e.Tag() {
				case "required":
					fields[e.Field()] = "field is required"
				case "email":
					fields[e.Field()] = "invalid email format"
				case "min":
					fields[e.Field()] = "must be at least " + e.Param() + " characters"
				case "max":
					fields[e.Field()] = "must be at most " + e.Param() + " characters"
				default:
					fields[e.Field()] = "validation failed on " + e.Tag()
				}
			}
			response.BadRequest(w, fields)
			return
		}
		response.BadRequest(w, "invalid request")
		return
	}

	if _, err := h.authService.Register(r.Context(), input); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.Conflict(w, domain.ErrEmailTaken.Error())
			return
		}
		response.InternalError(w, "failed to create user")
		return
	}

	response.Created(w, map[string]string{
		"message": "successfully created",
	})
}

// Token handles login. The body is form-encoded with username/password
// fields, where username carries the email.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form body")
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		response.BadRequest(w, "username and password are required")
		return
	}

	token, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Unauthorized(w, domain.ErrInvalidCredentials.Error())
			return
		}
		response.InternalError(w, "login failed")
		return
	}

	response.OK(w, token)
}

// Me returns the authenticated caller's identity
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	identity, _ := middleware.GetIdentity(r.Context())

	response.OK(w, map[string]any{
		"email":   identity,
		"user_id": userID,
	})
}
