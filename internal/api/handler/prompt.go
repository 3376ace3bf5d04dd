package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Rohangit/ilab-test/internal/api/middleware"
	"github.com/Rohangit/ilab-test/internal/api/response"
	"github.com/Rohangit/ilab-test/internal/domain"
	"github.com/Rohangit/ilab-test/internal/service"
)

// PromptRequest is the prompt submission body
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required,max=4000"`
}

// PromptHandler handles prompt, history and analytics endpoints
type PromptHandler struct {
	promptService *service.PromptService
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(promptService *service.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

// Ask submits a prompt to the assistant
func (h *PromptHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "prompt is required")
		return
	}

	interaction, err := h.promptService.Ask(r.Context(), userID, req.Prompt)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			w.Header().Set("X-Quota-Remaining", "0")
			response.TooManyRequests(w, domain.ErrQuotaExceeded.Error())
			return
		}
		response.InternalError(w, "failed to process prompt")
		return
	}

	if remaining, err := h.promptService.Remaining(r.Context(), userID); err == nil {
		w.Header().Set("X-Quota-Remaining", strconv.Itoa(remaining))
	}
	response.OK(w, interaction)
}

// History returns the caller's past interactions, newest first
func (h *PromptHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	interactions, err := h.promptService.History(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to load history")
		return
	}
	if interactions == nil {
		interactions = []domain.Interaction{}
	}

	response.OK(w, interactions)
}

// Analytics returns the caller's request counts
func (h *PromptHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	total, err := h.promptService.TotalRequests(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to load analytics")
		return
	}

	today, err := h.promptService.RequestsToday(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to load analytics")
		return
	}

	response.OK(w, map[string]int64{
		"total_requests": total,
		"requests_today": today,
	})
}
