package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rohangit/ilab-test/internal/domain"
	"github.com/Rohangit/ilab-test/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const historyLimit = 100

// PromptService orchestrates a prompt request: quota reservation, the
// upstream generation call and persistence of the interaction.
type PromptService struct {
	interactionRepo domain.InteractionRepository
	quota           *QuotaLedger
	llmRouter       *llm.Router
	requestTimeout  time.Duration
	fallbackMessage string
}

// NewPromptService creates a new prompt service
func NewPromptService(
	interactionRepo domain.InteractionRepository,
	quota *QuotaLedger,
	llmRouter *llm.Router,
	requestTimeout time.Duration,
	fallbackMessage string,
) *PromptService {
	return &PromptService{
		interactionRepo: interactionRepo,
		quota:           quota,
		llmRouter:       llmRouter,
		requestTimeout:  requestTimeout,
		fallbackMessage: fallbackMessage,
	}
}

// Ask handles one prompt request for the user. The quota slot is reserved
// before the upstream call and released again if the interaction is not
// persisted. Upstream faults never fail the request: the response degrades
// to the configured fallback message instead.
func (s *PromptService) Ask(ctx context.Context, userID int64, prompt string) (*domain.Interaction, error) {
	now := time.Now().UTC()

	admitted, err := s.quota.Reserve(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if !admitted {
		return nil, domain.ErrQuotaExceeded
	}

	answer := s.generate(ctx, prompt)

	interaction := &domain.Interaction{
		ID:        uuid.New(),
		UserID:    userID,
		Prompt:    prompt,
		Response:  answer,
		CreatedAt: now,
	}

	if err := s.interactionRepo.Create(ctx, interaction); err != nil {
		if relErr := s.quota.Release(ctx, userID, now); relErr != nil {
			log.Error().Err(relErr).Int64("user_id", userID).Msg("Failed to release quota slot")
		}
		return nil, fmt.Errorf("failed to persist interaction: %w", err)
	}

	return interaction, nil
}

// generate runs the upstream call with a bounded timeout. No quota state is
// held while it blocks; the reservation was already committed.
func (s *PromptService) generate(ctx context.Context, prompt string) string {
	provider, err := s.llmRouter.GetProvider("")
	if err != nil {
		log.Warn().Err(err).Msg("No usable generation provider, using fallback response")
		return s.fallbackMessage
	}

	genCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	answer, err := provider.Generate(genCtx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider.Name()).Msg("Generation failed, using fallback response")
		return s.fallbackMessage
	}

	return answer
}

// Remaining reports how many prompts the user has left today
func (s *PromptService) Remaining(ctx context.Context, userID int64) (int, error) {
	return s.quota.Remaining(ctx, userID, time.Now().UTC())
}

// History returns the user's past interactions, newest first
func (s *PromptService) History(ctx context.Context, userID int64) ([]domain.Interaction, error) {
	interactions, err := s.interactionRepo.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return interactions, nil
}

// TotalRequests returns how many interactions the user has ever made
func (s *PromptService) TotalRequests(ctx context.Context, userID int64) (int64, error) {
	total, err := s.interactionRepo.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return total, nil
}

// RequestsToday returns how many interactions the user committed since UTC
// midnight. Counting persisted interactions rather than the usage counter
// keeps the figure honest across released reservations.
func (s *PromptService) RequestsToday(ctx context.Context, userID int64) (int64, error) {
	count, err := s.interactionRepo.CountSince(ctx, userID, StartOfDay(time.Now().UTC()))
	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count, nil
}
