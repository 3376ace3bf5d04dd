package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Interaction is one prompt/response exchange owned by a user.
// Immutable once written.
type Interaction struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"-"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"timestamp"`
}

// InteractionRepository defines the interface for interaction storage
type InteractionRepository interface {
	Create(ctx context.Context, interaction *Interaction) error
	// ListByUser returns the user's interactions, newest first.
	ListByUser(ctx context.Context, userID int64, limit int) ([]Interaction, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	// CountSince counts the user's interactions created at or after the given instant.
	CountSince(ctx context.Context, userID int64, since time.Time) (int64, error)
}

// UsageRepository maintains the per-user-per-day admission counter.
// Day is a calendar date at UTC in yyyy-mm-dd form.
type UsageRepository interface {
	// TryIncrement atomically increments the counter for (userID, day) unless
	// it already reached limit. Reports whether the increment was applied.
	TryIncrement(ctx context.Context, userID int64, day string, limit int) (bool, error)
	// Decrement releases a previously granted slot.
	Decrement(ctx context.Context, userID int64, day string) error
	Used(ctx context.Context, userID int64, day string) (int, error)
}
