package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Rohangit/ilab-test/internal/domain"
)

// InteractionRepository implements domain.InteractionRepository
type InteractionRepository struct {
	db *DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Create inserts a new interaction record
func (r *InteractionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	query := `
		INSERT INTO interactions (id, user_id, prompt, response, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		interaction.ID,
		interaction.UserID,
		interaction.Prompt,
		interaction.Response,
		interaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}

	return nil
}

// ListByUser retrieves the user's interactions, newest first
func (r *InteractionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Interaction, error) {
	query := `
		SELECT id, user_id, prompt, response, created_at
		FROM interactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	defer rows.Close()

	var interactions []domain.Interaction
	for rows.Next() {
		var in domain.Interaction
		if err := rows.Scan(
			&in.ID,
			&in.UserID,
			&in.Prompt,
			&in.Response,
			&in.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions = append(interactions, in)
	}

	return interactions, rows.Err()
}

// CountByUser counts all interactions ever recorded for the user
func (r *InteractionRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM interactions WHERE user_id = $1`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}

	return count, nil
}

// CountSince counts the user's interactions created at or after the given instant
func (r *InteractionRepository) CountSince(ctx context.Context, userID int64, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM interactions WHERE user_id = $1 AND created_at >= $2`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}

	return count, nil
}
