package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UsageRepository implements domain.UsageRepository on a per-user-per-day
// counter row. The conditional upsert below runs as one statement, so the
// database serializes concurrent increments on the same row and the counter
// can never pass the limit.
type UsageRepository struct {
	db *DB
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// TryIncrement atomically increments the (userID, day) counter unless it
// already reached limit. Reports whether the slot was granted.
func (r *UsageRepository) TryIncrement(ctx context.Context, userID int64, day string, limit int) (bool, error) {
	query := `
		INSERT INTO daily_usage (user_id, day, used)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, day)
		DO UPDATE SET used = daily_usage.used + 1
		WHERE daily_usage.used < $3
		RETURNING used
	`

	var used int
	err := r.db.Pool.QueryRow(ctx, query, userID, day, limit).Scan(&used)
	if err != nil {
		// No row returned means the DO UPDATE predicate rejected the increment.
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to increment usage: %w", err)
	}

	return true, nil
}

// Decrement releases a previously granted slot, e.g. when the interaction
// was never committed
func (r *UsageRepository) Decrement(ctx context.Context, userID int64, day string) error {
	query := `
		UPDATE daily_usage
		SET used = used - 1
		WHERE user_id = $1 AND day = $2 AND used > 0
	`

	if _, err := r.db.Pool.Exec(ctx, query, userID, day); err != nil {
		return fmt.Errorf("failed to decrement usage: %w", err)
	}

	return nil
}

// Used returns the counter value for (userID, day), zero if absent
func (r *UsageRepository) Used(ctx context.Context, userID int64, day string) (int, error) {
	query := `SELECT used FROM daily_usage WHERE user_id = $1 AND day = $2`

	var used int
	err := r.db.Pool.QueryRow(ctx, query, userID, day).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read usage: %w", err)
	}

	return used, nil
}
