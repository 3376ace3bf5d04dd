package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rohangit/ilab-test/internal/domain"
)

// QuotaLedger admits or denies prompt requests against a per-user daily
// limit. Admission reserves a slot atomically in the store, so concurrent
// requests from the same user can never overshoot the limit.
type QuotaLedger struct {
	usageRepo  domain.UsageRepository
	dailyLimit int
}

// NewQuotaLedger creates a new quota ledger
func NewQuotaLedger(usageRepo domain.UsageRepository, dailyLimit int) *QuotaLedger {
	return &QuotaLedger{
		usageRepo:  usageRepo,
		dailyLimit: dailyLimit,
	}
}

// Day returns the UTC calendar date of t in yyyy-mm-dd form. The quota
// window resets at UTC midnight.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// StartOfDay returns UTC midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Reserve atomically claims a quota slot for the user at instant now.
// Reports whether the request is admitted.
func (l *QuotaLedger) Reserve(ctx context.Context, userID int64, now time.Time) (bool, error) {
	if l.dailyLimit <= 0 {
		return false, nil
	}

	admitted, err := l.usageRepo.TryIncrement(ctx, userID, Day(now), l.dailyLimit)
	if err != nil {
		return false, fmt.Errorf("failed to reserve quota: %w", err)
	}
	return admitted, nil
}

// Release returns a reserved slot, used when the admitted interaction was
// never committed. The ledger then keeps counting committed interactions
// only, trading a lost slot on crash for never over-admitting.
func (l *QuotaLedger) Release(ctx context.Context, userID int64, now time.Time) error {
	if err := l.usageRepo.Decrement(ctx, userID, Day(now)); err != nil {
		return fmt.Errorf("failed to release quota: %w", err)
	}
	return nil
}

// Remaining reports how many prompts the user has left today
func (l *QuotaLedger) Remaining(ctx context.Context, userID int64, now time.Time) (int, error) {
	used, err := l.usageRepo.Used(ctx, userID, Day(now))
	if err != nil {
		return 0, fmt.Errorf("failed to read quota: %w", err)
	}

	remaining := l.dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// DailyLimit returns the configured limit
func (l *QuotaLedger) DailyLimit() int {
	return l.dailyLimit
}
