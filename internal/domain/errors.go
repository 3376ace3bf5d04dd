package domain

import "errors"

// Sentinel errors shared across services and handlers. Handlers map these to
// HTTP statuses; services wrap lower-level failures with fmt.Errorf("%w", ...).
var (
	// ErrEmailTaken is returned when registration hits the unique email constraint.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrQuotaExceeded is returned when the daily prompt limit is reached.
	ErrQuotaExceeded = errors.New("daily prompt limit reached")

	// ErrNotFound is returned for lookups of records that do not exist.
	ErrNotFound = errors.New("not found")
)
