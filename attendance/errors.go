/*
errors.go - Error taxonomy for the attendance system

PURPOSE:
  All error categories in one place. Higher layers wrap these with context
  and callers classify with errors.Is().

ERROR CATEGORIES:
  1. Authentication - no current user; fail fast, never mutate state
  2. Validation     - quota violations, unknown day types
  3. Persistence    - gateway call failures; trigger optimistic rollback
  4. Sync           - exhausted retries during a full refresh

USAGE:
  if errors.Is(err, attendance.ErrQuotaExceeded) {
      // render inline, state is untouched
  }
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotAuthenticated is returned when no user identity is available.
	// Every store operation checks this first and fails without mutating state.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrQuotaExceeded is returned when marking a day vacation/casual would
	// exceed the year's allowance. Raised before any optimistic mutation.
	ErrQuotaExceeded = errors.New("vacation allowance exceeded")

	// ErrPersistence is returned when a gateway call fails. Any optimistic
	// local mutation already applied has been rolled back by the time the
	// caller sees this.
	ErrPersistence = errors.New("persistence failure")

	// ErrSyncFailed is returned when a full refresh exhausted its retries.
	ErrSyncFailed = errors.New("failed to sync data")

	// ErrUnknownDayType is returned for a status outside the closed set.
	ErrUnknownDayType = errors.New("unknown day type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// QuotaError reports a vacation-allowance violation.
type QuotaError struct {
	Year      int
	Allowance int
	Used      int // distinct vacation/casual dates already in the year
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("no vacation days remaining for %d: %d of %d used", e.Year, e.Used, e.Allowance)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// PersistenceError wraps a failed gateway call with the operation name.
type PersistenceError struct {
	Op  string // e.g. "insert day", "delete range"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

// SyncError reports an exhausted retry loop.
type SyncError struct {
	Attempts int
	Err      error // failure of the last attempt
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *SyncError) Unwrap() error { return ErrSyncFailed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is caused by the caller's input
// rather than the system. Client errors map to HTTP 400.
func IsClientError(err error) bool {
	return errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrUnknownDayType)
}
