/*
Package gateway defines the persistence contract between the attendance core
and whatever remote store backs it.

PURPOSE:
  The work-state store and the HTTP layer talk to storage only through the
  Gateway interface. Implementations may be a hosted backend, SQLite, or an
  in-memory fake; the core treats all of them as a black box with latency
  and possible failure.

SCOPING:
  Every operation is implicitly scoped to the authenticated user. The caller
  never passes another user's identifier; identity travels in the context
  (see WithUser/CurrentUser) and the implementation filters every read and
  write by it.

IMPLEMENTATIONS:
  - store/sqlite:   production SQLite backend
  - gateway/memory: in-memory fake with failure injection, for tests

SEE ALSO:
  - workstate: the sole mutating consumer of this interface
*/
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/warp/attendance/attendance"
)

// UserID is an opaque user identifier issued by the identity provider.
type UserID string

// ErrNoUser is returned by CurrentUser when the context carries no identity.
var ErrNoUser = errors.New("no user logged in")

// =============================================================================
// IDENTITY - carried in the context, resolved by the gateway
// =============================================================================

type userKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, id UserID) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserFrom extracts the authenticated user, if any.
func UserFrom(ctx context.Context) (UserID, bool) {
	id, ok := ctx.Value(userKey{}).(UserID)
	return id, ok && id != ""
}

// =============================================================================
// ROW TYPES - wire shapes for the two collections
// =============================================================================

// DayRow is one persisted day record.
type DayRow struct {
	Date       attendance.Date
	Type       attendance.DayType
	ExtraHours float64
	Notes      string
	UpdatedAt  time.Time
}

// Record converts the row to the in-memory record shape.
func (r DayRow) Record() attendance.DayRecord {
	return attendance.DayRecord{Type: r.Type, ExtraHours: r.ExtraHours, Notes: r.Notes}
}

// AllowanceRow is one persisted vacation-allowance entry.
type AllowanceRow struct {
	Year        int
	DaysAllowed int
}

// =============================================================================
// GATEWAY - the persistence contract
// =============================================================================

// Gateway is the abstract remote store. All operations are scoped to the
// user carried in ctx; CurrentUser must be consulted first by callers that
// need to fail fast on missing identity.
type Gateway interface {
	// CurrentUser resolves the authenticated identity from the context.
	// Returns ErrNoUser when there is none.
	CurrentUser(ctx context.Context) (UserID, error)

	// Day records, keyed by (user, date).
	ListDays(ctx context.Context, user UserID) ([]DayRow, error)
	// GetDay returns (nil, nil) when no record exists for the date.
	GetDay(ctx context.Context, user UserID, date attendance.Date) (*DayRow, error)
	InsertDay(ctx context.Context, user UserID, row DayRow) error
	UpdateDay(ctx context.Context, user UserID, row DayRow) error
	UpsertDay(ctx context.Context, user UserID, row DayRow) error
	DeleteDay(ctx context.Context, user UserID, date attendance.Date) error
	// DeleteDayRange deletes every record with date in [from, to].
	DeleteDayRange(ctx context.Context, user UserID, from, to attendance.Date) error
	DeleteAllDays(ctx context.Context, user UserID) error

	// Vacation allowances, keyed by (user, year).
	ListAllowances(ctx context.Context, user UserID) ([]AllowanceRow, error)
	// UpdateAllowance returns the number of rows affected; zero with a nil
	// error means no row exists yet and the caller should insert.
	UpdateAllowance(ctx context.Context, user UserID, year, days int) (int64, error)
	InsertAllowance(ctx context.Context, user UserID, year, days int) error
}
