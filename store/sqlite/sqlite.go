/*
Package sqlite provides the SQLite-backed persistence gateway.

PURPOSE:
  Implements gateway.Gateway on SQLite, plus the user/token table the HTTP
  layer authenticates against. Every day-log and allowance query is filtered
  by user_id; row-level scoping is enforced here, not trusted to callers.

KEY TABLES:
  users:              identity and API bearer tokens
  day_logs:           one row per (user_id, date)
  vacation_allowance: one row per (user_id, year)

WAL MODE:
  Opened with WAL so readers don't block the single writer.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - gateway/gateway.go: the interface this implements
  - gateway/memory:     the in-memory counterpart for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/attendance/attendance"
	"github.com/warp/attendance/gateway"
)

// Store implements gateway.Gateway using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE,
		api_token TEXT UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_users_token
		ON users(api_token) WHERE api_token IS NOT NULL;

	-- One status row per user per calendar date.
	CREATE TABLE IF NOT EXISTS day_logs (
		user_id TEXT NOT NULL REFERENCES users(id),
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		extra_hours REAL NOT NULL DEFAULT 0,
		notes TEXT,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_day_logs_user_date
		ON day_logs(user_id, date);

	CREATE TABLE IF NOT EXISTS vacation_allowance (
		user_id TEXT NOT NULL REFERENCES users(id),
		year INTEGER NOT NULL,
		days_allowed INTEGER NOT NULL,
		PRIMARY KEY (user_id, year)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// IDENTITY
// =============================================================================

// User is an account row. Token is the API bearer credential.
type User struct {
	ID    gateway.UserID
	Email string
	Token string
}

// SaveUser inserts or updates an account.
func (s *Store) SaveUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, api_token, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email, api_token = excluded.api_token
	`, u.ID, u.Email, nullString(u.Token), nowRFC3339())
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// UserByToken resolves a bearer token to a user. Returns gateway.ErrNoUser
// for an unknown token.
func (s *Store) UserByToken(ctx context.Context, token string) (gateway.UserID, error) {
	var id gateway.UserID
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE api_token = ?`, token).Scan(&id)
	if err == sql.ErrNoRows {
		return "", gateway.ErrNoUser
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up token: %w", err)
	}
	return id, nil
}

// ListUsers returns every account. Used by the compliance digest job.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var email sql.NullString
		if err := rows.Scan(&u.ID, &email); err != nil {
			return nil, err
		}
		u.Email = email.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// CurrentUser resolves the identity the auth middleware placed in the
// context and verifies the account exists.
func (s *Store) CurrentUser(ctx context.Context) (gateway.UserID, error) {
	id, ok := gateway.UserFrom(ctx)
	if !ok {
		return "", gateway.ErrNoUser
	}
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return "", gateway.ErrNoUser
	}
	if err != nil {
		return "", fmt.Errorf("failed to verify user: %w", err)
	}
	return id, nil
}

// =============================================================================
// DAY RECORDS
// =============================================================================

const dayColumns = `date, type, extra_hours, notes, updated_at`

func (s *Store) ListDays(ctx context.Context, user gateway.UserID) ([]gateway.DayRow, error) {
	return s.queryDays(ctx, `
		SELECT `+dayColumns+` FROM day_logs WHERE user_id = ? ORDER BY date ASC
	`, user)
}

func (s *Store) GetDay(ctx context.Context, user gateway.UserID, date attendance.Date) (*gateway.DayRow, error) {
	rows, err := s.queryDays(ctx, `
		SELECT `+dayColumns+` FROM day_logs WHERE user_id = ? AND date = ?
	`, user, date.String())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) InsertDay(ctx context.Context, user gateway.UserID, row gateway.DayRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO day_logs (user_id, date, type, extra_hours, notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user, row.Date.String(), row.Type, row.ExtraHours, nullString(row.Notes), nowRFC3339())
	if err != nil {
		return fmt.Errorf("failed to insert day: %w", err)
	}
	return nil
}

func (s *Store) UpdateDay(ctx context.Context, user gateway.UserID, row gateway.DayRow) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE day_logs SET type = ?, extra_hours = ?, notes = ?, updated_at = ?
		WHERE user_id = ? AND date = ?
	`, row.Type, row.ExtraHours, nullString(row.Notes), nowRFC3339(), user, row.Date.String())
	if err != nil {
		return fmt.Errorf("failed to update day: %w", err)
	}
	return nil
}

func (s *Store) UpsertDay(ctx context.Context, user gateway.UserID, row gateway.DayRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO day_logs (user_id, date, type, extra_hours, notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			type = excluded.type,
			extra_hours = excluded.extra_hours,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, user, row.Date.String(), row.Type, row.ExtraHours, nullString(row.Notes), nowRFC3339())
	if err != nil {
		return fmt.Errorf("failed to upsert day: %w", err)
	}
	return nil
}

func (s *Store) DeleteDay(ctx context.Context, user gateway.UserID, date attendance.Date) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM day_logs WHERE user_id = ? AND date = ?
	`, user, date.String())
	if err != nil {
		return fmt.Errorf("failed to delete day: %w", err)
	}
	return nil
}

func (s *Store) DeleteDayRange(ctx context.Context, user gateway.UserID, from, to attendance.Date) error {
	// ISO dates compare correctly as strings.
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM day_logs WHERE user_id = ? AND date >= ? AND date <= ?
	`, user, from.String(), to.String())
	if err != nil {
		return fmt.Errorf("failed to delete day range: %w", err)
	}
	return nil
}

func (s *Store) DeleteAllDays(ctx context.Context, user gateway.UserID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM day_logs WHERE user_id = ?`, user)
	if err != nil {
		return fmt.Errorf("failed to delete all days: %w", err)
	}
	return nil
}

func (s *Store) queryDays(ctx context.Context, query string, args ...any) ([]gateway.DayRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query days: %w", err)
	}
	defer rows.Close()

	var out []gateway.DayRow
	for rows.Next() {
		var (
			dateStr, typeStr, updatedStr string
			notes                        sql.NullString
			row                          gateway.DayRow
		)
		if err := rows.Scan(&dateStr, &typeStr, &row.ExtraHours, &notes, &updatedStr); err != nil {
			return nil, err
		}
		if row.Date, err = attendance.ParseDate(dateStr); err != nil {
			return nil, err
		}
		if row.Type, err = attendance.ParseDayType(typeStr); err != nil {
			return nil, err
		}
		row.Notes = notes.String
		if t, err := time.Parse(time.RFC3339, updatedStr); err == nil {
			row.UpdatedAt = t
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// =============================================================================
// VACATION ALLOWANCES
// =============================================================================

func (s *Store) ListAllowances(ctx context.Context, user gateway.UserID) ([]gateway.AllowanceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, days_allowed FROM vacation_allowance WHERE user_id = ? ORDER BY year ASC
	`, user)
	if err != nil {
		return nil, fmt.Errorf("failed to query allowances: %w", err)
	}
	defer rows.Close()

	var out []gateway.AllowanceRow
	for rows.Next() {
		var row gateway.AllowanceRow
		if err := rows.Scan(&row.Year, &row.DaysAllowed); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAllowance(ctx context.Context, user gateway.UserID, year, days int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vacation_allowance SET days_allowed = ? WHERE user_id = ? AND year = ?
	`, days, user, year)
	if err != nil {
		return 0, fmt.Errorf("failed to update allowance: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) InsertAllowance(ctx context.Context, user gateway.UserID, year, days int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vacation_allowance (user_id, year, days_allowed) VALUES (?, ?, ?)
	`, user, year, days)
	if err != nil {
		return fmt.Errorf("failed to insert allowance: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ gateway.Gateway = (*Store)(nil)
