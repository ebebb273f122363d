package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance/attendance"
	"github.com/warp/attendance/gateway"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testUser gateway.UserID = "user-1"

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := gateway.WithUser(context.Background(), testUser)
	require.NoError(t, store.SaveUser(ctx, User{ID: testUser, Email: "u1@example.com", Token: "token-1"}))
	return store, ctx
}

func day(store *Store, ctx context.Context, t *testing.T, dateStr string, dt attendance.DayType) {
	t.Helper()
	d, err := attendance.ParseDate(dateStr)
	require.NoError(t, err)
	require.NoError(t, store.InsertDay(ctx, testUser, gateway.DayRow{Date: d, Type: dt}))
}

// =============================================================================
// IDENTITY
// =============================================================================

func TestUserByToken(t *testing.T) {
	store, ctx := newTestStore(t)

	id, err := store.UserByToken(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, testUser, id)

	_, err = store.UserByToken(ctx, "bogus")
	assert.ErrorIs(t, err, gateway.ErrNoUser)
}

func TestCurrentUser(t *testing.T) {
	store, ctx := newTestStore(t)

	id, err := store.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, testUser, id)

	_, err = store.CurrentUser(context.Background())
	assert.ErrorIs(t, err, gateway.ErrNoUser)

	_, err = store.CurrentUser(gateway.WithUser(context.Background(), "ghost"))
	assert.ErrorIs(t, err, gateway.ErrNoUser)
}

// =============================================================================
// DAY RECORDS
// =============================================================================

func TestDayRecordLifecycle(t *testing.T) {
	store, ctx := newTestStore(t)
	d := attendance.NewDate(2025, time.June, 2)

	// Absent
	row, err := store.GetDay(ctx, testUser, d)
	require.NoError(t, err)
	assert.Nil(t, row)

	// Insert
	require.NoError(t, store.InsertDay(ctx, testUser, gateway.DayRow{
		Date: d, Type: attendance.DayOffice, ExtraHours: 1.5, Notes: "release",
	}))
	row, err = store.GetDay(ctx, testUser, d)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, attendance.DayOffice, row.Type)
	assert.Equal(t, 1.5, row.ExtraHours)
	assert.Equal(t, "release", row.Notes)
	assert.False(t, row.UpdatedAt.IsZero())

	// Update
	require.NoError(t, store.UpdateDay(ctx, testUser, gateway.DayRow{Date: d, Type: attendance.DayNight}))
	row, err = store.GetDay(ctx, testUser, d)
	require.NoError(t, err)
	assert.Equal(t, attendance.DayNight, row.Type)

	// Delete
	require.NoError(t, store.DeleteDay(ctx, testUser, d))
	row, err = store.GetDay(ctx, testUser, d)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestUpsertDay(t *testing.T) {
	store, ctx := newTestStore(t)
	d := attendance.NewDate(2025, time.June, 2)

	require.NoError(t, store.UpsertDay(ctx, testUser, gateway.DayRow{Date: d, Type: attendance.DayHome}))
	require.NoError(t, store.UpsertDay(ctx, testUser, gateway.DayRow{Date: d, Type: attendance.DayOffice}))

	rows, err := store.ListDays(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, attendance.DayOffice, rows[0].Type)
}

func TestInsertDay_DuplicateDateRejected(t *testing.T) {
	store, ctx := newTestStore(t)
	day(store, ctx, t, "2025-06-02", attendance.DayOffice)

	err := store.InsertDay(ctx, testUser, gateway.DayRow{
		Date: attendance.NewDate(2025, time.June, 2), Type: attendance.DayHome,
	})
	assert.Error(t, err, "primary key (user_id, date) must reject the duplicate")
}

func TestDeleteDayRange(t *testing.T) {
	store, ctx := newTestStore(t)
	day(store, ctx, t, "2025-05-31", attendance.DayOffice)
	day(store, ctx, t, "2025-06-01", attendance.DayOffice)
	day(store, ctx, t, "2025-06-30", attendance.DayOffice)
	day(store, ctx, t, "2025-07-01", attendance.DayOffice)

	from := attendance.NewDate(2025, time.June, 1)
	to := attendance.NewDate(2025, time.June, 30)
	require.NoError(t, store.DeleteDayRange(ctx, testUser, from, to))

	rows, err := store.ListDays(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-05-31", rows[0].Date.String())
	assert.Equal(t, "2025-07-01", rows[1].Date.String())
}

func TestDeleteAllDays_ScopedToUser(t *testing.T) {
	store, ctx := newTestStore(t)
	require.NoError(t, store.SaveUser(ctx, User{ID: "user-2", Token: "token-2"}))
	day(store, ctx, t, "2025-06-02", attendance.DayOffice)
	require.NoError(t, store.InsertDay(ctx, "user-2", gateway.DayRow{
		Date: attendance.NewDate(2025, time.June, 2), Type: attendance.DayHome,
	}))

	require.NoError(t, store.DeleteAllDays(ctx, testUser))

	mine, err := store.ListDays(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := store.ListDays(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

// =============================================================================
// VACATION ALLOWANCES
// =============================================================================

func TestAllowance_UpdateThenInsertFallback(t *testing.T) {
	store, ctx := newTestStore(t)

	// No row yet: update affects nothing, caller falls back to insert.
	affected, err := store.UpdateAllowance(ctx, testUser, 2025, 25)
	require.NoError(t, err)
	assert.Zero(t, affected)

	require.NoError(t, store.InsertAllowance(ctx, testUser, 2025, 25))

	affected, err = store.UpdateAllowance(ctx, testUser, 2025, 30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	rows, err := store.ListAllowances(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, gateway.AllowanceRow{Year: 2025, DaysAllowed: 30}, rows[0])
}
