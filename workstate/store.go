/*
Package workstate owns the local attendance state and its reconciliation
with the remote store.

PURPOSE:
  A single Store instance holds the current user's day records, vacation
  allowances, the selected calendar date, and a one-slot undo buffer for the
  last bulk deletion. It is the only code that mutates this state; the
  presentation layer reads snapshots and invokes the operations below.

WRITE PROTOCOL:
  Every write follows validate -> optimistically apply -> persist -> confirm
  or roll back. The rollback is a verbatim restore of a value snapshot taken
  before the mutation, never an incremental undo. Bulk deletions (ResetMonth,
  ResetAll) invert the order: the remote delete confirms first and local
  state only changes on success, so no rollback is needed there.

CONCURRENCY:
  Local state is guarded by a mutex, but gateway calls are made outside the
  lock: two overlapping writes to different dates race independently and
  both optimistic updates are visible immediately. Overlapping writes to the
  same date are last-write-wins locally; the remote store's row constraints
  are the real arbiter. Operations cannot be cancelled once their gateway
  call is in flight, except that SyncData bounds each fetch with a timeout.

SEE ALSO:
  - sync.go:  full refresh with bounded retries
  - cache.go: disk persistence of the durable state subset
*/
package workstate

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/attendance/attendance"
	"github.com/warp/attendance/gateway"
)

// Store is the local state store. Construct with New; zero value is not usable.
type Store struct {
	gw  gateway.Gateway
	log *logrus.Logger

	// Tunables for SyncData. Tests shorten these and replace sleep so the
	// retry loop runs without real waiting.
	SyncTimeout time.Duration
	RetryDelay  time.Duration
	MaxRetries  int
	sleep       func(time.Duration)

	mu              sync.Mutex
	selectedDate    attendance.Date
	dayData         attendance.DayData
	vacationDays    map[int]int
	previousDayData attendance.DayData // nil when no undo is available
}

// New creates a store bound to a persistence gateway.
func New(gw gateway.Gateway, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{
		gw:           gw,
		log:          log,
		SyncTimeout:  5 * time.Second,
		RetryDelay:   time.Second,
		MaxRetries:   3,
		sleep:        time.Sleep,
		selectedDate: attendance.Today(),
		dayData:      make(attendance.DayData),
		vacationDays: make(map[int]int),
	}
}

// =============================================================================
// READ SIDE - snapshots for the presentation layer
// =============================================================================

func (s *Store) SelectedDate() attendance.Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedDate
}

// SetSelectedDate moves the calendar anchor. Local only, never persisted.
func (s *Store) SetSelectedDate(d attendance.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedDate = d
}

// DayData returns a copy of the record set.
func (s *Store) DayData() attendance.DayData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayData.Clone()
}

// VacationDays returns a copy of the per-year allowance table.
func (s *Store) VacationDays() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int, len(s.vacationDays))
	for y, d := range s.vacationDays {
		out[y] = d
	}
	return out
}

// PreviousDayData returns a copy of the undo snapshot, or nil when none exists.
func (s *Store) PreviousDayData() attendance.DayData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.previousDayData == nil {
		return nil
	}
	return s.previousDayData.Clone()
}

// MonthStats computes statistics for the month containing the selected date.
func (s *Store) MonthStats() attendance.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return attendance.ComputeStats(s.dayData, attendance.MonthOf(s.selectedDate))
}

// QuarterStats computes statistics for the quarter containing the selected date.
func (s *Store) QuarterStats() attendance.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return attendance.ComputeStats(s.dayData, attendance.QuarterOf(s.selectedDate))
}

// VacationBalance resolves the allowance position for the year.
func (s *Store) VacationBalance(year int) attendance.VacationBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return attendance.ComputeVacationBalance(s.dayData, s.vacationDays, year)
}

// =============================================================================
// WRITE SIDE - optimistic mutations with rollback
// =============================================================================

// SetDayData creates or overwrites the record for one date.
//
// If the record newly classifies the date as vacation/casual, the year's
// allowance is checked first; a violation returns a QuotaError before any
// mutation. Otherwise the record is applied locally, then persisted with an
// update when a remote row exists and an insert when it does not. Any
// persistence failure restores the pre-call state verbatim.
func (s *Store) SetDayData(ctx context.Context, date attendance.Date, rec attendance.DayRecord) error {
	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		return attendance.ErrNotAuthenticated
	}

	s.mu.Lock()
	existing, hadExisting := s.dayData[date]
	if rec.Type.ConsumesVacation() && !(hadExisting && existing.Type.ConsumesVacation()) {
		// Used counts only other dates here: this date's current record, if
		// any, is not vacation/casual on this branch.
		balance := attendance.ComputeVacationBalance(s.dayData, s.vacationDays, date.Year)
		if balance.Used >= balance.Allowance {
			s.mu.Unlock()
			return &attendance.QuotaError{Year: date.Year, Allowance: balance.Allowance, Used: balance.Used}
		}
	}

	snapshot := s.dayData.Clone()
	s.dayData[date] = rec
	s.mu.Unlock()

	rollback := func(cause error) error {
		s.mu.Lock()
		s.dayData = snapshot
		s.mu.Unlock()
		s.log.WithFields(logrus.Fields{"date": date, "error": cause}).Warn("day write rolled back")
		return cause
	}

	row := gateway.DayRow{Date: date, Type: rec.Type, ExtraHours: rec.ExtraHours, Notes: rec.Notes}

	remote, err := s.gw.GetDay(ctx, user, date)
	if err != nil {
		return rollback(&attendance.PersistenceError{Op: "check day", Err: err})
	}
	if remote != nil {
		if err := s.gw.UpdateDay(ctx, user, row); err != nil {
			return rollback(&attendance.PersistenceError{Op: "update day", Err: err})
		}
	} else {
		if err := s.gw.InsertDay(ctx, user, row); err != nil {
			return rollback(&attendance.PersistenceError{Op: "insert day", Err: err})
		}
	}
	return nil
}

// ClearDay removes the record for one date, optimistically.
func (s *Store) ClearDay(ctx context.Context, date attendance.Date) error {
	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		return attendance.ErrNotAuthenticated
	}

	s.mu.Lock()
	snapshot := s.dayData.Clone()
	delete(s.dayData, date)
	s.mu.Unlock()

	if err := s.gw.DeleteDay(ctx, user, date); err != nil {
		s.mu.Lock()
		s.dayData = snapshot
		s.mu.Unlock()
		s.log.WithFields(logrus.Fields{"date": date, "error": err}).Warn("day clear rolled back")
		return &attendance.PersistenceError{Op: "delete day", Err: err}
	}
	return nil
}

// ResetMonth deletes every record in the month containing the selected date.
// Local state changes only after the remote delete succeeds; the pre-reset
// records go into the undo slot.
func (s *Store) ResetMonth(ctx context.Context) error {
	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		return attendance.ErrNotAuthenticated
	}

	s.mu.Lock()
	month := attendance.MonthOf(s.selectedDate)
	s.mu.Unlock()

	if err := s.gw.DeleteDayRange(ctx, user, month.Start, month.End); err != nil {
		return &attendance.PersistenceError{Op: "delete month", Err: err}
	}

	s.mu.Lock()
	s.previousDayData = s.dayData
	kept := make(attendance.DayData)
	for date, rec := range s.previousDayData {
		if !month.Contains(date) {
			kept[date] = rec
		}
	}
	s.dayData = kept
	s.mu.Unlock()

	s.log.WithField("month", month.Start.String()[:7]).Info("month reset")
	return nil
}

// ResetAll deletes every record. Local state changes only after the remote
// delete succeeds; the pre-reset records go into the undo slot.
func (s *Store) ResetAll(ctx context.Context) error {
	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		return attendance.ErrNotAuthenticated
	}

	if err := s.gw.DeleteAllDays(ctx, user); err != nil {
		return &attendance.PersistenceError{Op: "delete all", Err: err}
	}

	s.mu.Lock()
	s.previousDayData = s.dayData
	s.dayData = make(attendance.DayData)
	s.mu.Unlock()

	s.log.Info("all day records reset")
	return nil
}

// RestoreData re-inserts every record from the undo slot into the remote
// store, one concurrent insert per record, and on overall success promotes
// the slot back to the live record set. No-op when the slot is empty.
//
// Best-effort: if any insert fails the operation reports the first failure,
// leaves dayData and the undo slot untouched, and does NOT roll back inserts
// that already succeeded. The caller may retry; the next SyncData reconciles
// whatever landed remotely.
func (s *Store) RestoreData(ctx context.Context) error {
	s.mu.Lock()
	previous := s.previousDayData
	s.mu.Unlock()
	if len(previous) == 0 {
		return nil
	}

	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		return attendance.ErrNotAuthenticated
	}

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	for date, rec := range previous {
		wg.Add(1)
		row := gateway.DayRow{Date: date, Type: rec.Type, ExtraHours: rec.ExtraHours, Notes: rec.Notes}
		go func() {
			defer wg.Done()
			if err := s.gw.InsertDay(ctx, user, row); err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		s.log.WithField("error", firstErr).Warn("restore aborted, undo snapshot retained")
		return &attendance.PersistenceError{Op: "restore insert", Err: firstErr}
	}

	s.mu.Lock()
	s.dayData = previous
	s.previousDayData = nil
	s.mu.Unlock()

	s.log.WithField("records", len(previous)).Info("previous data restored")
	return nil
}

// SetVacationDays sets the allowance for a year. Tries a remote update
// first; when no row was affected it falls back to an insert. Local state
// changes only on success.
func (s *Store) SetVacationDays(ctx context.Context, year, days int) error {
	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		return attendance.ErrNotAuthenticated
	}

	affected, err := s.gw.UpdateAllowance(ctx, user, year, days)
	if err != nil {
		return &attendance.PersistenceError{Op: "update allowance", Err: err}
	}
	if affected == 0 {
		if err := s.gw.InsertAllowance(ctx, user, year, days); err != nil {
			return &attendance.PersistenceError{Op: "insert allowance", Err: err}
		}
	}

	s.mu.Lock()
	s.vacationDays[year] = days
	s.mu.Unlock()
	return nil
}
