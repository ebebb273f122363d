/*
sync.go - Full refresh from the remote store

PURPOSE:
  SyncData replaces the local record set and allowance table with whatever
  the gateway holds. Each of the two fetches runs under its own timeout, and
  a failed attempt is retried a bounded number of times with a fixed delay
  before a consolidated SyncError is surfaced.

THE UNDO GUARD:
  A sync that returns zero day records while an undo snapshot is pending
  does NOT clear the snapshot. A bulk delete followed immediately by a sync
  can observe the emptied remote state before the user decides to restore;
  wiping the snapshot there would destroy the only copy of the data. In
  every other case a successful sync clears the snapshot.
*/
package workstate

import (
	"context"

	"github.com/warp/attendance/attendance"
	"github.com/warp/attendance/gateway"
)

// SyncData fetches all of the user's day records and allowance rows and
// replaces local state with them. Retries are sequential with a fixed
// delay: one initial attempt plus up to MaxRetries more.
func (s *Store) SyncData(ctx context.Context) error {
	attempts := 0
	for {
		attempts++
		days, allowances, err := s.fetchAll(ctx)
		if err == nil {
			s.applySync(days, allowances)
			s.log.WithField("records", len(days)).Info("sync complete")
			return nil
		}
		if attempts > s.MaxRetries {
			return &attendance.SyncError{Attempts: attempts, Err: err}
		}
		s.log.WithError(err).WithField("attempt", attempts).Warn("sync attempt failed, retrying")
		s.sleep(s.RetryDelay)
	}
}

// fetchAll performs one sync attempt. Both fetches run under SyncTimeout.
func (s *Store) fetchAll(ctx context.Context) ([]gateway.DayRow, []gateway.AllowanceRow, error) {
	user, err := s.gw.CurrentUser(ctx)
	if err != nil {
		return nil, nil, attendance.ErrNotAuthenticated
	}

	dayCtx, cancel := context.WithTimeout(ctx, s.SyncTimeout)
	days, err := s.gw.ListDays(dayCtx, user)
	cancel()
	if err != nil {
		return nil, nil, err
	}

	allowCtx, cancel := context.WithTimeout(ctx, s.SyncTimeout)
	allowances, err := s.gw.ListAllowances(allowCtx, user)
	cancel()
	if err != nil {
		return nil, nil, err
	}

	return days, allowances, nil
}

func (s *Store) applySync(days []gateway.DayRow, allowances []gateway.AllowanceRow) {
	fetched := make(attendance.DayData, len(days))
	for _, row := range days {
		fetched[row.Date] = row.Record()
	}
	vacation := make(map[int]int, len(allowances))
	for _, row := range allowances {
		vacation[row.Year] = row.DaysAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dayData = fetched
	s.vacationDays = vacation
	if len(fetched) != 0 || s.previousDayData == nil {
		s.previousDayData = nil
	}
}
