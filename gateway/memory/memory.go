// Package memory provides an in-memory Gateway implementation.
//
// Used by tests and local development. Besides plain storage it supports
// per-operation failure injection (FailNext) so callers can exercise the
// optimistic-rollback paths without a real network.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/warp/attendance/attendance"
	"github.com/warp/attendance/gateway"
)

type dayKey struct {
	User gateway.UserID
	Date attendance.Date
}

type allowanceKey struct {
	User gateway.UserID
	Year int
}

// Gateway is an in-memory implementation of gateway.Gateway.
type Gateway struct {
	mu         sync.RWMutex
	days       map[dayKey]gateway.DayRow
	allowances map[allowanceKey]int

	failures map[string]error // op name -> error to return once
}

func New() *Gateway {
	return &Gateway{
		days:       make(map[dayKey]gateway.DayRow),
		allowances: make(map[allowanceKey]int),
		failures:   make(map[string]error),
	}
}

// FailNext makes the next call to the named operation return err.
// Operation names: "GetDay", "InsertDay", "UpdateDay", "UpsertDay",
// "DeleteDay", "DeleteDayRange", "DeleteAllDays", "ListDays",
// "ListAllowances", "UpdateAllowance", "InsertAllowance".
func (g *Gateway) FailNext(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[op] = err
}

func (g *Gateway) takeFailure(op string) error {
	if err, ok := g.failures[op]; ok {
		delete(g.failures, op)
		return err
	}
	return nil
}

func (g *Gateway) CurrentUser(ctx context.Context) (gateway.UserID, error) {
	if id, ok := gateway.UserFrom(ctx); ok {
		return id, nil
	}
	return "", gateway.ErrNoUser
}

// =============================================================================
// DAY RECORDS
// =============================================================================

func (g *Gateway) ListDays(_ context.Context, user gateway.UserID) ([]gateway.DayRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("ListDays"); err != nil {
		return nil, err
	}
	var rows []gateway.DayRow
	for k, row := range g.days {
		if k.User == user {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (g *Gateway) GetDay(_ context.Context, user gateway.UserID, date attendance.Date) (*gateway.DayRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("GetDay"); err != nil {
		return nil, err
	}
	row, ok := g.days[dayKey{User: user, Date: date}]
	if !ok {
		return nil, nil
	}
	out := row
	return &out, nil
}

func (g *Gateway) InsertDay(_ context.Context, user gateway.UserID, row gateway.DayRow) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("InsertDay"); err != nil {
		return err
	}
	row.UpdatedAt = time.Now().UTC()
	g.days[dayKey{User: user, Date: row.Date}] = row
	return nil
}

func (g *Gateway) UpdateDay(_ context.Context, user gateway.UserID, row gateway.DayRow) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("UpdateDay"); err != nil {
		return err
	}
	row.UpdatedAt = time.Now().UTC()
	g.days[dayKey{User: user, Date: row.Date}] = row
	return nil
}

func (g *Gateway) UpsertDay(_ context.Context, user gateway.UserID, row gateway.DayRow) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("UpsertDay"); err != nil {
		return err
	}
	row.UpdatedAt = time.Now().UTC()
	g.days[dayKey{User: user, Date: row.Date}] = row
	return nil
}

func (g *Gateway) DeleteDay(_ context.Context, user gateway.UserID, date attendance.Date) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("DeleteDay"); err != nil {
		return err
	}
	delete(g.days, dayKey{User: user, Date: date})
	return nil
}

func (g *Gateway) DeleteDayRange(_ context.Context, user gateway.UserID, from, to attendance.Date) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("DeleteDayRange"); err != nil {
		return err
	}
	for k := range g.days {
		if k.User == user && k.Date.AfterOrEqual(from) && k.Date.BeforeOrEqual(to) {
			delete(g.days, k)
		}
	}
	return nil
}

func (g *Gateway) DeleteAllDays(_ context.Context, user gateway.UserID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("DeleteAllDays"); err != nil {
		return err
	}
	for k := range g.days {
		if k.User == user {
			delete(g.days, k)
		}
	}
	return nil
}

// =============================================================================
// VACATION ALLOWANCES
// =============================================================================

func (g *Gateway) ListAllowances(_ context.Context, user gateway.UserID) ([]gateway.AllowanceRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("ListAllowances"); err != nil {
		return nil, err
	}
	var rows []gateway.AllowanceRow
	for k, days := range g.allowances {
		if k.User == user {
			rows = append(rows, gateway.AllowanceRow{Year: k.Year, DaysAllowed: days})
		}
	}
	return rows, nil
}

func (g *Gateway) UpdateAllowance(_ context.Context, user gateway.UserID, year, days int) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("UpdateAllowance"); err != nil {
		return 0, err
	}
	k := allowanceKey{User: user, Year: year}
	if _, ok := g.allowances[k]; !ok {
		return 0, nil
	}
	g.allowances[k] = days
	return 1, nil
}

func (g *Gateway) InsertAllowance(_ context.Context, user gateway.UserID, year, days int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.takeFailure("InsertAllowance"); err != nil {
		return err
	}
	g.allowances[allowanceKey{User: user, Year: year}] = days
	return nil
}

var _ gateway.Gateway = (*Gateway)(nil)
