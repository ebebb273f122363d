/*
scheduler.go - Scheduled compliance digest

PURPOSE:
  A cron job that walks every account, computes the month-to-date
  attendance statistics, and logs a digest line per user. Operators watch
  these to spot users drifting below the office quota without anyone
  opening the calendar.

SCHEDULE:
  Cron expression, default "0 7 * * *" (daily at 07:00). Configurable via
  the server config.

SEE ALSO:
  - attendance/stats.go: the statistics being digested
  - store/sqlite:        ListUsers, the account enumeration
*/
package api

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/warp/attendance/attendance"
	"github.com/warp/attendance/gateway"
	"github.com/warp/attendance/store/sqlite"
)

// DigestScheduler runs the periodic compliance digest.
type DigestScheduler struct {
	Store *sqlite.Store
	Log   *logrus.Logger
	Spec  string // cron expression

	cron *cron.Cron
}

// NewDigestScheduler creates a scheduler with the default daily spec.
func NewDigestScheduler(store *sqlite.Store, log *logrus.Logger) *DigestScheduler {
	if log == nil {
		log = logrus.New()
	}
	return &DigestScheduler{Store: store, Log: log, Spec: "0 7 * * *"}
}

// Start registers the cron entry and begins scheduling.
func (d *DigestScheduler) Start() error {
	d.cron = cron.New()
	if _, err := d.cron.AddFunc(d.Spec, d.RunOnce); err != nil {
		return err
	}
	d.cron.Start()
	d.Log.WithField("spec", d.Spec).Info("compliance digest scheduled")
	return nil
}

// Stop halts scheduling and waits for a running digest to finish.
func (d *DigestScheduler) Stop() {
	if d.cron == nil {
		return
	}
	<-d.cron.Stop().Done()
}

// RunOnce computes and logs the digest for every user. Also invoked
// directly by tests and the -digest flag.
func (d *DigestScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users, err := d.Store.ListUsers(ctx)
	if err != nil {
		d.Log.WithField("error", err).Error("digest: failed to list users")
		return
	}

	month := attendance.MonthOf(attendance.Today())
	for _, u := range users {
		rows, err := d.Store.ListDays(gateway.WithUser(ctx, u.ID), u.ID)
		if err != nil {
			d.Log.WithFields(logrus.Fields{"user": u.ID, "error": err}).Error("digest: failed to load days")
			continue
		}
		dayData := make(attendance.DayData, len(rows))
		for _, row := range rows {
			dayData[row.Date] = row.Record()
		}

		stats := attendance.ComputeStats(dayData, month)
		d.Log.WithFields(logrus.Fields{
			"user":         u.ID,
			"month":        month.Start.String()[:7],
			"working_days": stats.WorkingDays,
			"logged_days":  stats.TotalLoggedDays,
			"completion":   stats.CompletionPercentage.StringFixed(1),
			"remaining":    stats.RemainingDays.StringFixed(1),
		}).Info("compliance digest")
	}
}
