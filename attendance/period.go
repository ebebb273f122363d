package attendance

import "time"

// =============================================================================
// PERIOD - Inclusive date range for statistics
// =============================================================================

// Period is an inclusive [Start, End] date range. Statistics are always
// computed for a period, never at a point in time.
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether the date falls within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days enumerates every calendar date in the period.
func (p Period) Days() []Date {
	var days []Date
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthOf returns the calendar month containing the date, first day through
// last day.
func MonthOf(d Date) Period {
	first := NewDate(d.Year, d.Month, 1)
	last := NewDate(d.Year, d.Month+1, 0) // day 0 of next month
	return Period{Start: first, End: last}
}

// QuarterOf returns the calendar quarter containing the date.
func QuarterOf(d Date) Period {
	startMonth := time.Month((int(d.Month)-1)/3*3 + 1)
	first := NewDate(d.Year, startMonth, 1)
	last := NewDate(d.Year, startMonth+3, 0)
	return Period{Start: first, End: last}
}

// YearOf returns the calendar year containing the date.
func YearOf(d Date) Period {
	return Period{Start: NewDate(d.Year, time.January, 1), End: NewDate(d.Year, time.December, 31)}
}
