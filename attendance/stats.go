/*
stats.go - The accounting engine

PURPOSE:
  Pure functions that turn the sparse day-record set into compliance
  statistics for an arbitrary inclusive date range, plus the yearly
  vacation-balance arithmetic.

THE QUOTA RULE:
  A working day is Sunday through Thursday. The office-attendance quota is
  60% of working days in the range, after subtracting logged holidays.
  Days logged as office, sick, casual, vacation, or night count toward the
  quota; home and holiday days do not.

PRECISION:
  The quota is fractional (x0.6), so required/remaining/percentage are
  decimal.Decimal. Counts stay plain ints.

SEE ALSO:
  - period.go: range construction (month/quarter/year)
  - types.go:  DayType classification predicates
*/
package attendance

import "github.com/shopspring/decimal"

// quotaRatio is the required share of working days spent in the office.
var quotaRatio = decimal.New(6, -1) // 0.6

var hundred = decimal.NewFromInt(100)

// DefaultVacationAllowance applies to any year without an explicit allowance row.
const DefaultVacationAllowance = 21

// Stats is the result of one ComputeStats call over one period.
type Stats struct {
	WorkingDays int

	OfficeDays   int
	HomeDays     int
	Holidays     int
	SickDays     int
	CasualDays   int
	VacationDays int
	NightDays    int

	// TotalLoggedDays counts records of quota-qualifying types only
	// (office, sick, casual, vacation, night).
	TotalLoggedDays int

	TotalExtraHours decimal.Decimal

	OfficeDaysRequired   decimal.Decimal
	CompletionPercentage decimal.Decimal // clamped to [.., 100]
	RemainingDays        decimal.Decimal // may be negative once the quota is met
}

// ComputeStats computes attendance statistics for every record whose date
// falls in the period, inclusive on both ends. Pure: no side effects, the
// record set is only read.
func ComputeStats(dayData DayData, period Period) Stats {
	s := Stats{
		TotalExtraHours:      decimal.Zero,
		OfficeDaysRequired:   decimal.Zero,
		CompletionPercentage: decimal.Zero,
		RemainingDays:        decimal.Zero,
	}

	for d := period.Start; d.BeforeOrEqual(period.End); d = d.AddDays(1) {
		if d.IsWorkingDay() {
			s.WorkingDays++
		}
	}

	for date, rec := range dayData {
		if !period.Contains(date) {
			continue
		}
		if rec.ExtraHours != 0 {
			s.TotalExtraHours = s.TotalExtraHours.Add(decimal.NewFromFloat(rec.ExtraHours))
		}
		switch rec.Type {
		case DayOffice:
			s.OfficeDays++
		case DayHome:
			s.HomeDays++
		case DayHoliday:
			s.Holidays++
		case DaySick:
			s.SickDays++
		case DayCasual:
			s.CasualDays++
		case DayVacation:
			s.VacationDays++
		case DayNight:
			s.NightDays++
		}
		if rec.Type.CountsAsLogged() {
			s.TotalLoggedDays++
		}
	}

	s.OfficeDaysRequired = decimal.NewFromInt(int64(s.WorkingDays - s.Holidays)).Mul(quotaRatio)

	// Guard the zero-requirement case: a range with no effective working days
	// completes at 0%, with nothing remaining.
	if s.OfficeDaysRequired.IsZero() {
		return s
	}

	logged := decimal.NewFromInt(int64(s.TotalLoggedDays))
	pct := logged.Div(s.OfficeDaysRequired).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	s.CompletionPercentage = pct
	s.RemainingDays = s.OfficeDaysRequired.Sub(logged)
	return s
}

// =============================================================================
// VACATION BALANCE
// =============================================================================

// VacationUsed counts distinct dates in the year marked vacation or casual.
func VacationUsed(dayData DayData, year int) int {
	used := 0
	for date, rec := range dayData {
		if date.Year == year && rec.Type.ConsumesVacation() {
			used++
		}
	}
	return used
}

// VacationBalance is the yearly allowance position.
type VacationBalance struct {
	Year      int
	Allowance int
	Used      int
	Remaining int // may be negative if the allowance was lowered after use
}

// ComputeVacationBalance resolves the balance for one year.
// allowances maps year to days allowed; absent years default to 21.
func ComputeVacationBalance(dayData DayData, allowances map[int]int, year int) VacationBalance {
	allowance, ok := allowances[year]
	if !ok {
		allowance = DefaultVacationAllowance
	}
	used := VacationUsed(dayData, year)
	return VacationBalance{
		Year:      year,
		Allowance: allowance,
		Used:      used,
		Remaining: allowance - used,
	}
}
