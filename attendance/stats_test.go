package attendance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance/attendance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(y int, m time.Month, d int) attendance.Date {
	return attendance.NewDate(y, m, d)
}

func rec(t attendance.DayType) attendance.DayRecord {
	return attendance.DayRecord{Type: t}
}

// september2025 has 30 days and 22 working days under the Sun-Thu rule
// (Fridays 5/12/19/26 and Saturdays 6/13/20/27 are the weekend).
func september2025() attendance.Period {
	return attendance.Period{
		Start: date(2025, time.September, 1),
		End:   date(2025, time.September, 30),
	}
}

// =============================================================================
// WORKING-DAY RULE
// =============================================================================

func TestWorkingDayRule(t *testing.T) {
	// 2025-09-04 is a Thursday, 2025-09-05 a Friday, 2025-09-06 a Saturday,
	// 2025-09-07 a Sunday.
	assert.True(t, date(2025, time.September, 4).IsWorkingDay())
	assert.False(t, date(2025, time.September, 5).IsWorkingDay())
	assert.False(t, date(2025, time.September, 6).IsWorkingDay())
	assert.True(t, date(2025, time.September, 7).IsWorkingDay())
}

func TestWorkingDaysInMonth(t *testing.T) {
	stats := attendance.ComputeStats(nil, september2025())
	assert.Equal(t, 22, stats.WorkingDays)
}

// =============================================================================
// STATISTICS
// =============================================================================

func TestComputeStats_QuotaScenario(t *testing.T) {
	// 22 working days, 2 holidays, 10 office + 2 sick records.
	dayData := make(attendance.DayData)
	dayData[date(2025, time.September, 1)] = rec(attendance.DayHoliday)
	dayData[date(2025, time.September, 2)] = rec(attendance.DayHoliday)
	for d := 3; d < 13; d++ {
		dayData[date(2025, time.September, d)] = rec(attendance.DayOffice)
	}
	dayData[date(2025, time.September, 14)] = rec(attendance.DaySick)
	dayData[date(2025, time.September, 15)] = rec(attendance.DaySick)

	stats := attendance.ComputeStats(dayData, september2025())

	assert.Equal(t, 22, stats.WorkingDays)
	assert.Equal(t, 2, stats.Holidays)
	assert.Equal(t, 10, stats.OfficeDays)
	assert.Equal(t, 2, stats.SickDays)
	assert.Equal(t, 12, stats.TotalLoggedDays)
	// (22-2) * 0.6 = 12.0
	assert.True(t, stats.OfficeDaysRequired.Equal(decimal.NewFromInt(12)),
		"required = %s", stats.OfficeDaysRequired)
	assert.True(t, stats.CompletionPercentage.Equal(decimal.NewFromInt(100)),
		"completion = %s", stats.CompletionPercentage)
	assert.True(t, stats.RemainingDays.IsZero(), "remaining = %s", stats.RemainingDays)
}

func TestComputeStats_HomeAndHolidayNotLogged(t *testing.T) {
	dayData := attendance.DayData{
		date(2025, time.September, 1): rec(attendance.DayHome),
		date(2025, time.September, 2): rec(attendance.DayHoliday),
		date(2025, time.September, 3): rec(attendance.DayOffice),
		date(2025, time.September, 4): rec(attendance.DayNight),
		date(2025, time.September, 7): rec(attendance.DayVacation),
		date(2025, time.September, 8): rec(attendance.DayCasual),
	}

	stats := attendance.ComputeStats(dayData, september2025())

	assert.Equal(t, 1, stats.HomeDays)
	assert.Equal(t, 1, stats.Holidays)
	assert.Equal(t, 4, stats.TotalLoggedDays)
}

func TestComputeStats_ExtraHoursSummedAcrossAllTypes(t *testing.T) {
	dayData := attendance.DayData{
		date(2025, time.September, 1): {Type: attendance.DayOffice, ExtraHours: 1.5},
		date(2025, time.September, 2): {Type: attendance.DayHome, ExtraHours: 2},
		date(2025, time.September, 3): {Type: attendance.DayHoliday, ExtraHours: 0.5},
	}

	stats := attendance.ComputeStats(dayData, september2025())
	assert.True(t, stats.TotalExtraHours.Equal(decimal.NewFromFloat(4)),
		"extra hours = %s", stats.TotalExtraHours)
}

func TestComputeStats_RangeBoundariesInclusive(t *testing.T) {
	period := attendance.Period{
		Start: date(2025, time.September, 10),
		End:   date(2025, time.September, 11),
	}
	dayData := attendance.DayData{
		date(2025, time.September, 9):  rec(attendance.DayOffice), // outside
		date(2025, time.September, 10): rec(attendance.DayOffice), // start
		date(2025, time.September, 11): rec(attendance.DayOffice), // end
		date(2025, time.September, 12): rec(attendance.DayOffice), // outside
	}

	stats := attendance.ComputeStats(dayData, period)
	assert.Equal(t, 2, stats.OfficeDays)
}

func TestComputeStats_ZeroRequirementGuard(t *testing.T) {
	// Friday + Saturday only: zero working days, zero requirement.
	period := attendance.Period{
		Start: date(2025, time.September, 5),
		End:   date(2025, time.September, 6),
	}

	stats := attendance.ComputeStats(nil, period)

	assert.Equal(t, 0, stats.WorkingDays)
	assert.True(t, stats.OfficeDaysRequired.IsZero())
	assert.True(t, stats.CompletionPercentage.IsZero(), "must be 0, not NaN/Inf")
	assert.True(t, stats.RemainingDays.IsZero())
}

func TestComputeStats_RemainingMayGoNegative(t *testing.T) {
	// One working day in range, quota 0.6, two logged office days on the
	// weekend still count as records in range.
	period := attendance.Period{
		Start: date(2025, time.September, 4), // Thu
		End:   date(2025, time.September, 6), // Sat
	}
	dayData := attendance.DayData{
		date(2025, time.September, 4): rec(attendance.DayOffice),
		date(2025, time.September, 5): rec(attendance.DayOffice),
	}

	stats := attendance.ComputeStats(dayData, period)

	// required = 0.6, logged = 2 -> remaining = -1.4, completion capped at 100
	assert.True(t, stats.RemainingDays.Equal(decimal.RequireFromString("-1.4")),
		"remaining = %s", stats.RemainingDays)
	assert.True(t, stats.CompletionPercentage.Equal(decimal.NewFromInt(100)))
}

// =============================================================================
// VACATION BALANCE
// =============================================================================

func TestVacationBalance_Defaults(t *testing.T) {
	dayData := attendance.DayData{
		date(2025, time.March, 3): rec(attendance.DayVacation),
		date(2025, time.March, 4): rec(attendance.DayCasual),
		date(2024, time.March, 3): rec(attendance.DayVacation), // other year
		date(2025, time.March, 5): rec(attendance.DayOffice),   // not vacation
	}

	balance := attendance.ComputeVacationBalance(dayData, nil, 2025)

	assert.Equal(t, attendance.DefaultVacationAllowance, balance.Allowance)
	assert.Equal(t, 2, balance.Used)
	assert.Equal(t, 19, balance.Remaining)
}

func TestVacationBalance_ExplicitAllowance(t *testing.T) {
	dayData := attendance.DayData{
		date(2025, time.March, 3): rec(attendance.DayVacation),
	}
	balance := attendance.ComputeVacationBalance(dayData, map[int]int{2025: 5}, 2025)

	assert.Equal(t, 5, balance.Allowance)
	assert.Equal(t, 4, balance.Remaining)
}

// =============================================================================
// TYPES AND DATES
// =============================================================================

func TestParseDayType(t *testing.T) {
	for _, valid := range attendance.DayTypes {
		got, err := attendance.ParseDayType(string(valid))
		require.NoError(t, err)
		assert.Equal(t, valid, got)
	}

	_, err := attendance.ParseDayType("weekend")
	assert.ErrorIs(t, err, attendance.ErrUnknownDayType)
}

func TestDateRoundTrip(t *testing.T) {
	d, err := attendance.ParseDate("2025-09-04")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.September, 4), d)
	assert.Equal(t, "2025-09-04", d.String())

	_, err = attendance.ParseDate("04/09/2025")
	assert.Error(t, err)
}

func TestMonthAndQuarterRanges(t *testing.T) {
	d := date(2025, time.February, 14)

	month := attendance.MonthOf(d)
	assert.Equal(t, date(2025, time.February, 1), month.Start)
	assert.Equal(t, date(2025, time.February, 28), month.End)

	quarter := attendance.QuarterOf(d)
	assert.Equal(t, date(2025, time.January, 1), quarter.Start)
	assert.Equal(t, date(2025, time.March, 31), quarter.End)

	q4 := attendance.QuarterOf(date(2025, time.November, 2))
	assert.Equal(t, date(2025, time.October, 1), q4.Start)
	assert.Equal(t, date(2025, time.December, 31), q4.End)
}

func TestLeapYearMonthEnd(t *testing.T) {
	month := attendance.MonthOf(date(2024, time.February, 10))
	assert.Equal(t, date(2024, time.February, 29), month.End)
}
