/*
Package attendance provides the core attendance accounting domain.

PURPOSE:
  This package contains the types and pure algorithms shared by every other
  layer: the closed set of day statuses, the per-day record, calendar-date
  values and ranges, and the statistics engine that turns a sparse record set
  into compliance numbers.

KEY CONCEPTS IN THIS FILE (types.go):
  - DayType:   A closed sum type for the status of one calendar day
  - DayRecord: The single entry for one date (status, extra hours, notes)

DESIGN PRINCIPLES:
  1. Validation at the boundary: DayType is parsed once, at the write edge;
     everything downstream can rely on the variant set being closed.
  2. Value semantics: DayRecord is a small value, copied freely. Snapshots of
     record maps are honest deep copies.
  3. Precision: quota math uses decimal.Decimal, never float accumulation.

SEE ALSO:
  - date.go:   Calendar-date values and the working-day rule
  - stats.go:  The statistics engine consuming these types
  - errors.go: The error taxonomy for the whole system
*/
package attendance

import "fmt"

// =============================================================================
// DAY TYPE - Closed set of day statuses
// =============================================================================

// DayType is the status assigned to one calendar day.
type DayType string

const (
	DayOffice   DayType = "office"
	DayHome     DayType = "home"
	DayHoliday  DayType = "holiday"
	DaySick     DayType = "sick"
	DayCasual   DayType = "casual"
	DayVacation DayType = "vacation"
	DayNight    DayType = "night"
)

// DayTypes lists every valid variant, in display order.
var DayTypes = []DayType{
	DayOffice, DayHome, DayHoliday, DaySick, DayCasual, DayVacation, DayNight,
}

// ParseDayType validates a raw string at the write boundary.
// Returns ErrUnknownDayType for anything outside the closed set.
func ParseDayType(s string) (DayType, error) {
	switch DayType(s) {
	case DayOffice, DayHome, DayHoliday, DaySick, DayCasual, DayVacation, DayNight:
		return DayType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDayType, s)
}

// CountsAsLogged reports whether the type counts toward the office-day quota.
// Home and holiday days are excluded from the tally.
func (t DayType) CountsAsLogged() bool {
	switch t {
	case DayOffice, DaySick, DayCasual, DayVacation, DayNight:
		return true
	}
	return false
}

// ConsumesVacation reports whether the type draws from the yearly
// vacation/casual allowance.
func (t DayType) ConsumesVacation() bool {
	return t == DayVacation || t == DayCasual
}

// =============================================================================
// DAY RECORD - The single entry for one calendar date
// =============================================================================

// DayRecord is the status entry for one date. At most one exists per date
// per user; the date itself is the map key, not a record field.
type DayRecord struct {
	Type       DayType
	ExtraHours float64 // non-negative; summed by the statistics engine
	Notes      string
}

// DayData is the sparse per-date record set owned by the work-state store.
type DayData map[Date]DayRecord

// Clone returns a deep copy. Used for optimistic-update snapshots, so the
// copy must never share structure with the original.
func (d DayData) Clone() DayData {
	out := make(DayData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
