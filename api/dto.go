/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON shapes for the HTTP contract, decoupled from the domain types.
  Validation happens in handlers; DTOs are pure data carriers.

FIELD NAMES:
  The wire uses the remote-store column names (type, extra_hours, notes,
  days_allowed) so a client can treat this API and the hosted backend
  interchangeably.
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/attendance/attendance"
	"github.com/warp/attendance/gateway"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// QuickSubmitRequest is the body of POST /api/day-type.
type QuickSubmitRequest struct {
	Type string `json:"type"`
}

// DayRequest is the body of PUT /api/days/{date}.
type DayRequest struct {
	Type       string  `json:"type"`
	ExtraHours float64 `json:"extra_hours"`
	Notes      string  `json:"notes"`
}

// AllowanceRequest is the body of PUT /api/allowance/{year}.
type AllowanceRequest struct {
	DaysAllowed int `json:"days_allowed"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// DayDTO is one day record on the wire.
type DayDTO struct {
	Date       string  `json:"date"`
	Type       string  `json:"type"`
	ExtraHours float64 `json:"extra_hours"`
	Notes      string  `json:"notes,omitempty"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

func toDayDTO(row gateway.DayRow) DayDTO {
	dto := DayDTO{
		Date:       row.Date.String(),
		Type:       string(row.Type),
		ExtraHours: row.ExtraHours,
		Notes:      row.Notes,
	}
	if !row.UpdatedAt.IsZero() {
		dto.UpdatedAt = row.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return dto
}

// AllowanceDTO is one vacation-allowance row on the wire.
type AllowanceDTO struct {
	Year        int `json:"year"`
	DaysAllowed int `json:"days_allowed"`
}

// StatsDTO is the statistics payload for a date range.
type StatsDTO struct {
	Start                string          `json:"start"`
	End                  string          `json:"end"`
	WorkingDays          int             `json:"working_days"`
	OfficeDays           int             `json:"office_days"`
	HomeDays             int             `json:"home_days"`
	Holidays             int             `json:"holidays"`
	SickDays             int             `json:"sick_days"`
	CasualDays           int             `json:"casual_days"`
	VacationDays         int             `json:"vacation_days"`
	NightDays            int             `json:"night_days"`
	TotalLoggedDays      int             `json:"total_logged_days"`
	TotalExtraHours      decimal.Decimal `json:"total_extra_hours"`
	OfficeDaysRequired   decimal.Decimal `json:"office_days_required"`
	CompletionPercentage decimal.Decimal `json:"completion_percentage"`
	RemainingDays        decimal.Decimal `json:"remaining_days"`
}

func toStatsDTO(period attendance.Period, s attendance.Stats) StatsDTO {
	return StatsDTO{
		Start:                period.Start.String(),
		End:                  period.End.String(),
		WorkingDays:          s.WorkingDays,
		OfficeDays:           s.OfficeDays,
		HomeDays:             s.HomeDays,
		Holidays:             s.Holidays,
		SickDays:             s.SickDays,
		CasualDays:           s.CasualDays,
		VacationDays:         s.VacationDays,
		NightDays:            s.NightDays,
		TotalLoggedDays:      s.TotalLoggedDays,
		TotalExtraHours:      s.TotalExtraHours,
		OfficeDaysRequired:   s.OfficeDaysRequired,
		CompletionPercentage: s.CompletionPercentage,
		RemainingDays:        s.RemainingDays,
	}
}

// QuickSubmitResponse confirms an upsert of today's record.
type QuickSubmitResponse struct {
	Message string `json:"message"`
	Data    DayDTO `json:"data"`
}
