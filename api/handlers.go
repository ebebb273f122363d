/*
handlers.go - HTTP API handlers for the attendance service

PURPOSE:
  Exposes the persistence gateway and the accounting engine over REST.
  Handlers parse and validate input, delegate to the gateway, and map the
  error taxonomy to HTTP statuses.

ENDPOINTS:
  POST   /api/day-type           Quick submit today's status {type}
  GET    /api/days               All of the caller's day records
  PUT    /api/days/{date}        Set a record (quota-validated)
  DELETE /api/days/{date}        Clear a day
  DELETE /api/days               Reset all (or ?from=&to= for a range)
  GET    /api/allowance          Vacation allowance rows
  PUT    /api/allowance/{year}   Set an allowance
  GET    /api/stats              Statistics for ?start=&end= (default: this month)
  GET    /api/health             Liveness (unauthenticated)

STATUS MAPPING:
  401 authentication failures, 400 validation and quota errors,
  500 everything else.
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/warp/attendance/attendance"
	"github.com/warp/attendance/gateway"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	GW  gateway.Gateway
	Log *logrus.Logger
}

// NewHandler creates a handler bound to a persistence gateway.
func NewHandler(gw gateway.Gateway, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{GW: gw, Log: log}
}

// =============================================================================
// QUICK SUBMIT
// =============================================================================

// QuickSubmit upserts today's record with just a status, keyed by
// (user, today). The fast path used by the CLI and shortcuts.
func (h *Handler) QuickSubmit(w http.ResponseWriter, r *http.Request) {
	user, err := h.GW.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed", err)
		return
	}

	var req QuickSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dayType, err := attendance.ParseDayType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day type", err)
		return
	}

	row := gateway.DayRow{Date: attendance.Today(), Type: dayType}
	if err := h.GW.UpsertDay(r.Context(), user, row); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to update day log", err)
		return
	}

	h.Log.WithFields(logrus.Fields{"user": user, "type": dayType}).Info("quick submit")
	writeJSON(w, http.StatusOK, QuickSubmitResponse{
		Message: "Day type updated successfully",
		Data:    toDayDTO(row),
	})
}

// =============================================================================
// DAY RECORDS
// =============================================================================

func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	user, err := h.GW.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed", err)
		return
	}

	rows, err := h.GW.ListDays(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list days", err)
		return
	}

	dtos := make([]DayDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toDayDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PutDay sets the record for one date. Applies the same vacation-quota rule
// the local store enforces, using the remote rows as the record set.
func (h *Handler) PutDay(w http.ResponseWriter, r *http.Request) {
	user, err := h.GW.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed", err)
		return
	}

	date, err := attendance.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	var req DayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	dayType, err := attendance.ParseDayType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day type", err)
		return
	}
	if req.ExtraHours < 0 {
		writeError(w, http.StatusBadRequest, "extra_hours must be non-negative", nil)
		return
	}

	if dayType.ConsumesVacation() {
		if err := h.checkQuota(r, user, date); err != nil {
			if attendance.IsClientError(err) {
				writeError(w, http.StatusBadRequest, "Vacation allowance exceeded", err)
			} else {
				writeError(w, http.StatusInternalServerError, "Failed to validate allowance", err)
			}
			return
		}
	}

	row := gateway.DayRow{Date: date, Type: dayType, ExtraHours: req.ExtraHours, Notes: req.Notes}
	if err := h.GW.UpsertDay(r.Context(), user, row); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save day", err)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(row))
}

// checkQuota rebuilds the year's vacation position from remote rows and
// rejects a write that would exceed the allowance. The written date itself
// never counts against its own write.
func (h *Handler) checkQuota(r *http.Request, user gateway.UserID, date attendance.Date) error {
	rows, err := h.GW.ListDays(r.Context(), user)
	if err != nil {
		return err
	}
	allowRows, err := h.GW.ListAllowances(r.Context(), user)
	if err != nil {
		return err
	}

	dayData := make(attendance.DayData, len(rows))
	for _, row := range rows {
		dayData[row.Date] = row.Record()
	}
	if existing, ok := dayData[date]; ok && existing.Type.ConsumesVacation() {
		// Re-classifying an existing vacation/casual day never consumes more.
		return nil
	}
	delete(dayData, date)

	allowances := make(map[int]int, len(allowRows))
	for _, row := range allowRows {
		allowances[row.Year] = row.DaysAllowed
	}

	balance := attendance.ComputeVacationBalance(dayData, allowances, date.Year)
	if balance.Used >= balance.Allowance {
		return &attendance.QuotaError{Year: date.Year, Allowance: balance.Allowance, Used: balance.Used}
	}
	return nil
}

func (h *Handler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	user, err := h.GW.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed", err)
		return
	}

	date, err := attendance.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	if err := h.GW.DeleteDay(r.Context(), user, date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete day", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDays resets all records, or the records in [from, to] when both
// query parameters are present (the month-reset path).
func (h *Handler) DeleteDays(w http.ResponseWriter, r *http.Request) {
	user, err := h.GW.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed", err)
		return
	}

	fromStr, toStr := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		if err := h.GW.DeleteAllDays(r.Context(), user); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to reset days", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	from, err := attendance.ParseDate(fromStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := attendance.ParseDate(toStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "Range end before start", nil)
		return
	}

	if err := h.GW.DeleteDayRange(r.Context(), user, from, to); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset range", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// VACATION ALLOWANCE
// =============================================================================

func (h *Handler) ListAllowances(w http.ResponseWriter, r *http.Request) {
	user, err := h.GW.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed", err)
		return
	}

	rows, err := h.GW.ListAllowances(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list allowances", err)
		return
	}

	dtos := make([]AllowanceDTO, len(rows))
	for i, row := range rows {
		dtos[i] = AllowanceDTO{Year: row.Year, DaysAllowed: row.DaysAllowed}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PutAllowance updates the allowance for a year, inserting the row lazily
// on first write.
func (h *Handler) PutAllowance(w http.ResponseWriter, r *http.Request) {
	user, err := h.GW.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed", err)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 9999 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	var req AllowanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.DaysAllowed < 0 {
		writeError(w, http.StatusBadRequest, "days_allowed must be non-negative", nil)
		return
	}

	affected, err := h.GW.UpdateAllowance(r.Context(), user, year, req.DaysAllowed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update allowance", err)
		return
	}
	if affected == 0 {
		if err := h.GW.InsertAllowance(r.Context(), user, year, req.DaysAllowed); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to insert allowance", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, AllowanceDTO{Year: year, DaysAllowed: req.DaysAllowed})
}

// =============================================================================
// STATISTICS
// =============================================================================

// GetStats computes statistics for ?start=&end= (inclusive). Without
// parameters it defaults to the current calendar month.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	user, err := h.GW.CurrentUser(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed", err)
		return
	}

	period := attendance.MonthOf(attendance.Today())
	if startStr := r.URL.Query().Get("start"); startStr != "" {
		start, err := attendance.ParseDate(startStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
			return
		}
		end, err := attendance.ParseDate(r.URL.Query().Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
			return
		}
		if end.Before(start) {
			writeError(w, http.StatusBadRequest, "Range end before start", nil)
			return
		}
		period = attendance.Period{Start: start, End: end}
	}

	rows, err := h.GW.ListDays(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load days", err)
		return
	}
	dayData := make(attendance.DayData, len(rows))
	for _, row := range rows {
		dayData[row.Date] = row.Record()
	}

	writeJSON(w, http.StatusOK, toStatsDTO(period, attendance.ComputeStats(dayData, period)))
}

// Health is the unauthenticated liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
