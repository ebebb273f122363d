/*
cache.go - Disk persistence of the durable state subset

PURPOSE:
  Between sessions only dayData and vacationDays are worth keeping; the
  selected date and the undo snapshot are session-only by design. SaveCache
  and LoadCache are the explicit serialize/deserialize hooks called at
  process shutdown and startup.
*/
package workstate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warp/attendance/attendance"
)

// cacheFile is the on-disk shape. Dates serialize as ISO object keys.
type cacheFile struct {
	DayData      attendance.DayData `json:"dayData"`
	VacationDays map[int]int        `json:"vacationDays"`
}

// SaveCache writes the durable subset of state to path.
func (s *Store) SaveCache(path string) error {
	s.mu.Lock()
	payload := cacheFile{
		DayData:      s.dayData.Clone(),
		VacationDays: make(map[int]int, len(s.vacationDays)),
	}
	for y, d := range s.vacationDays {
		payload.VacationDays[y] = d
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// LoadCache replaces local state with the cached subset. A missing file is
// not an error: the store simply starts empty and the first sync fills it.
func (s *Store) LoadCache(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}

	var payload cacheFile
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode cache: %w", err)
	}
	if payload.DayData == nil {
		payload.DayData = make(attendance.DayData)
	}
	if payload.VacationDays == nil {
		payload.VacationDays = make(map[int]int)
	}

	s.mu.Lock()
	s.dayData = payload.DayData
	s.vacationDays = payload.VacationDays
	s.mu.Unlock()
	return nil
}
