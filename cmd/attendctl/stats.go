package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/warp/attendance/attendance"
)

var (
	statsStart string
	statsEnd   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show compliance statistics (defaults to the current month)",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsStart, "start", "", "Range start (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsEnd, "end", "", "Range end (YYYY-MM-DD)")
}

func runStats(cmd *cobra.Command, args []string) error {
	path := "/api/stats"
	if statsStart != "" || statsEnd != "" {
		if _, err := attendance.ParseDate(statsStart); err != nil {
			return err
		}
		if _, err := attendance.ParseDate(statsEnd); err != nil {
			return err
		}
		q := url.Values{}
		q.Set("start", statsStart)
		q.Set("end", statsEnd)
		path += "?" + q.Encode()
	}

	var s struct {
		Start                string `json:"start"`
		End                  string `json:"end"`
		WorkingDays          int    `json:"working_days"`
		OfficeDays           int    `json:"office_days"`
		HomeDays             int    `json:"home_days"`
		Holidays             int    `json:"holidays"`
		SickDays             int    `json:"sick_days"`
		CasualDays           int    `json:"casual_days"`
		VacationDays         int    `json:"vacation_days"`
		NightDays            int    `json:"night_days"`
		TotalLoggedDays      int    `json:"total_logged_days"`
		TotalExtraHours      string `json:"total_extra_hours"`
		OfficeDaysRequired   string `json:"office_days_required"`
		CompletionPercentage string `json:"completion_percentage"`
		RemainingDays        string `json:"remaining_days"`
	}
	if err := call("GET", path, nil, &s); err != nil {
		return err
	}

	fmt.Printf("Period %s .. %s\n", s.Start, s.End)
	fmt.Printf("  Working days:   %d\n", s.WorkingDays)
	fmt.Printf("  Logged days:    %d (office %d, sick %d, casual %d, vacation %d, night %d)\n",
		s.TotalLoggedDays, s.OfficeDays, s.SickDays, s.CasualDays, s.VacationDays, s.NightDays)
	fmt.Printf("  Home/Holiday:   %d / %d\n", s.HomeDays, s.Holidays)
	fmt.Printf("  Extra hours:    %s\n", s.TotalExtraHours)
	fmt.Printf("  Required:       %s\n", s.OfficeDaysRequired)
	fmt.Printf("  Completion:     %s%%\n", s.CompletionPercentage)
	fmt.Printf("  Remaining:      %s\n", s.RemainingDays)
	return nil
}
