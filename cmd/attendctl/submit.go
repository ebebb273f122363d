package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warp/attendance/attendance"
)

var submitCmd = &cobra.Command{
	Use:   "submit <type>",
	Short: "Quick-submit today's status (office, home, holiday, sick, casual, vacation, night)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	dayType, err := attendance.ParseDayType(strings.ToLower(args[0]))
	if err != nil {
		return err
	}

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			Date string `json:"date"`
			Type string `json:"type"`
		} `json:"data"`
	}
	if err := call("POST", "/api/day-type", map[string]string{"type": string(dayType)}, &resp); err != nil {
		return err
	}

	fmt.Printf("Logged %s for %s\n", resp.Data.Type, resp.Data.Date)
	return nil
}
