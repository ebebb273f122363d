package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warp/attendance/attendance"
)

var (
	dayHours float64
	dayNotes string
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Manage individual day records",
}

var daySetCmd = &cobra.Command{
	Use:   "set <date> <type>",
	Short: "Set the record for a date (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(2),
	RunE:  runDaySet,
}

var dayClearCmd = &cobra.Command{
	Use:   "clear <date>",
	Short: "Clear the record for a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runDayClear,
}

func init() {
	daySetCmd.Flags().Float64Var(&dayHours, "hours", 0, "Extra hours worked")
	daySetCmd.Flags().StringVar(&dayNotes, "notes", "", "Free-text note")
	dayCmd.AddCommand(daySetCmd)
	dayCmd.AddCommand(dayClearCmd)
}

func runDaySet(cmd *cobra.Command, args []string) error {
	date, err := attendance.ParseDate(args[0])
	if err != nil {
		return err
	}
	dayType, err := attendance.ParseDayType(strings.ToLower(args[1]))
	if err != nil {
		return err
	}

	body := map[string]any{
		"type":        string(dayType),
		"extra_hours": dayHours,
		"notes":       dayNotes,
	}
	if err := call("PUT", "/api/days/"+url.PathEscape(date.String()), body, nil); err != nil {
		return err
	}

	fmt.Printf("Set %s to %s\n", date, dayType)
	return nil
}

func runDayClear(cmd *cobra.Command, args []string) error {
	date, err := attendance.ParseDate(args[0])
	if err != nil {
		return err
	}
	if err := call("DELETE", "/api/days/"+url.PathEscape(date.String()), nil, nil); err != nil {
		return err
	}
	fmt.Printf("Cleared %s\n", date)
	return nil
}
