package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attendctl",
	Short: "Command-line client for the attendance service",
	Long: `attendctl talks to the attendance service API: quick-submit today's
status, set or clear day records, and view compliance statistics.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(statsCmd)
}

// =============================================================================
// API CLIENT
// =============================================================================

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// call performs one authenticated request and decodes the JSON response
// into out (which may be nil for no-content responses).
func call(method, path string, body any, out any) error {
	_ = godotenv.Load()

	base := os.Getenv("ATTENDANCE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	token := os.Getenv("ATTENDANCE_TOKEN")
	if token == "" {
		return fmt.Errorf("ATTENDANCE_TOKEN is not set")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (%d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
