package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(startCmd, pauseCmd, resumeCmd, stopCmd)
}

// sessionView mirrors the API's finalized session payload.
type sessionView struct {
	ID            string  `json:"id"`
	Location      string  `json:"location"`
	ActiveSeconds int     `json:"active_seconds"`
	UVIndex       float64 `json:"uv_index"`
	EstimatedIU   float64 `json:"estimated_iu"`
}

// snapshotView mirrors the API's live session snapshot.
type snapshotView struct {
	State         string  `json:"state"`
	SessionID     string  `json:"session_id"`
	ActiveSeconds int     `json:"active_seconds"`
	EstimatedIU   float64 `json:"estimated_iu"`
	RatePerMinute float64 `json:"rate_per_minute"`
	UVIndex       float64 `json:"uv_index"`
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a sun exposure session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		var sess sessionView
		if err := c.post("/api/session/start", &sess); err != nil {
			return err
		}
		fmt.Printf("Session started at %s (UV %.1f)\n", sess.Location, sess.UVIndex)
		return nil
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		var snap snapshotView
		if err := c.post("/api/session/pause", &snap); err != nil {
			return err
		}
		fmt.Printf("Paused after %s — %.0f IU so far\n", formatSeconds(snap.ActiveSeconds), snap.EstimatedIU)
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused session",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		var snap snapshotView
		if err := c.post("/api/session/resume", &snap); err != nil {
			return err
		}
		fmt.Printf("Resumed — %.0f IU/min at UV %.1f\n", snap.RatePerMinute, snap.UVIndex)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the session and record it",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		var sess sessionView
		if err := c.post("/api/session/stop", &sess); err != nil {
			return err
		}
		fmt.Printf("Session finished: %s in the sun, ~%.0f IU of vitamin D\n",
			formatSeconds(sess.ActiveSeconds), sess.EstimatedIU)
		return nil
	},
}

// formatSeconds renders a duration as "12m34s" or "45s".
func formatSeconds(secs int) string {
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}
