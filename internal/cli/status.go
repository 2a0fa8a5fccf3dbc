package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd, uvCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tracker status and today's progress",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	var status struct {
		Session snapshotView `json:"session"`
		Today   struct {
			TotalIU      float64 `json:"total_iu"`
			GoalIU       float64 `json:"goal_iu"`
			GoalAchieved bool    `json:"goal_achieved"`
			Sessions     int     `json:"sessions"`
		} `json:"today"`
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		Weather struct {
			Temperature float64 `json:"temperature"`
			Description string  `json:"description"`
		} `json:"weather"`
		UV struct {
			Index     float64 `json:"index"`
			Estimated bool    `json:"estimated"`
		} `json:"uv"`
	}
	if err := c.get("/api/status", &status); err != nil {
		return err
	}

	uvNote := ""
	if status.UV.Estimated {
		uvNote = " (estimated)"
	}
	fmt.Printf("Location:  %s — %s, %.0f°C\n", status.Location.Name, status.Weather.Description, status.Weather.Temperature)
	fmt.Printf("UV index:  %.1f%s\n", status.UV.Index, uvNote)

	switch status.Session.State {
	case "active":
		fmt.Printf("Session:   active, %s — %.0f IU (%.0f IU/min)\n",
			formatSeconds(status.Session.ActiveSeconds), status.Session.EstimatedIU, status.Session.RatePerMinute)
	case "paused":
		fmt.Printf("Session:   paused at %s — %.0f IU\n",
			formatSeconds(status.Session.ActiveSeconds), status.Session.EstimatedIU)
	default:
		fmt.Println("Session:   none")
	}

	check := " "
	if status.Today.GoalAchieved {
		check = "✓"
	}
	fmt.Printf("Today:     %.0f / %.0f IU %s (%d sessions)\n",
		status.Today.TotalIU, status.Today.GoalIU, check, status.Today.Sessions)
	return nil
}

var uvCmd = &cobra.Command{
	Use:   "uv",
	Short: "Show the current UV index and forecast",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		var current struct {
			UV struct {
				Index     float64 `json:"index"`
				Estimated bool    `json:"estimated"`
			} `json:"uv"`
			Location struct {
				Name string `json:"name"`
			} `json:"location"`
		}
		if err := c.get("/api/uv", &current); err != nil {
			return err
		}

		note := ""
		if current.UV.Estimated {
			note = " (estimated)"
		}
		fmt.Printf("UV index at %s: %.1f%s\n", current.Location.Name, current.UV.Index, note)

		var forecast struct {
			Forecast []struct {
				Index float64 `json:"index"`
				Time  string  `json:"time"`
			} `json:"forecast"`
		}
		if err := c.get("/api/uv/forecast", &forecast); err != nil {
			return nil // Forecast is best-effort
		}
		for i, f := range forecast.Forecast {
			if i >= 6 {
				break
			}
			fmt.Printf("  %s  %.1f\n", f.Time, f.Index)
		}
		return nil
	},
}
