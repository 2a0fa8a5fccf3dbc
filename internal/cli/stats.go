package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd, levelCmd, achievementsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress: today, this week, this month",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	var resp struct {
		Profile struct {
			Level         int     `json:"level"`
			XP            int64   `json:"xp"`
			XPToNextLevel int64   `json:"xp_to_next_level"`
			CurrentStreak int     `json:"current_streak"`
			LongestStreak int     `json:"longest_streak"`
			TotalIU       float64 `json:"total_iu"`
			TotalSessions int     `json:"total_sessions"`
		} `json:"profile"`
		Today struct {
			TotalIU      float64 `json:"total_iu"`
			GoalIU       float64 `json:"goal_iu"`
			GoalAchieved bool    `json:"goal_achieved"`
		} `json:"today"`
		Weekly struct {
			TotalIU          float64 `json:"total_iu"`
			AveragePerDay    float64 `json:"average_per_day"`
			ActiveDays       int     `json:"active_days"`
			GoalAchievedDays int     `json:"goal_achieved_days"`
		} `json:"weekly"`
		Monthly struct {
			Month          string  `json:"month"`
			SessionsTarget int     `json:"sessions_target"`
			SessionsDone   int     `json:"sessions_done"`
			IUTarget       float64 `json:"iu_target"`
			IUCollected    float64 `json:"iu_collected"`
		} `json:"monthly"`
	}
	if err := c.get("/api/engagement/summary", &resp); err != nil {
		return err
	}

	check := ""
	if resp.Today.GoalAchieved {
		check = " ✓"
	}
	fmt.Printf("Level %d — %d XP (%d to next level)\n", resp.Profile.Level, resp.Profile.XP, resp.Profile.XPToNextLevel)
	fmt.Printf("Streak: %d days (best %d)\n\n", resp.Profile.CurrentStreak, resp.Profile.LongestStreak)
	fmt.Printf("Today:      %.0f / %.0f IU%s\n", resp.Today.TotalIU, resp.Today.GoalIU, check)
	fmt.Printf("This week:  %.0f IU over %d active days (avg %.0f/day, %d goal days)\n",
		resp.Weekly.TotalIU, resp.Weekly.ActiveDays, resp.Weekly.AveragePerDay, resp.Weekly.GoalAchievedDays)
	fmt.Printf("This month: %d/%d sessions, %.0f/%.0f IU\n",
		resp.Monthly.SessionsDone, resp.Monthly.SessionsTarget, resp.Monthly.IUCollected, resp.Monthly.IUTarget)
	fmt.Printf("\nAll time:   %d sessions, %.0f IU\n", resp.Profile.TotalSessions, resp.Profile.TotalIU)
	return nil
}

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show level and XP",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		var p struct {
			Level         int   `json:"level"`
			XP            int64 `json:"xp"`
			XPIntoLevel   int64 `json:"xp_into_level"`
			XPToNextLevel int64 `json:"xp_to_next_level"`
		}
		if err := c.get("/api/engagement/level", &p); err != nil {
			return err
		}
		fmt.Printf("Level %d\n", p.Level)
		fmt.Printf("  %d XP total, %d into this level, %d to the next\n", p.XP, p.XPIntoLevel, p.XPToNextLevel)
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and unlock status",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		var resp struct {
			Achievements []struct {
				Name        string     `json:"name"`
				Description string     `json:"description"`
				Icon        string     `json:"icon"`
				Unlocked    bool       `json:"unlocked"`
				UnlockedAt  *time.Time `json:"unlocked_at"`
			} `json:"achievements"`
			Unlocked int `json:"unlocked"`
			Total    int `json:"total"`
		}
		if err := c.get("/api/engagement/achievements", &resp); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, a := range resp.Achievements {
			when := "—"
			if a.Unlocked && a.UnlockedAt != nil {
				when = a.UnlockedAt.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%s %s\t%s\t%s\n", a.Icon, a.Name, a.Description, when)
		}
		w.Flush()
		fmt.Printf("\n%d of %d unlocked\n", resp.Unlocked, resp.Total)
		return nil
	},
}
