package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solarin-app/solarin/internal/daemon"
	"github.com/solarin-app/solarin/internal/domain"
)

func init() {
	profileCmd.Flags().BoolVar(&profileInit, "init", false, "Write the default config file if none exists")
	profileCmd.Flags().StringVar(&profileSkin, "skin", "", "Set skin type (very-light, light, medium, tan, dark, very-dark)")
	profileCmd.Flags().StringVar(&profileClothing, "clothing", "", "Set clothing coverage (minimal, partial, full)")
	profileCmd.Flags().IntVar(&profileGoal, "goal", 0, "Set the daily vitamin-D goal in IU")
	rootCmd.AddCommand(profileCmd)
}

var (
	profileInit     bool
	profileSkin     string
	profileClothing string
	profileGoal     int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the exposure profile",
	Long: `Show the configured exposure profile. With --skin, --clothing, or
--goal the config file is updated; restart the daemon to apply.`,
	RunE: runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}

	changed := false
	if profileSkin != "" {
		skin, err := domain.ParseSkinType(profileSkin)
		if err != nil {
			return err
		}
		cfg.Profile.SkinType = skin.String()
		changed = true
	}
	if profileClothing != "" {
		cov, err := domain.ParseClothingCoverage(profileClothing)
		if err != nil {
			return err
		}
		cfg.Profile.Clothing = cov.String()
		changed = true
	}
	if profileGoal > 0 {
		cfg.Profile.DailyGoalIU = profileGoal
		changed = true
	}

	if changed || profileInit {
		if err := daemon.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Println("Wrote config to", daemon.SolarinHome())
	}

	p := cfg.UserProfile()
	fmt.Printf("Skin type:   %s (dose ×%.1f)\n", p.SkinType, p.SkinType.Multiplier())
	fmt.Printf("Clothing:    %s (%.0f%% skin exposed)\n", p.Clothing, p.Clothing.ExposedFraction()*100)
	fmt.Printf("Daily goal:  %.0f IU\n", p.DailyGoalIU)
	if cfg.Location.Lat != 0 || cfg.Location.Lon != 0 {
		fmt.Printf("Location:    %.4f, %.4f\n", cfg.Location.Lat, cfg.Location.Lon)
	} else {
		fmt.Println("Location:    default (set [location] lat/lon in config.toml)")
	}
	return nil
}
