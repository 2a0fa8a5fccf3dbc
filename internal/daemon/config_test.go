package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/solarin-app/solarin/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8614 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8614)
	}
	if cfg.Profile.DailyGoalIU != domain.DefaultDailyGoalIU {
		t.Errorf("Profile.DailyGoalIU = %d, want %d", cfg.Profile.DailyGoalIU, domain.DefaultDailyGoalIU)
	}
	if cfg.Tracking.HistoryLimit != 50 {
		t.Errorf("Tracking.HistoryLimit = %d, want 50", cfg.Tracking.HistoryLimit)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SOLARIN_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 8614 {
		t.Errorf("API.Port = %d, want default 8614", cfg.API.Port)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SOLARIN_HOME", dir)

	content := `
[api]
host = "0.0.0.0"
port = 9000

[profile]
skin_type = "light"
clothing = "minimal"
daily_goal_iu = 900

[location]
lat = 38.7223
lon = -9.1393
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.Location.Lat != 38.7223 {
		t.Errorf("Location.Lat = %v, want 38.7223", cfg.Location.Lat)
	}

	p := cfg.UserProfile()
	if p.SkinType != domain.SkinLight {
		t.Errorf("SkinType = %v, want %v", p.SkinType, domain.SkinLight)
	}
	if p.Clothing != domain.CoverageMinimal {
		t.Errorf("Clothing = %v, want %v", p.Clothing, domain.CoverageMinimal)
	}
	if p.DailyGoalIU != 900 {
		t.Errorf("DailyGoalIU = %v, want 900", p.DailyGoalIU)
	}
}

func TestUserProfile_InvalidFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Profile.SkinType = "plaid"
	cfg.Profile.Clothing = "armor"
	cfg.Profile.DailyGoalIU = -5

	p := cfg.UserProfile()
	def := domain.DefaultProfile()
	if p.SkinType != def.SkinType {
		t.Errorf("SkinType = %v, want default %v", p.SkinType, def.SkinType)
	}
	if p.Clothing != def.Clothing {
		t.Errorf("Clothing = %v, want default %v", p.Clothing, def.Clothing)
	}
	if p.DailyGoalIU != def.DailyGoalIU {
		t.Errorf("DailyGoalIU = %v, want default %v", p.DailyGoalIU, def.DailyGoalIU)
	}
}

func TestParseDuration(t *testing.T) {
	if got := parseDuration("250ms", time.Second); got != 250*time.Millisecond {
		t.Errorf("parseDuration(250ms) = %v", got)
	}
	if got := parseDuration("", time.Second); got != time.Second {
		t.Errorf("parseDuration(empty) = %v, want fallback", got)
	}
	if got := parseDuration("bogus", time.Minute); got != time.Minute {
		t.Errorf("parseDuration(bogus) = %v, want fallback", got)
	}
}
