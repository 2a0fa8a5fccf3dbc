// Package daemon manages the Solarin daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/solarin-app/solarin/internal/domain"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Profile   ProfileConfig   `toml:"profile"`
	Location  LocationConfig  `toml:"location"`
	Tracking  TrackingConfig  `toml:"tracking"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ProfileConfig describes the user for dose estimation.
type ProfileConfig struct {
	SkinType    string `toml:"skin_type"` // very-light … very-dark
	Clothing    string `toml:"clothing"`  // minimal, partial, full
	DailyGoalIU int    `toml:"daily_goal_iu"`
}

// LocationConfig pins the tracker to fixed coordinates. When lat and
// lon are both zero the built-in default location is used.
type LocationConfig struct {
	Lat float64 `toml:"lat"`
	Lon float64 `toml:"lon"`
}

// TrackingConfig controls the tracking loops.
type TrackingConfig struct {
	TickInterval    string `toml:"tick_interval"`
	RefreshInterval string `toml:"refresh_interval"`
	HistoryLimit    int    `toml:"history_limit"`
	Timezone        string `toml:"timezone"` // IANA name; empty = system local
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8614,
		},
		Profile: ProfileConfig{
			SkinType:    "medium",
			Clothing:    "partial",
			DailyGoalIU: domain.DefaultDailyGoalIU,
		},
		Tracking: TrackingConfig{
			TickInterval:    "1s",
			RefreshInterval: "10m",
			HistoryLimit:    50,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from ~/.solarin/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(solarinHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // no config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.solarin/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(solarinHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// UserProfile converts the config's profile section into a domain
// profile, falling back to defaults for unparseable values.
func (c Config) UserProfile() domain.Profile {
	p := domain.DefaultProfile()
	if st, err := domain.ParseSkinType(c.Profile.SkinType); err == nil {
		p.SkinType = st
	}
	if cov, err := domain.ParseClothingCoverage(c.Profile.Clothing); err == nil {
		p.Clothing = cov
	}
	if c.Profile.DailyGoalIU > 0 {
		p.DailyGoalIU = float64(c.Profile.DailyGoalIU)
	}
	return p
}

// solarinHome returns the Solarin data directory.
func solarinHome() string {
	if env := os.Getenv("SOLARIN_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".solarin")
}

// SolarinHome is exported for use by other packages.
func SolarinHome() string {
	return solarinHome()
}
