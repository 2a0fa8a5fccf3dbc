package domain

import (
	"context"
	"time"
)

// ─── Collaborator Interfaces ────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// UVProvider supplies the current UV index for a location. Implementations
// may fail or time out; callers degrade to a last-known or synthetic value
// rather than blocking session tracking.
type UVProvider interface {
	// CurrentUV returns the latest UV observation for the coordinates.
	CurrentUV(ctx context.Context, lat, lon float64) (UVReading, error)

	// Forecast returns upcoming hourly UV readings, soonest first.
	Forecast(ctx context.Context, lat, lon float64) ([]UVReading, error)
}

// WeatherProvider supplies current sky conditions for a location.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (Weather, error)
}

// LocationProvider resolves where the user is. May fail, in which case the
// caller substitutes a configured default location.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (Location, error)
}

// Notifier is a fire-and-forget notification sink. The core decides when
// to call it, never how the message is delivered.
type Notifier interface {
	Notify(title, body string)
}

// ─── Store Interfaces ───────────────────────────────────────────────────────

// SessionStore persists finalized exposure sessions.
// Implemented by infra/sqlite.
type SessionStore interface {
	// InsertSession appends a finalized session and evicts the oldest
	// records beyond keep, in one transaction.
	InsertSession(s ExposureSession, keep int) error

	// ListSessions returns up to limit sessions, most-recent-first.
	// limit <= 0 means no limit.
	ListSessions(limit int) ([]ExposureSession, error)
}

// KVStore is the schemaless key-value persistence the tracker uses for
// the profile, the daily goal, the longest-streak ratchet, and the
// notification-gate baselines. Get returns "" for an absent key.
type KVStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// AchievementStore records which achievements have been unlocked.
// The unlocked set only ever grows.
type AchievementStore interface {
	// UnlockAchievement marks id unlocked at the given time.
	// Returns false if it was already unlocked (idempotent).
	UnlockAchievement(id string, at time.Time) (bool, error)

	IsAchievementUnlocked(id string) (bool, error)
	ListUnlockedAchievements() ([]UnlockedAchievement, error)
	UnlockedAchievementCount() (int, error)
}
