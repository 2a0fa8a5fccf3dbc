// Package domain — engagement types.
// The gamification layer derives XP, levels, and achievements from the
// session history; nothing here mutates that history.
package domain

import "time"

// ─── Level / XP Types ───────────────────────────────────────────────────────

// GamificationProfile is the user's derived progression state.
type GamificationProfile struct {
	Level         int     `json:"level"`
	XP            int64   `json:"xp"`               // total, monotone as history grows
	XPIntoLevel   int64   `json:"xp_into_level"`    // XP spent inside the current level
	XPToNextLevel int64   `json:"xp_to_next_level"` // remaining to level up
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	TotalIU       float64 `json:"total_iu"`
	TotalSessions int     `json:"total_sessions"`
}

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementStats is the snapshot of history fed to achievement
// predicates. Every field is derived from the append-only session log
// (plus the configured daily goal), so predicates stay pure.
type AchievementStats struct {
	TotalSessions        int
	TotalIU              float64
	BestStreak           int // longest run of consecutive days in history
	DistinctLocations    int
	DistinctWeather      int // distinct weather descriptions
	LongestSessionSecs   int
	HasPreNineSession    bool // any session started before 09:00 local
	TodayIU              float64
	DailyGoalIU          float64
}

// AchievementDef defines a single achievement.
type AchievementDef struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	Icon        string                       `json:"icon"`
	Predicate   func(AchievementStats) bool  `json:"-"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
	Notified   bool      `json:"notified"`
}

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes notifications.
type NotificationType string

const (
	NotifyGoalReached NotificationType = "goal_reached"
	NotifyAchievement NotificationType = "achievement"
	NotifyLevelUp     NotificationType = "level_up"
)

// Notification is a user-facing message recorded in the local log.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}
