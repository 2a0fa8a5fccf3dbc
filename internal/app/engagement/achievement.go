package engagement

import "github.com/solarin-app/solarin/internal/domain"

// Catalog returns the full achievement catalog. Every predicate is pure
// over the AchievementStats snapshot, and each condition only ever moves
// from false to true as history grows (BestStreak rather than the
// current streak, for instance). The persisted unlocked set ratchets on
// top of that, so an unlock can never be lost.
func Catalog() []domain.AchievementDef {
	return []domain.AchievementDef{
		{
			ID: "first-session", Name: "First Ray",
			Description: "Complete your first sun exposure session",
			Icon:        "🌅",
			Predicate:   func(s domain.AchievementStats) bool { return s.TotalSessions >= 1 },
		},
		{
			ID: "early-bird", Name: "Early Bird",
			Description: "Start a session before 9 in the morning",
			Icon:        "🐦",
			Predicate:   func(s domain.AchievementStats) bool { return s.HasPreNineSession },
		},
		{
			ID: "dedicated", Name: "Sun Devotee",
			Description: "Complete 7 sessions",
			Icon:        "⭐",
			Predicate:   func(s domain.AchievementStats) bool { return s.TotalSessions >= 7 },
		},
		{
			ID: "vitamin-collector", Name: "Vitamin Collector",
			Description: "Collect 1000 IU of vitamin D in total",
			Icon:        "💊",
			Predicate:   func(s domain.AchievementStats) bool { return s.TotalIU >= 1000 },
		},
		{
			ID: "streak-3", Name: "Solar Streak",
			Description: "Keep a 3-day streak going",
			Icon:        "🔥",
			Predicate:   func(s domain.AchievementStats) bool { return s.BestStreak >= 3 },
		},
		{
			ID: "explorer", Name: "Solar Explorer",
			Description: "Log sessions at 3 different locations",
			Icon:        "🌍",
			Predicate:   func(s domain.AchievementStats) bool { return s.DistinctLocations >= 3 },
		},
		{
			ID: "long-session", Name: "Long Soak",
			Description: "Complete a single session of 30 minutes or more",
			Icon:        "⏰",
			Predicate:   func(s domain.AchievementStats) bool { return s.LongestSessionSecs >= 1800 },
		},
		{
			ID: "weather-warrior", Name: "Weather Warrior",
			Description: "Log sessions under 3 different skies",
			Icon:        "⛅",
			Predicate:   func(s domain.AchievementStats) bool { return s.DistinctWeather >= 3 },
		},
		{
			ID: "daily-goal", Name: "Daily Goal",
			Description: "Reach your daily vitamin-D goal",
			Icon:        "🎯",
			Predicate: func(s domain.AchievementStats) bool {
				return s.DailyGoalIU > 0 && s.TodayIU >= s.DailyGoalIU
			},
		},
	}
}
