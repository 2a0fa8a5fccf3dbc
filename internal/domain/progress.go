package domain

// ─── Derived Progress Types ─────────────────────────────────────────────────
// All of these are computed views over the session history. None is a
// source of truth; every field is recomputable from the log.

// DailyProgress is the accrual picture for one calendar date.
type DailyProgress struct {
	Date         string  `json:"date"` // "2006-01-02", user-local
	TotalIU      float64 `json:"total_iu"`
	GoalIU       float64 `json:"goal_iu"`
	GoalAchieved bool    `json:"goal_achieved"`
	Sessions     int     `json:"sessions"`
}

// WeeklyStats summarizes the trailing N calendar days, today inclusive.
type WeeklyStats struct {
	Days            int     `json:"days"`
	TotalIU         float64 `json:"total_iu"`
	AveragePerDay   float64 `json:"average_per_day"`
	ActiveDays      int     `json:"active_days"`       // days with >= 1 session
	GoalAchievedDays int    `json:"goal_achieved_days"`
}

// MonthlyProgress tracks the current month against its targets.
type MonthlyProgress struct {
	Month          string  `json:"month"` // "2006-01"
	SessionsTarget int     `json:"sessions_target"`
	SessionsDone   int     `json:"sessions_done"`
	IUTarget       float64 `json:"iu_target"`
	IUCollected    float64 `json:"iu_collected"`
}

// Monthly targets. The session target matches roughly a session most
// weekdays; the IU target is about three goal-days of accrual.
const (
	MonthlySessionTarget = 20
	MonthlyIUTarget      = 2000
)

// Streak counts consecutive calendar days with at least one session.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"` // ratchet, survives a broken current streak
}
