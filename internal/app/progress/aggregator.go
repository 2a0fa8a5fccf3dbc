// Package progress derives daily, weekly, and monthly accrual views and
// streaks from the session history. Everything is recomputed on demand
// from the log; nothing here is authoritative state.
package progress

import (
	"time"

	"github.com/solarin-app/solarin/internal/app/history"
	"github.com/solarin-app/solarin/internal/domain"
)

// Aggregator computes derived views over the session log.
type Aggregator struct {
	history *history.Store
	loc     *time.Location
	now     func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock overrides the wall clock. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator creates an aggregator using the given time zone for
// calendar-day boundaries. loc == nil means the system zone.
func NewAggregator(h *history.Store, loc *time.Location, opts ...Option) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	a := &Aggregator{
		history: h,
		loc:     loc,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DailyTotal sums estimated IU over all sessions started on the given
// date ("2006-01-02", user-local).
func (a *Aggregator) DailyTotal(date string) float64 {
	total, _ := a.dayAccrual(a.history.All(), date)
	return total
}

// IsGoalAchieved reports whether the date's total reached goalIU.
func (a *Aggregator) IsGoalAchieved(date string, goalIU float64) bool {
	return a.DailyTotal(date) >= goalIU
}

// Today returns the daily progress view for the current date.
func (a *Aggregator) Today(goalIU float64) domain.DailyProgress {
	date := domain.DateKey(a.now(), a.loc)
	total, count := a.dayAccrual(a.history.All(), date)
	return domain.DailyProgress{
		Date:         date,
		TotalIU:      total,
		GoalIU:       goalIU,
		GoalAchieved: total >= goalIU,
		Sessions:     count,
	}
}

// WeeklyStats summarizes the trailing calendar days, today inclusive.
// days <= 0 selects seven.
func (a *Aggregator) WeeklyStats(days int, goalIU float64) domain.WeeklyStats {
	if days <= 0 {
		days = 7
	}

	sessions := a.history.All()
	today := a.now().In(a.loc)

	stats := domain.WeeklyStats{Days: days}
	for i := 0; i < days; i++ {
		date := domain.DateKey(today.AddDate(0, 0, -i), a.loc)
		total, count := a.dayAccrual(sessions, date)
		stats.TotalIU += total
		if count > 0 {
			stats.ActiveDays++
		}
		if total >= goalIU {
			stats.GoalAchievedDays++
		}
	}
	stats.AveragePerDay = stats.TotalIU / float64(days)
	return stats
}

// Monthly returns the current month's totals against its targets.
func (a *Aggregator) Monthly() domain.MonthlyProgress {
	now := a.now().In(a.loc)
	month := now.Format("2006-01")

	mp := domain.MonthlyProgress{
		Month:          month,
		SessionsTarget: domain.MonthlySessionTarget,
		IUTarget:       domain.MonthlyIUTarget,
	}
	for _, s := range a.history.All() {
		if s.StartedAt.In(a.loc).Format("2006-01") == month {
			mp.SessionsDone++
			mp.IUCollected += s.EstimatedIU
		}
	}
	return mp
}

// CurrentStreak walks backward from today counting consecutive days with
// at least one session. Today having no session yet does not break a
// streak that includes yesterday — the day is not over.
func (a *Aggregator) CurrentStreak() int {
	days := a.activeDays()
	if len(days) == 0 {
		return 0
	}

	cursor := a.now().In(a.loc)
	today := domain.DateKey(cursor, a.loc)
	if !days[today] {
		// Today is still open; start counting from yesterday.
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for days[domain.DateKey(cursor, a.loc)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// BestStreak returns the longest run of consecutive active days anywhere
// in the retained history. Used for the streak achievement, which must
// stay true once earned even after the current streak breaks.
func (a *Aggregator) BestStreak() int {
	days := a.activeDays()
	best := 0
	for day := range days {
		start, err := time.ParseInLocation("2006-01-02", day, a.loc)
		if err != nil {
			continue
		}
		// Only count runs from their first day.
		if days[domain.DateKey(start.AddDate(0, 0, -1), a.loc)] {
			continue
		}
		run := 0
		for cursor := start; days[domain.DateKey(cursor, a.loc)]; cursor = cursor.AddDate(0, 0, 1) {
			run++
		}
		if run > best {
			best = run
		}
	}
	return best
}

// dayAccrual sums IU and counts sessions for one date.
func (a *Aggregator) dayAccrual(sessions []domain.ExposureSession, date string) (float64, int) {
	var total float64
	count := 0
	for _, s := range sessions {
		if s.Day(a.loc) == date {
			total += s.EstimatedIU
			count++
		}
	}
	return total, count
}

// activeDays returns the set of dates with at least one session.
func (a *Aggregator) activeDays() map[string]bool {
	days := make(map[string]bool)
	for _, s := range a.history.All() {
		days[s.Day(a.loc)] = true
	}
	return days
}
