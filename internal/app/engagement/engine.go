package engagement

import (
	"fmt"
	"strconv"
	"time"

	"github.com/solarin-app/solarin/internal/app/history"
	"github.com/solarin-app/solarin/internal/app/progress"
	"github.com/solarin-app/solarin/internal/domain"
)

// kvLongestStreak is the KV key for the longest-streak ratchet. It is
// persisted independently because it must survive a broken streak and
// the eviction of old history.
const kvLongestStreak = "streak_longest"

// Engine derives the gamification profile and evaluates the achievement
// catalog against current history.
type Engine struct {
	history  *history.Store
	agg      *progress.Aggregator
	unlocked domain.AchievementStore
	kv       domain.KVStore
	catalog  []domain.AchievementDef
	loc      *time.Location
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine over the given history and stores.
func NewEngine(h *history.Store, agg *progress.Aggregator, unlocked domain.AchievementStore, kv domain.KVStore, loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{
		history:  h,
		agg:      agg,
		unlocked: unlocked,
		kv:       kv,
		catalog:  Catalog(),
		loc:      loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Profile recomputes the full gamification profile from history and
// ratchets the longest streak if the current one surpasses it.
func (e *Engine) Profile(goalIU float64) (domain.GamificationProfile, error) {
	sessions := e.history.All()

	var totalIU float64
	for _, s := range sessions {
		totalIU += s.EstimatedIU
	}

	xp := XPFor(len(sessions), totalIU)
	level, into, toNext := LevelForXP(xp)
	current := e.agg.CurrentStreak()

	longest, err := e.ratchetLongestStreak(current)
	if err != nil {
		return domain.GamificationProfile{}, err
	}

	return domain.GamificationProfile{
		Level:         level,
		XP:            xp,
		XPIntoLevel:   into,
		XPToNextLevel: toNext,
		CurrentStreak: current,
		LongestStreak: longest,
		TotalIU:       totalIU,
		TotalSessions: len(sessions),
	}, nil
}

// Stats builds the snapshot achievement predicates run against.
func (e *Engine) Stats(goalIU float64) domain.AchievementStats {
	sessions := e.history.All()
	today := domain.DateKey(e.now(), e.loc)

	stats := domain.AchievementStats{
		TotalSessions: len(sessions),
		BestStreak:    e.agg.BestStreak(),
		DailyGoalIU:   goalIU,
	}

	locations := make(map[string]bool)
	skies := make(map[string]bool)
	for _, s := range sessions {
		stats.TotalIU += s.EstimatedIU
		if s.Location != "" {
			locations[s.Location] = true
		}
		if s.Weather.Description != "" {
			skies[s.Weather.Description] = true
		}
		if s.ActiveSeconds > stats.LongestSessionSecs {
			stats.LongestSessionSecs = s.ActiveSeconds
		}
		if s.StartedAt.In(e.loc).Hour() < 9 {
			stats.HasPreNineSession = true
		}
		if s.Day(e.loc) == today {
			stats.TodayIU += s.EstimatedIU
		}
	}
	stats.DistinctLocations = len(locations)
	stats.DistinctWeather = len(skies)

	return stats
}

// CheckAndUnlock evaluates all achievements against current history.
// Returns newly unlocked achievements (already-unlocked are skipped, so
// repeated calls are idempotent).
func (e *Engine) CheckAndUnlock(goalIU float64) ([]domain.AchievementDef, error) {
	stats := e.Stats(goalIU)

	var newlyUnlocked []domain.AchievementDef
	for _, def := range e.catalog {
		unlocked, err := e.unlocked.IsAchievementUnlocked(def.ID)
		if err != nil {
			return nil, err
		}
		if unlocked {
			continue
		}

		if def.Predicate != nil && def.Predicate(stats) {
			isNew, err := e.unlocked.UnlockAchievement(def.ID, e.now())
			if err != nil {
				return nil, err
			}
			if isNew {
				newlyUnlocked = append(newlyUnlocked, def)
			}
		}
	}

	return newlyUnlocked, nil
}

// ListUnlocked returns all achievements the user has earned.
func (e *Engine) ListUnlocked() ([]domain.UnlockedAchievement, error) {
	return e.unlocked.ListUnlockedAchievements()
}

// TotalCount returns the size of the catalog.
func (e *Engine) TotalCount() int {
	return len(e.catalog)
}

// Definitions returns all achievement definitions (for display).
func (e *Engine) Definitions() []domain.AchievementDef {
	return e.catalog
}

// ratchetLongestStreak persists current as the new longest if it is, and
// returns whichever is larger.
func (e *Engine) ratchetLongestStreak(current int) (int, error) {
	longest := 0
	raw, err := e.kv.Get(kvLongestStreak)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", kvLongestStreak, err)
	}
	if raw != "" {
		longest, _ = strconv.Atoi(raw)
	}

	if current > longest {
		longest = current
		if err := e.kv.Set(kvLongestStreak, strconv.Itoa(longest)); err != nil {
			return 0, fmt.Errorf("save %s: %w", kvLongestStreak, err)
		}
	}
	return longest, nil
}
