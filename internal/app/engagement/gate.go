package engagement

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/solarin-app/solarin/internal/domain"
)

// KV keys for the gate's persisted baselines.
const (
	kvGoalNotifiedDate = "goal_notified_date"
	kvAchievementsSeen = "achievements_notified"
	kvLevelNotified    = "level_notified"
)

// Gate deduplicates derived events: "goal reached today" fires at most
// once per calendar date, and "achievement unlocked" at most once per
// achievement, across restarts. Repeated calls with unchanged inputs
// never renotify.
type Gate struct {
	mu sync.Mutex
	kv domain.KVStore
}

// NewGate creates a gate over the given store.
func NewGate(kv domain.KVStore) *Gate {
	return &Gate{kv: kv}
}

// ShouldNotifyGoal reports whether the goal notification for date has
// not fired yet, and marks it fired. The first call for a date returns
// true; every later call for the same date returns false.
func (g *Gate) ShouldNotifyGoal(date string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	last, err := g.kv.Get(kvGoalNotifiedDate)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", kvGoalNotifiedDate, err)
	}
	if last == date {
		return false, nil
	}

	if err := g.kv.Set(kvGoalNotifiedDate, date); err != nil {
		return false, fmt.Errorf("save %s: %w", kvGoalNotifiedDate, err)
	}
	return true, nil
}

// ShouldNotifyLevel reports whether level is higher than any level
// announced before, and records it. Levels only ratchet upward, so a
// recomputation that lands on the same level stays silent.
func (g *Gate) ShouldNotifyLevel(level int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	raw, err := g.kv.Get(kvLevelNotified)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", kvLevelNotified, err)
	}
	last := 1
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			last = n
		}
	}
	if level <= last {
		return false, nil
	}

	if err := g.kv.Set(kvLevelNotified, strconv.Itoa(level)); err != nil {
		return false, fmt.Errorf("save %s: %w", kvLevelNotified, err)
	}
	return true, nil
}

// NewlyUnlocked returns the achievement ids in current that are not in
// the persisted baseline, then persists current as the new baseline.
// The baseline only grows, so an achievement is announced once ever.
func (g *Gate) NewlyUnlocked(current []string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	previous, err := g.loadSeen()
	if err != nil {
		return nil, err
	}

	var fresh []string
	for _, id := range current {
		if !previous[id] {
			fresh = append(fresh, id)
			previous[id] = true
		}
	}
	if len(fresh) == 0 {
		return nil, nil
	}
	sort.Strings(fresh)

	if err := g.saveSeen(previous); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (g *Gate) loadSeen() (map[string]bool, error) {
	raw, err := g.kv.Get(kvAchievementsSeen)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kvAchievementsSeen, err)
	}

	seen := make(map[string]bool)
	if raw == "" {
		return seen, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		// A corrupt baseline must not wedge notifications forever;
		// start over and let the set re-ratchet.
		return seen, nil
	}
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}

func (g *Gate) saveSeen(seen map[string]bool) error {
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := g.kv.Set(kvAchievementsSeen, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", kvAchievementsSeen, err)
	}
	return nil
}
