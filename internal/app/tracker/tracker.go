// Package tracker orchestrates the exposure tracker: it feeds the
// session controller with environment data, finalizes sessions, and
// runs the post-session pipeline (progress, achievements,
// notifications).
package tracker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/solarin-app/solarin/internal/app/engagement"
	"github.com/solarin-app/solarin/internal/app/history"
	"github.com/solarin-app/solarin/internal/app/progress"
	"github.com/solarin-app/solarin/internal/app/session"
	"github.com/solarin-app/solarin/internal/domain"
	"github.com/solarin-app/solarin/internal/infra/metrics"
)

// NotificationLog persists emitted notifications.
type NotificationLog interface {
	InsertNotification(n domain.Notification) (int64, error)
}

// Tracker is the application facade the API and CLI talk to.
type Tracker struct {
	Controller *session.Controller
	History    *history.Store
	Progress   *progress.Aggregator
	Engine     *engagement.Engine
	Gate       *engagement.Gate

	uv       domain.UVProvider
	weather  domain.WeatherProvider
	location domain.LocationProvider
	notifLog NotificationLog
	notifier domain.Notifier
	profile  domain.Profile
	tz       *time.Location
	now      func() time.Time

	mu        sync.Mutex
	env       environment
	refreshed time.Time
}

// environment is the most recently fetched world state.
type environment struct {
	Location domain.Location
	Weather  domain.Weather
	UV       domain.UVReading
}

// Config wires a Tracker.
type Config struct {
	Controller *session.Controller
	History    *history.Store
	Progress   *progress.Aggregator
	Engine     *engagement.Engine
	Gate       *engagement.Gate

	UV       domain.UVProvider
	Weather  domain.WeatherProvider
	Location domain.LocationProvider
	NotifLog NotificationLog
	Notifier domain.Notifier // optional push sink; the log is always kept
	Profile  domain.Profile
	TZ       *time.Location
	Now      func() time.Time
}

// New creates a Tracker from wired components.
func New(cfg Config) *Tracker {
	t := &Tracker{
		Controller: cfg.Controller,
		History:    cfg.History,
		Progress:   cfg.Progress,
		Engine:     cfg.Engine,
		Gate:       cfg.Gate,
		uv:         cfg.UV,
		weather:    cfg.Weather,
		location:   cfg.Location,
		notifLog:   cfg.NotifLog,
		notifier:   cfg.Notifier,
		profile:    cfg.Profile,
		tz:         cfg.TZ,
		now:        cfg.Now,
	}
	if t.tz == nil {
		t.tz = time.Local
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t
}

// Profile returns the configured user profile.
func (t *Tracker) Profile() domain.Profile { return t.profile }

// RefreshEnvironment fetches location, weather and UV, caching the
// result for Start and feeding the live UV into the controller.
func (t *Tracker) RefreshEnvironment(ctx context.Context) error {
	loc, err := t.location.CurrentLocation(ctx)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("geocode").Inc()
		return fmt.Errorf("resolve location: %w", err)
	}

	wx, err := t.weather.CurrentWeather(ctx, loc.Lat, loc.Lon)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("weather").Inc()
		wx = domain.Weather{Description: "Clear sky", Temperature: 20}
	}

	uv, err := t.uv.CurrentUV(ctx, loc.Lat, loc.Lon)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("uvindex").Inc()
		return fmt.Errorf("fetch uv: %w", err)
	}

	t.mu.Lock()
	t.env = environment{Location: loc, Weather: wx, UV: uv}
	t.refreshed = t.now()
	t.mu.Unlock()

	metrics.UVIndex.Set(uv.Index)
	if uv.Estimated {
		metrics.UVEstimated.Set(1)
	} else {
		metrics.UVEstimated.Set(0)
	}

	t.Controller.ObserveUV(uv.Index)
	return nil
}

// LastRefresh reports when the environment was last fetched.
func (t *Tracker) LastRefresh() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refreshed
}

// Environment returns the cached world state and when it was fetched.
func (t *Tracker) Environment() (domain.Location, domain.Weather, domain.UVReading, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.env.Location, t.env.Weather, t.env.UV, t.refreshed
}

// Start begins a session with the cached environment, refreshing it
// first when the cache is empty.
func (t *Tracker) Start(ctx context.Context) (domain.ExposureSession, error) {
	t.mu.Lock()
	stale := t.refreshed.IsZero()
	t.mu.Unlock()
	if stale {
		if err := t.RefreshEnvironment(ctx); err != nil {
			log.Printf("[tracker] environment refresh failed, starting anyway: %v", err)
		}
	}

	t.mu.Lock()
	env := session.Environment{
		Profile:  t.profile,
		Location: t.env.Location,
		Weather:  t.env.Weather,
		UVIndex:  t.env.UV.Index,
	}
	t.mu.Unlock()

	sess, err := t.Controller.Start(env)
	if err != nil {
		return domain.ExposureSession{}, err
	}
	metrics.SessionActive.Set(1)
	log.Printf("[tracker] session %s started at %s (UV %.1f)", sess.ID, sess.Location, env.UVIndex)
	return sess, nil
}

// Pause suspends dose accrual.
func (t *Tracker) Pause() error { return t.Controller.Pause() }

// Resume continues a paused session.
func (t *Tracker) Resume() error { return t.Controller.Resume() }

// Tick advances the in-flight session by elapsed wall time.
func (t *Tracker) Tick(elapsed time.Duration) {
	t.Controller.Tick(elapsed)
}

// Stop finalizes the session and runs the post-session pipeline:
// metrics, daily-goal notification, achievement unlocks.
func (t *Tracker) Stop() (domain.ExposureSession, error) {
	sess, err := t.Controller.Stop()
	if err != nil {
		return domain.ExposureSession{}, err
	}

	metrics.SessionActive.Set(0)
	metrics.SessionsCompleted.Inc()
	metrics.SessionDuration.Observe(float64(sess.ActiveSeconds))
	metrics.VitaminDCollected.Add(sess.EstimatedIU)
	log.Printf("[tracker] session %s finalized: %ds active, %.0f IU",
		sess.ID, sess.ActiveSeconds, sess.EstimatedIU)

	t.afterSession(sess)
	return sess, nil
}

// afterSession emits goal and achievement notifications. Failures are
// logged, never propagated: the session is already safely persisted.
func (t *Tracker) afterSession(sess domain.ExposureSession) {
	goal := float64(t.profile.DailyGoalIU)
	today := t.Progress.Today(goal)

	if today.GoalAchieved {
		fire, err := t.Gate.ShouldNotifyGoal(today.Date)
		if err != nil {
			log.Printf("[tracker] goal gate: %v", err)
		} else if fire {
			metrics.DailyGoalReached.Inc()
			t.emit(domain.Notification{
				Type:  domain.NotifyGoalReached,
				Title: "Daily goal reached",
				Body:  fmt.Sprintf("You collected %.0f IU of vitamin D today. Goal: %.0f IU.", today.TotalIU, goal),
			})
		}
	}

	if profile, err := t.Engine.Profile(goal); err != nil {
		log.Printf("[tracker] level check: %v", err)
	} else if fire, err := t.Gate.ShouldNotifyLevel(profile.Level); err != nil {
		log.Printf("[tracker] level gate: %v", err)
	} else if fire {
		t.emit(domain.Notification{
			Type:  domain.NotifyLevelUp,
			Title: fmt.Sprintf("Level %d reached", profile.Level),
			Body:  fmt.Sprintf("You are now level %d with %d XP.", profile.Level, profile.XP),
		})
	}

	newly, err := t.Engine.CheckAndUnlock(goal)
	if err != nil {
		log.Printf("[tracker] achievement check: %v", err)
		return
	}
	if len(newly) == 0 {
		return
	}

	ids := make([]string, len(newly))
	byID := make(map[string]domain.AchievementDef, len(newly))
	for i, def := range newly {
		ids[i] = def.ID
		byID[def.ID] = def
	}

	// Second gate filters unlocks that were already announced, e.g.
	// rows imported from a restored database.
	fresh, err := t.Gate.NewlyUnlocked(ids)
	if err != nil {
		log.Printf("[tracker] achievement gate: %v", err)
		fresh = ids
	}

	for _, id := range fresh {
		def := byID[id]
		metrics.AchievementsUnlocked.Inc()
		t.emit(domain.Notification{
			Type:  domain.NotifyAchievement,
			Title: fmt.Sprintf("Achievement unlocked: %s", def.Name),
			Body:  def.Description,
		})
	}
}

func (t *Tracker) emit(n domain.Notification) {
	n.CreatedAt = t.now()
	metrics.NotificationsSent.WithLabelValues(string(n.Type)).Inc()
	log.Printf("[tracker] notification: %s — %s", n.Title, n.Body)
	if t.notifier != nil {
		t.notifier.Notify(n.Title, n.Body)
	}
	if t.notifLog == nil {
		return
	}
	if _, err := t.notifLog.InsertNotification(n); err != nil {
		log.Printf("[tracker] persist notification: %v", err)
	}
}

// Status combines the live session snapshot with today's progress.
type Status struct {
	Session  session.Status       `json:"session"`
	Today    domain.DailyProgress `json:"today"`
	Location domain.Location      `json:"location"`
	Weather  domain.Weather       `json:"weather"`
	UV       domain.UVReading     `json:"uv"`
}

// Status returns the combined tracker state for display.
func (t *Tracker) Status() Status {
	loc, wx, uv, _ := t.Environment()
	return Status{
		Session:  t.Controller.Snapshot(),
		Today:    t.Progress.Today(float64(t.profile.DailyGoalIU)),
		Location: loc,
		Weather:  wx,
		UV:       uv,
	}
}

// Forecast proxies the UV forecast for the cached location.
func (t *Tracker) Forecast(ctx context.Context) ([]domain.UVReading, error) {
	loc, _, _, _ := t.Environment()
	return t.uv.Forecast(ctx, loc.Lat, loc.Lon)
}
