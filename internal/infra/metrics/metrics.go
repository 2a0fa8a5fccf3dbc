// Package metrics provides Prometheus metrics for Solarin — counters
// and gauges for sessions, vitamin D intake, UV readings, providers,
// and engagement.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Sessions ───────────────────────────────────────────────────────────────

// SessionsCompleted tracks finalized exposure sessions.
var SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "solarin",
	Name:      "sessions_completed_total",
	Help:      "Total finalized exposure sessions.",
})

// SessionActive reports whether a session is currently running (0/1).
var SessionActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "solarin",
	Name:      "session_active",
	Help:      "Whether an exposure session is currently active.",
})

// SessionDuration tracks finalized session length in seconds.
var SessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "solarin",
	Name:      "session_duration_seconds",
	Help:      "Active duration of finalized sessions.",
	Buckets:   []float64{60, 300, 600, 1200, 1800, 3600, 7200},
})

// ─── Vitamin D ──────────────────────────────────────────────────────────────

// VitaminDCollected tracks total estimated IU across finalized sessions.
var VitaminDCollected = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "solarin",
	Name:      "vitamin_d_iu_total",
	Help:      "Total estimated vitamin D collected, in IU.",
})

// DailyGoalReached counts days on which the daily IU goal was met.
var DailyGoalReached = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "solarin",
	Name:      "daily_goal_reached_total",
	Help:      "Number of times the daily vitamin D goal was reached.",
})

// ─── UV & Providers ─────────────────────────────────────────────────────────

// UVIndex reports the most recently observed UV index.
var UVIndex = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "solarin",
	Name:      "uv_index_current",
	Help:      "Most recently observed UV index.",
})

// UVEstimated reports whether the current UV reading is synthetic (0/1).
var UVEstimated = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "solarin",
	Name:      "uv_index_estimated",
	Help:      "Whether the current UV reading came from the fallback model.",
})

// ProviderFailures counts upstream API failures by provider.
var ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "solarin",
	Name:      "provider_failures_total",
	Help:      "Total upstream provider request failures.",
}, []string{"provider"})

// ─── Engagement ─────────────────────────────────────────────────────────────

// AchievementsUnlocked counts achievement unlocks.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "solarin",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
})

// NotificationsSent counts emitted notifications by type.
var NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "solarin",
	Name:      "notifications_sent_total",
	Help:      "Total notifications emitted.",
}, []string{"type"})
