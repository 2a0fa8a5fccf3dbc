// Package session implements the exposure-session state machine.
// One session at most is in flight; ticks from the daemon's timer drive
// accrual while the session is Active. The controller owns no timer and
// performs no I/O except the append to history at stop.
package session

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/solarin-app/solarin/internal/app/dose"
	"github.com/solarin-app/solarin/internal/domain"
)

// State is the controller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateActive
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// MarshalJSON renders the state as its string form.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Appender receives finalized sessions. Implemented by history.Store.
type Appender interface {
	Append(domain.ExposureSession) error
}

// Environment is the world state frozen into a session at start.
type Environment struct {
	Profile  domain.Profile
	Location domain.Location
	Weather  domain.Weather
	UVIndex  float64
}

// Status is a read-only snapshot of the in-flight session for display.
type Status struct {
	State         State   `json:"state"`
	SessionID     string  `json:"session_id,omitempty"`
	ActiveSeconds int     `json:"active_seconds"`
	EstimatedIU   float64 `json:"estimated_iu"`
	RatePerMinute float64 `json:"rate_per_minute"`
	UVIndex       float64 `json:"uv_index"`
}

// Controller is the single-session state machine.
type Controller struct {
	mu      sync.Mutex
	history Appender
	now     func() time.Time

	state   State
	current domain.ExposureSession

	lastUV     float64 // most recently observed UV index
	activeSecs float64 // fractional active time; ActiveSeconds is its rounding
	uvSeconds  float64 // ∑ uv × seconds, for the time-weighted mean
	accruedIU  float64 // fractional, rounded only at finalize
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates an idle controller that appends finished
// sessions to history.
func NewController(history Appender, opts ...Option) *Controller {
	c := &Controller{
		history: history,
		now:     time.Now,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a new session. Valid only from Idle; the profile and
// location are frozen into the session record.
func (c *Controller) Start(env Environment) (domain.ExposureSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return domain.ExposureSession{}, domain.ErrSessionInFlight
	}

	c.current = domain.ExposureSession{
		ID:        uuid.New().String(),
		StartedAt: c.now(),
		Location:  env.Location.Name,
		Lat:       env.Location.Lat,
		Lon:       env.Location.Lon,
		Weather:   env.Weather,
		SkinType:  env.Profile.SkinType,
		Clothing:  env.Profile.Clothing,
	}
	c.lastUV = env.UVIndex
	c.activeSecs = 0
	c.uvSeconds = 0
	c.accruedIU = 0
	c.state = StateActive

	return c.current, nil
}

// Pause freezes accrual. Valid only from Active.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateActive {
		return domain.ErrInvalidSessionState
	}
	c.state = StatePaused
	return nil
}

// Resume continues a paused session without resetting accrual.
// Valid only from Paused.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePaused {
		return domain.ErrInvalidSessionState
	}
	c.state = StateActive
	return nil
}

// Stop finalizes the session and appends it to history. Valid from
// Active or Paused. If the append fails the controller keeps its state
// so nothing is lost: the caller may retry Stop.
func (c *Controller) Stop() (domain.ExposureSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		return domain.ExposureSession{}, domain.ErrNoActiveSession
	}

	final := c.current
	final.EndedAt = c.now()
	final.EstimatedIU = math.Round(c.accruedIU)
	if final.ActiveSeconds > 0 {
		final.UVIndex = roundUV(c.uvSeconds / float64(final.ActiveSeconds))
	} else {
		final.UVIndex = roundUV(c.lastUV)
	}

	if err := c.history.Append(final); err != nil {
		return domain.ExposureSession{}, err
	}

	c.state = StateIdle
	c.current = domain.ExposureSession{}
	c.activeSecs = 0
	c.uvSeconds = 0
	c.accruedIU = 0

	return final, nil
}

// Tick advances the session by elapsed wall time, accruing duration and
// dose with the most recently observed UV. Ticks outside Active are
// ignored, which is what makes pause effective by the next tick boundary.
func (c *Controller) Tick(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateActive || elapsed <= 0 {
		return
	}

	secs := elapsed.Seconds()
	c.activeSecs += secs
	c.current.ActiveSeconds = int(c.activeSecs + 0.5)
	c.uvSeconds += c.lastUV * secs

	rate := dose.Rate(c.lastUV, c.current.SkinType, c.current.Clothing)
	c.accruedIU += dose.Accrue(rate, secs)
}

// ObserveUV records a fresh UV reading. The refresh loop calls this;
// subsequent ticks accrue at the new rate. Safe in any state.
func (c *Controller) ObserveUV(uv float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if uv < 0 {
		uv = 0
	}
	c.lastUV = uv
}

// InSession reports whether a session is Active or Paused.
func (c *Controller) InSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != StateIdle
}

// Snapshot returns the current display state.
func (c *Controller) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		State:   c.state,
		UVIndex: roundUV(c.lastUV),
	}
	if c.state != StateIdle {
		st.SessionID = c.current.ID
		st.ActiveSeconds = c.current.ActiveSeconds
		st.EstimatedIU = math.Round(c.accruedIU*100) / 100
		st.RatePerMinute = dose.Rate(c.lastUV, c.current.SkinType, c.current.Clothing)
	}
	return st
}

// roundUV keeps UV values at one decimal place, matching provider output.
func roundUV(uv float64) float64 {
	return math.Round(uv*10) / 10
}
