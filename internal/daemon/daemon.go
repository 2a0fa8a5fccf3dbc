package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solarin-app/solarin/internal/api"
	"github.com/solarin-app/solarin/internal/app/engagement"
	"github.com/solarin-app/solarin/internal/app/history"
	"github.com/solarin-app/solarin/internal/app/progress"
	"github.com/solarin-app/solarin/internal/app/session"
	"github.com/solarin-app/solarin/internal/app/tracker"
	"github.com/solarin-app/solarin/internal/health"
	"github.com/solarin-app/solarin/internal/infra/geocode"
	"github.com/solarin-app/solarin/internal/infra/sqlite"
	"github.com/solarin-app/solarin/internal/infra/uvindex"
	"github.com/solarin-app/solarin/internal/infra/weather"
)

// Daemon is the core Solarin runtime. It wires together all services.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Tracker *tracker.Tracker
	Health  *health.Checker
	Server  *api.Server

	tickInterval    time.Duration
	refreshInterval time.Duration
	cancel          context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	// Open SQLite
	db, err := sqlite.Open(solarinHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	tz := time.Local
	if cfg.Tracking.Timezone != "" {
		loaded, err := time.LoadLocation(cfg.Tracking.Timezone)
		if err != nil {
			log.Printf("[daemon] unknown timezone %q, using system local", cfg.Tracking.Timezone)
		} else {
			tz = loaded
		}
	}

	// History (bounded, DB-backed)
	limit := cfg.Tracking.HistoryLimit
	if limit <= 0 {
		limit = history.DefaultCapacity
	}
	hist, err := history.NewStore(db, limit)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load history: %w", err)
	}

	// Core services
	ctrl := session.NewController(hist)
	agg := progress.NewAggregator(hist, tz)
	engine := engagement.NewEngine(hist, agg, db, db, tz)
	gate := engagement.NewGate(db)

	// Providers
	var geocodeOpts []geocode.Option
	if cfg.Location.Lat != 0 || cfg.Location.Lon != 0 {
		geocodeOpts = append(geocodeOpts, geocode.WithFixedCoordinates(cfg.Location.Lat, cfg.Location.Lon))
	}

	trk := tracker.New(tracker.Config{
		Controller: ctrl,
		History:    hist,
		Progress:   agg,
		Engine:     engine,
		Gate:       gate,
		UV:         uvindex.NewClient(),
		Weather:    weather.NewClient(),
		Location:   geocode.NewClient(geocodeOpts...),
		NotifLog:   db,
		Profile:    cfg.UserProfile(),
		TZ:         tz,
	})

	// Health checker
	checker := health.NewChecker(db, solarinHome(), trk)

	// API server
	srv := api.NewServer(trk, checker)
	srv.SetNotificationStore(db)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:          cfg,
		DB:              db,
		Tracker:         trk,
		Health:          checker,
		Server:          srv,
		tickInterval:    parseDuration(cfg.Tracking.TickInterval, time.Second),
		refreshInterval: parseDuration(cfg.Tracking.RefreshInterval, 10*time.Minute),
	}, nil
}

// Serve starts the HTTP server and tracking loops, blocking until
// shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Background loops
	go d.Health.Run(ctx)
	go d.tickLoop(ctx)
	go d.refreshLoop(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Finalize any in-flight session so accrued dose is not lost.
		if d.Tracker.Controller.InSession() {
			if _, err := d.Tracker.Stop(); err != nil {
				log.Printf("[daemon] finalize on shutdown: %v", err)
			}
		}

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Solarin serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// tickLoop advances the in-flight session roughly once per second.
// Elapsed wall time is measured, not assumed, so sleep/wake gaps are
// credited correctly.
func (d *Daemon) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			d.Tracker.Tick(now.Sub(last))
			last = now
		}
	}
}

// refreshLoop re-fetches location, weather, and UV periodically.
func (d *Daemon) refreshLoop(ctx context.Context) {
	if err := d.Tracker.RefreshEnvironment(ctx); err != nil {
		log.Printf("[daemon] initial environment refresh: %v", err)
	}

	ticker := time.NewTicker(d.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Tracker.RefreshEnvironment(ctx); err != nil {
				log.Printf("[daemon] environment refresh: %v", err)
			}
		}
	}
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return dur
}
