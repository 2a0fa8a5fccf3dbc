// Package uvindex fetches the current UV index and hourly forecast from
// currentuvindex.com, degrading to a clear-sky estimate when the API is
// unreachable so dose tracking keeps working offline.
package uvindex

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/solarin-app/solarin/internal/domain"
)

const (
	defaultBaseURL = "https://currentuvindex.com/api/v1/uvi"
	requestTimeout = 8 * time.Second
)

// Client implements domain.UVProvider against the currentuvindex.com API.
// Responses are cached so a transient outage returns the last known
// reading before falling back to the synthetic clear-sky model.
type Client struct {
	baseURL string
	http    *http.Client
	now     func() time.Time

	mu       sync.Mutex
	lastUV   domain.UVReading
	hasCache bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a UV index client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse mirrors the currentuvindex.com payload.
type apiResponse struct {
	OK  bool `json:"ok"`
	Now struct {
		Time string  `json:"time"`
		UVI  float64 `json:"uvi"`
	} `json:"now"`
	Forecast []struct {
		Time string  `json:"time"`
		UVI  float64 `json:"uvi"`
	} `json:"forecast"`
}

// CurrentUV returns the UV index at the given coordinates. On API
// failure it returns the last cached reading, then a synthetic
// clear-sky estimate; it never returns an error together with a
// reading the caller cannot use.
func (c *Client) CurrentUV(ctx context.Context, lat, lon float64) (domain.UVReading, error) {
	resp, err := c.fetch(ctx, lat, lon)
	if err != nil {
		return c.degrade(err), nil
	}

	reading := domain.UVReading{
		Index:     resp.Now.UVI,
		Time:      c.now(),
		Estimated: false,
	}

	c.mu.Lock()
	c.lastUV = reading
	c.hasCache = true
	c.mu.Unlock()

	return reading, nil
}

// Forecast returns the hourly UV forecast for the given coordinates.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]domain.UVReading, error) {
	resp, err := c.fetch(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("uv forecast: %w", domain.ErrDataUnavailable)
	}

	readings := make([]domain.UVReading, 0, len(resp.Forecast))
	for _, f := range resp.Forecast {
		at, err := time.Parse(time.RFC3339, f.Time)
		if err != nil {
			continue
		}
		readings = append(readings, domain.UVReading{Index: f.UVI, Time: at})
	}
	return readings, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (*apiResponse, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f", c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Solarin/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("uv request: HTTP %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode uv response: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("uv api returned ok=false")
	}
	return &parsed, nil
}

// degrade returns the last cached reading if one exists, otherwise a
// synthetic clear-sky estimate for the current local hour.
func (c *Client) degrade(cause error) domain.UVReading {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasCache {
		log.Printf("[uvindex] API unavailable, using cached reading: %v", cause)
		cached := c.lastUV
		cached.Estimated = true
		return cached
	}

	log.Printf("[uvindex] API unavailable, using clear-sky estimate: %v", cause)
	return domain.UVReading{
		Index:     SyntheticUV(c.now()),
		Time:      c.now(),
		Estimated: true,
	}
}

// SyntheticUV models a clear-sky UV curve peaking at solar noon:
// 8·(1−((h−12)/6)²) for local hours 6 through 18, zero at night.
func SyntheticUV(t time.Time) float64 {
	h := float64(t.Hour()) + float64(t.Minute())/60
	if h < 6 || h > 18 {
		return 0
	}
	uv := 8 * (1 - math.Pow((h-12)/6, 2))
	if uv < 0 {
		return 0
	}
	return uv
}
