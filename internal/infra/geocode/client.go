// Package geocode resolves coordinates to place names via the
// BigDataCloud reverse-geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/solarin-app/solarin/internal/domain"
)

const (
	defaultBaseURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"
	requestTimeout = 8 * time.Second
)

// DefaultLocation is used when no coordinates are configured and no
// position fix is available.
var DefaultLocation = domain.Location{Lat: -23.5505, Lon: -46.6333, Name: "São Paulo"}

// Client implements domain.LocationProvider: it names a fixed
// configured coordinate pair via reverse geocoding, falling back to
// DefaultLocation when nothing is configured.
type Client struct {
	baseURL string
	http    *http.Client
	fixed   *domain.Location
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithFixedCoordinates pins the provider to the given position; only
// the place name is looked up remotely.
func WithFixedCoordinates(lat, lon float64) Option {
	return func(c *Client) { c.fixed = &domain.Location{Lat: lat, Lon: lon} }
}

// NewClient creates a geocoding client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	City      string `json:"city"`
	Locality  string `json:"locality"`
	Principal string `json:"principalSubdivision"`
}

// CurrentLocation returns the configured position with a resolved
// place name. Geocoding failures degrade to coordinates-as-name; a
// missing configuration degrades to DefaultLocation.
func (c *Client) CurrentLocation(ctx context.Context) (domain.Location, error) {
	if c.fixed == nil {
		return DefaultLocation, nil
	}

	loc := *c.fixed
	loc.Name = c.reverseGeocode(ctx, loc.Lat, loc.Lon)
	return loc, nil
}

func (c *Client) reverseGeocode(ctx context.Context, lat, lon float64) string {
	coords := fmt.Sprintf("%.4f, %.4f", lat, lon)

	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&localityLanguage=en", c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return coords
	}
	req.Header.Set("User-Agent", "Solarin/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[geocode] API unavailable: %v", err)
		return coords
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return coords
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return coords
	}

	switch {
	case parsed.City != "":
		return parsed.City
	case parsed.Locality != "":
		return parsed.Locality
	case parsed.Principal != "":
		return parsed.Principal
	default:
		return coords
	}
}
