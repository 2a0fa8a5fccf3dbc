// Package weather fetches current conditions from the Open-Meteo API.
package weather

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
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"
	requestTimeout = 8 * time.Second
)

// Client implements domain.WeatherProvider against Open-Meteo.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// NewClient creates a weather client.
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
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		CloudCover  float64 `json:"cloud_cover"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// CurrentWeather returns conditions at the given coordinates. On API
// failure it returns a neutral "Clear sky" record so a running session
// is never blocked on the weather lookup.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (domain.Weather, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current=temperature_2m,cloud_cover,weather_code",
		c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fallbackWeather(), nil
	}
	req.Header.Set("User-Agent", "Solarin/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[weather] API unavailable: %v", err)
		return fallbackWeather(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[weather] API returned HTTP %d", resp.StatusCode)
		return fallbackWeather(), nil
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[weather] decode failed: %v", err)
		return fallbackWeather(), nil
	}

	return domain.Weather{
		Temperature: parsed.Current.Temperature,
		CloudCover:  parsed.Current.CloudCover,
		Description: describeCode(parsed.Current.WeatherCode),
	}, nil
}

func fallbackWeather() domain.Weather {
	return domain.Weather{Temperature: 20, CloudCover: 0, Description: "Clear sky"}
}

// describeCode maps WMO weather codes to short descriptions.
func describeCode(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code <= 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code <= 48:
		return "Fog"
	case code <= 57:
		return "Drizzle"
	case code <= 67:
		return "Rain"
	case code <= 77:
		return "Snow"
	case code <= 82:
		return "Rain showers"
	case code <= 86:
		return "Snow showers"
	default:
		return "Thunderstorm"
	}
}
