package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/solarin-app/solarin/internal/daemon"
)

// client is a thin HTTP client for the daemon's local API.
type client struct {
	base string
	http *http.Client
}

// newClient resolves the daemon address from config.
func newClient() (*client, error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &client{
		base: fmt.Sprintf("http://%s:%d", cfg.API.Host, cfg.API.Port),
		http: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// get issues a GET and decodes the JSON response into out.
func (c *client) get(path string, out interface{}) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return fmt.Errorf("is the daemon running? ('solarin serve'): %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

// post issues a POST with no body and decodes the JSON response.
func (c *client) post(path string, out interface{}) error {
	resp, err := c.http.Post(c.base+path, "application/json", nil)
	if err != nil {
		return fmt.Errorf("is the daemon running? ('solarin serve'): %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

// raw issues a GET and returns the response body unchanged.
func (c *client) raw(path string) ([]byte, error) {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return nil, fmt.Errorf("is the daemon running? ('solarin serve'): %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("daemon returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%s", apiErr.Error.Message)
		}
		return fmt.Errorf("daemon returned HTTP %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
