package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCurrentWeather_ParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("current"); got != "temperature_2m,cloud_cover,weather_code" {
			t.Errorf("current = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current": {"temperature_2m": 28.3, "cloud_cover": 40, "weather_code": 2}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	wx, err := c.CurrentWeather(context.Background(), -23.55, -46.63)
	if err != nil {
		t.Fatal(err)
	}
	if wx.Temperature != 28.3 {
		t.Errorf("Temperature = %v, want 28.3", wx.Temperature)
	}
	if wx.CloudCover != 40 {
		t.Errorf("CloudCover = %v, want 40", wx.CloudCover)
	}
	if wx.Description != "Partly cloudy" {
		t.Errorf("Description = %q, want Partly cloudy", wx.Description)
	}
}

func TestCurrentWeather_FallsBackOnFailure(t *testing.T) {
	c := NewClient(WithBaseURL("http://127.0.0.1:0"))

	wx, err := c.CurrentWeather(context.Background(), -23.55, -46.63)
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if wx.Description != "Clear sky" || wx.Temperature != 20 {
		t.Errorf("fallback = %+v", wx)
	}
}

func TestCurrentWeather_FallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	wx, err := c.CurrentWeather(context.Background(), -23.55, -46.63)
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if wx.Description != "Clear sky" {
		t.Errorf("Description = %q, want Clear sky", wx.Description)
	}
}

func TestDescribeCode(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{0, "Clear sky"},
		{1, "Partly cloudy"},
		{3, "Overcast"},
		{45, "Fog"},
		{51, "Drizzle"},
		{63, "Rain"},
		{73, "Snow"},
		{80, "Rain showers"},
		{85, "Snow showers"},
		{95, "Thunderstorm"},
	}
	for _, c := range cases {
		if got := describeCode(c.code); got != c.want {
			t.Errorf("describeCode(%d) = %q, want %q", c.code, got, c.want)
		}
	}
}
