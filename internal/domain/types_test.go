package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSkinType_Multiplier(t *testing.T) {
	cases := []struct {
		skin SkinType
		want float64
	}{
		{SkinVeryLight, 1.0},
		{SkinMedium, 0.7},
		{SkinVeryDark, 0.1},
		{SkinType(0), 1.0},  // clamps low
		{SkinType(99), 0.1}, // clamps high
	}
	for _, c := range cases {
		if got := c.skin.Multiplier(); got != c.want {
			t.Errorf("%v.Multiplier() = %v, want %v", c.skin, got, c.want)
		}
	}
}

func TestParseSkinType(t *testing.T) {
	for _, s := range []SkinType{SkinVeryLight, SkinLight, SkinMedium, SkinTan, SkinDark, SkinVeryDark} {
		got, err := ParseSkinType(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSkinType(%q) = %v, %v", s.String(), got, err)
		}
	}
	if got, err := ParseSkinType(" Medium "); err != nil || got != SkinMedium {
		t.Errorf("ParseSkinType with padding = %v, %v", got, err)
	}
	if got, err := ParseSkinType("3"); err != nil || got != SkinMedium {
		t.Errorf("ParseSkinType numeric = %v, %v", got, err)
	}
	if _, err := ParseSkinType("plaid"); err == nil {
		t.Error("ParseSkinType accepted garbage")
	}
}

func TestClothingCoverage_Fractions(t *testing.T) {
	cases := []struct {
		cov     ClothingCoverage
		exposed float64
	}{
		{CoverageMinimal, 1.0},
		{CoveragePartial, 0.6},
		{CoverageFull, 0.2},
	}
	for _, c := range cases {
		if got := c.cov.ExposedFraction(); got != c.exposed {
			t.Errorf("%v.ExposedFraction() = %v, want %v", c.cov, got, c.exposed)
		}
		if got := c.cov.CoveredFraction() + c.cov.ExposedFraction(); got != 1.0 {
			t.Errorf("%v fractions sum to %v", c.cov, got)
		}
	}
}

func TestParseClothingCoverage(t *testing.T) {
	for _, c := range []ClothingCoverage{CoverageMinimal, CoveragePartial, CoverageFull} {
		got, err := ParseClothingCoverage(c.String())
		if err != nil || got != c {
			t.Errorf("ParseClothingCoverage(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseClothingCoverage("armor"); err == nil {
		t.Error("ParseClothingCoverage accepted garbage")
	}
}

func TestExposureSession_Validate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	valid := ExposureSession{
		ID:            "s1",
		StartedAt:     now,
		EndedAt:       now.Add(10 * time.Minute),
		ActiveSeconds: 600,
		EstimatedIU:   1050,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}

	broken := []ExposureSession{
		func(s ExposureSession) ExposureSession { s.ID = ""; return s }(valid),
		func(s ExposureSession) ExposureSession { s.StartedAt = time.Time{}; return s }(valid),
		func(s ExposureSession) ExposureSession { s.EndedAt = time.Time{}; return s }(valid),
		func(s ExposureSession) ExposureSession { s.EndedAt = s.StartedAt.Add(-time.Second); return s }(valid),
		func(s ExposureSession) ExposureSession { s.ActiveSeconds = -1; return s }(valid),
		func(s ExposureSession) ExposureSession { s.EstimatedIU = -1; return s }(valid),
	}
	for i, s := range broken {
		if err := s.Validate(); !errors.Is(err, ErrMalformedSession) {
			t.Errorf("case %d: err = %v, want ErrMalformedSession", i, err)
		}
	}
}

func TestDateKey(t *testing.T) {
	// 2026-08-30 23:30 UTC is already the 31st in Tokyo.
	at := time.Date(2026, 8, 30, 23, 30, 0, 0, time.UTC)
	if got := DateKey(at, time.UTC); got != "2026-08-30" {
		t.Errorf("UTC = %q", got)
	}
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	if got := DateKey(at, tokyo); got != "2026-08-31" {
		t.Errorf("Tokyo = %q", got)
	}
}
