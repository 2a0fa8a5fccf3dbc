// Package domain holds the core types of the Solarin tracker.
// Everything here is pure data and pure computation — no I/O, no clocks
// beyond what callers pass in. Infrastructure depends on domain, never
// the other way around.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// ─── Profile Types ──────────────────────────────────────────────────────────

// SkinType is the Fitzpatrick phototype, I (very light) through VI (very dark).
type SkinType int

const (
	SkinVeryLight SkinType = iota + 1
	SkinLight
	SkinMedium
	SkinTan
	SkinDark
	SkinVeryDark
)

// skinMultipliers scales dose accrual per phototype. Lighter skin
// synthesizes vitamin D faster per unit UV.
var skinMultipliers = [...]float64{1.0, 0.9, 0.7, 0.5, 0.3, 0.1}

// Multiplier returns the dose accrual multiplier in (0, 1].
// Out-of-range values clamp to the nearest phototype.
func (s SkinType) Multiplier() float64 {
	if s < SkinVeryLight {
		s = SkinVeryLight
	}
	if s > SkinVeryDark {
		s = SkinVeryDark
	}
	return skinMultipliers[s-1]
}

func (s SkinType) String() string {
	switch s {
	case SkinVeryLight:
		return "very-light"
	case SkinLight:
		return "light"
	case SkinMedium:
		return "medium"
	case SkinTan:
		return "tan"
	case SkinDark:
		return "dark"
	case SkinVeryDark:
		return "very-dark"
	}
	return fmt.Sprintf("skin-type-%d", int(s))
}

// ParseSkinType parses the string form produced by String.
func ParseSkinType(s string) (SkinType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "very-light", "1":
		return SkinVeryLight, nil
	case "light", "2":
		return SkinLight, nil
	case "medium", "3":
		return SkinMedium, nil
	case "tan", "4":
		return SkinTan, nil
	case "dark", "5":
		return SkinDark, nil
	case "very-dark", "6":
		return SkinVeryDark, nil
	}
	return 0, fmt.Errorf("unknown skin type %q", s)
}

// ClothingCoverage describes how much of the body clothing covers.
type ClothingCoverage int

const (
	CoverageMinimal ClothingCoverage = iota // swimwear
	CoveragePartial                         // t-shirt and shorts
	CoverageFull                            // long sleeves and pants
)

// coveredFractions is the body fraction clothing blocks from UV.
var coveredFractions = [...]float64{0.0, 0.4, 0.8}

// CoveredFraction returns the covered body fraction in [0, 1].
func (c ClothingCoverage) CoveredFraction() float64 {
	if c < CoverageMinimal {
		c = CoverageMinimal
	}
	if c > CoverageFull {
		c = CoverageFull
	}
	return coveredFractions[c]
}

// ExposedFraction is the complement of CoveredFraction.
func (c ClothingCoverage) ExposedFraction() float64 {
	return 1.0 - c.CoveredFraction()
}

func (c ClothingCoverage) String() string {
	switch c {
	case CoverageMinimal:
		return "minimal"
	case CoveragePartial:
		return "partial"
	case CoverageFull:
		return "full"
	}
	return fmt.Sprintf("coverage-%d", int(c))
}

// ParseClothingCoverage parses the string form produced by String.
func ParseClothingCoverage(s string) (ClothingCoverage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return CoverageMinimal, nil
	case "partial":
		return CoveragePartial, nil
	case "full":
		return CoverageFull, nil
	}
	return 0, fmt.Errorf("unknown clothing coverage %q", s)
}

// Profile is the user's persisted tracker settings.
type Profile struct {
	SkinType    SkinType         `json:"skin_type"`
	Clothing    ClothingCoverage `json:"clothing"`
	DailyGoalIU float64          `json:"daily_goal_iu"`
}

// DefaultDailyGoalIU is the daily vitamin-D target used until the user
// sets their own.
const DefaultDailyGoalIU = 700

// DefaultProfile returns the settings a fresh install starts with.
func DefaultProfile() Profile {
	return Profile{
		SkinType:    SkinMedium,
		Clothing:    CoveragePartial,
		DailyGoalIU: DefaultDailyGoalIU,
	}
}

// ─── Environment Types ──────────────────────────────────────────────────────

// UVReading is one observation of the UV index.
type UVReading struct {
	Index float64   `json:"index"`
	Time  time.Time `json:"time"`
	// Estimated marks readings produced by the clear-sky fallback
	// model rather than a live API observation.
	Estimated bool `json:"estimated,omitempty"`
}

// Weather is the sky state relevant to an exposure session.
type Weather struct {
	Temperature float64 `json:"temperature"` // °C
	CloudCover  float64 `json:"cloud_cover"` // percent, 0–100
	Description string  `json:"description"`
}

// Location is a point on Earth with an optional human-readable name.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

// ─── Exposure Sessions ──────────────────────────────────────────────────────

// ExposureSession is one sun-exposure tracking session. While the session
// is in flight EndedAt is zero; once finalized the record never changes.
type ExposureSession struct {
	ID            string           `json:"id"`
	StartedAt     time.Time        `json:"started_at"`
	EndedAt       time.Time        `json:"ended_at"`
	ActiveSeconds int              `json:"active_seconds"` // excludes paused intervals
	UVIndex       float64          `json:"uv_index"`       // time-weighted mean over the session
	Location      string           `json:"location"`
	Lat           float64          `json:"lat"`
	Lon           float64          `json:"lon"`
	Weather       Weather          `json:"weather"`
	SkinType      SkinType         `json:"skin_type"` // frozen at session start
	Clothing      ClothingCoverage `json:"clothing"`  // frozen at session start
	EstimatedIU   float64          `json:"estimated_iu"`
}

// Finalized reports whether the session has ended.
func (s ExposureSession) Finalized() bool {
	return !s.EndedAt.IsZero()
}

// Validate checks the invariants a finalized session must satisfy before
// it may enter history.
func (s ExposureSession) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedSession)
	}
	if s.StartedAt.IsZero() {
		return fmt.Errorf("%w: missing start time", ErrMalformedSession)
	}
	if !s.Finalized() {
		return fmt.Errorf("%w: session not finalized", ErrMalformedSession)
	}
	if s.EndedAt.Before(s.StartedAt) {
		return fmt.Errorf("%w: end before start", ErrMalformedSession)
	}
	if s.ActiveSeconds < 0 {
		return fmt.Errorf("%w: negative duration", ErrMalformedSession)
	}
	if s.EstimatedIU < 0 {
		return fmt.Errorf("%w: negative IU", ErrMalformedSession)
	}
	return nil
}

// Day returns the user-local calendar date the session started on.
func (s ExposureSession) Day(loc *time.Location) string {
	return DateKey(s.StartedAt, loc)
}

// DateKey formats a timestamp as its calendar date in the given zone.
// All per-day bookkeeping (progress, streaks, the goal notification
// ratchet) keys on this form.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}
