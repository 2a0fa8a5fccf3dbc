// Package dose converts UV exposure into a vitamin-D accrual rate.
// The model is a deliberately simple engineering approximation: a tiered
// base rate per whole UV index step, scaled by skin phototype and by the
// body fraction clothing leaves exposed. It is pure computation.
package dose

import (
	"math"

	"github.com/solarin-app/solarin/internal/domain"
)

// baseRates is IU per minute of full-body exposure for phototype I,
// indexed by floor(uvIndex) capped at 11.
var baseRates = [...]float64{
	0,   // no UV
	50,  // very low
	100, // low
	150,
	200, // moderate
	250,
	300, // high
	350,
	400, // very high
	450,
	500, // extreme
	550,
}

// Rate returns the instantaneous accrual rate in IU per minute.
// It is zero for uvIndex <= 0, non-decreasing in uvIndex, and never
// panics: out-of-range inputs clamp to the valid domain.
func Rate(uvIndex float64, skin domain.SkinType, clothing domain.ClothingCoverage) float64 {
	if uvIndex <= 0 || math.IsNaN(uvIndex) {
		return 0
	}

	tier := int(math.Floor(uvIndex))
	if tier > len(baseRates)-1 {
		tier = len(baseRates) - 1
	}

	return baseRates[tier] * skin.Multiplier() * clothing.ExposedFraction()
}

// Accrue converts a rate held for a span of seconds into IU.
// Linear by construction: doubling seconds doubles the result.
func Accrue(ratePerMinute float64, seconds float64) float64 {
	if ratePerMinute <= 0 || seconds <= 0 {
		return 0
	}
	return ratePerMinute * seconds / 60.0
}
