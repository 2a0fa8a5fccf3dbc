// Package engagement implements the Solarin gamification engine:
// XP and levels, the achievement catalog, and the notification gate.
// Everything is recomputed from the session history; the only persisted
// gamification state is what cannot be derived — the unlocked set, the
// longest-streak ratchet, and the gate baselines.
package engagement

import "math"

// XPPerSession is the flat XP award for completing a session.
const XPPerSession = 50

// baseThreshold is the XP needed to go from level 1 to level 2. Each
// subsequent threshold is 20% larger, floored.
const baseThreshold = 100

// XPFor computes total XP from the history summary:
// 50 per session plus 1 per 10 IU collected.
func XPFor(sessionCount int, totalIU float64) int64 {
	return int64(sessionCount)*XPPerSession + int64(math.Floor(totalIU/10))
}

// LevelForXP consumes thresholds greedily from level 1 upward and
// returns the resulting level, the XP spent inside it, and the XP
// remaining to the next level. Deterministic for any xp >= 0.
func LevelForXP(xp int64) (level int, intoLevel, toNext int64) {
	if xp < 0 {
		xp = 0
	}

	level = 1
	threshold := int64(baseThreshold)
	for xp >= threshold {
		xp -= threshold
		level++
		threshold = int64(math.Floor(float64(threshold) * 1.2))
	}
	return level, xp, threshold - xp
}

// ThresholdFor returns the XP cost of advancing from the given level to
// the next one.
func ThresholdFor(level int) int64 {
	threshold := int64(baseThreshold)
	for l := 1; l < level; l++ {
		threshold = int64(math.Floor(float64(threshold) * 1.2))
	}
	return threshold
}
