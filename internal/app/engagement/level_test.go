package engagement

import "testing"

func TestXPFor(t *testing.T) {
	cases := []struct {
		sessions int
		totalIU  float64
		want     int64
	}{
		{0, 0, 0},
		{1, 0, 50},
		{1, 9.9, 50},    // IU contributes only in whole tens
		{1, 10, 51},
		{3, 1050, 255},  // 150 + 105
		{10, 7000, 1200},
	}
	for _, c := range cases {
		if got := XPFor(c.sessions, c.totalIU); got != c.want {
			t.Errorf("XPFor(%d, %v) = %d, want %d", c.sessions, c.totalIU, got, c.want)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp     int64
		level  int
		into   int64
		toNext int64
	}{
		{0, 1, 0, 100},
		{99, 1, 99, 1},
		{100, 2, 0, 120},   // exactly at the threshold rolls over
		{219, 2, 119, 1},
		{220, 3, 0, 144},
		{255, 3, 35, 109},
		{364, 4, 0, 172},   // floor(144 * 1.2)
		{-5, 1, 0, 100},    // negative clamps to zero
	}
	for _, c := range cases {
		level, into, toNext := LevelForXP(c.xp)
		if level != c.level || into != c.into || toNext != c.toNext {
			t.Errorf("LevelForXP(%d) = (%d, %d, %d), want (%d, %d, %d)",
				c.xp, level, into, toNext, c.level, c.into, c.toNext)
		}
	}
}

func TestLevelForXP_NeverZeroToNext(t *testing.T) {
	for xp := int64(0); xp < 2000; xp++ {
		_, _, toNext := LevelForXP(xp)
		if toNext <= 0 {
			t.Fatalf("LevelForXP(%d): toNext = %d", xp, toNext)
		}
	}
}

func TestThresholdFor(t *testing.T) {
	want := []int64{100, 120, 144, 172, 206}
	for i, w := range want {
		if got := ThresholdFor(i + 1); got != w {
			t.Errorf("ThresholdFor(%d) = %d, want %d", i+1, got, w)
		}
	}
}
