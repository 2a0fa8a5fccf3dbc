package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/solarin-app/solarin/internal/app/history"
	"github.com/solarin-app/solarin/internal/domain"
)

// memStore backs a history.Store without a database.
type memStore struct {
	sessions []domain.ExposureSession
}

func (m *memStore) InsertSession(s domain.ExposureSession, keep int) error {
	m.sessions = append([]domain.ExposureSession{s}, m.sessions...)
	if keep > 0 && len(m.sessions) > keep {
		m.sessions = m.sessions[:keep]
	}
	return nil
}

func (m *memStore) ListSessions(limit int) ([]domain.ExposureSession, error) {
	cp := make([]domain.ExposureSession, len(m.sessions))
	copy(cp, m.sessions)
	return cp, nil
}

// fixedNow is noon on 2026-08-30, UTC.
var fixedNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestAggregator(t *testing.T) (*Aggregator, *history.Store) {
	t.Helper()
	h, err := history.NewStore(&memStore{}, 50)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAggregator(h, time.UTC, WithClock(func() time.Time { return fixedNow }))
	return a, h
}

// addSession records a finalized session of the given IU starting at t.
func addSession(tb testing.TB, h *history.Store, at time.Time, iu float64) {
	tb.Helper()
	err := h.Append(domain.ExposureSession{
		ID:            fmt.Sprintf("s-%d-%0.f", at.Unix(), iu),
		StartedAt:     at,
		EndedAt:       at.Add(15 * time.Minute),
		ActiveSeconds: 900,
		UVIndex:       5,
		EstimatedIU:   iu,
	})
	if err != nil {
		tb.Fatalf("append: %v", err)
	}
}

func TestToday_SumsAndCounts(t *testing.T) {
	a, h := newTestAggregator(t)

	addSession(t, h, fixedNow.Add(-4*time.Hour), 300)
	addSession(t, h, fixedNow.Add(-1*time.Hour), 250)
	addSession(t, h, fixedNow.Add(-30*time.Hour), 999) // yesterday

	today := a.Today(700)
	if today.Date != "2026-08-30" {
		t.Errorf("Date = %q", today.Date)
	}
	if today.TotalIU != 550 {
		t.Errorf("TotalIU = %v, want 550", today.TotalIU)
	}
	if today.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", today.Sessions)
	}
	if today.GoalAchieved {
		t.Error("550 < 700, goal should not be achieved")
	}

	addSession(t, h, fixedNow.Add(-10*time.Minute), 200)
	if !a.Today(700).GoalAchieved {
		t.Error("750 >= 700, goal should be achieved")
	}
}

func TestIsGoalAchieved_ExactBoundary(t *testing.T) {
	a, h := newTestAggregator(t)
	addSession(t, h, fixedNow.Add(-time.Hour), 700)

	if !a.IsGoalAchieved("2026-08-30", 700) {
		t.Error("total exactly at goal counts as achieved")
	}
}

func TestWeeklyStats(t *testing.T) {
	a, h := newTestAggregator(t)

	// Today 400, yesterday 800, five days ago 100.
	addSession(t, h, fixedNow.Add(-2*time.Hour), 400)
	addSession(t, h, fixedNow.AddDate(0, 0, -1), 800)
	addSession(t, h, fixedNow.AddDate(0, 0, -5), 100)
	// Eight days ago: outside the window.
	addSession(t, h, fixedNow.AddDate(0, 0, -8), 5000)

	w := a.WeeklyStats(7, 700)
	if w.TotalIU != 1300 {
		t.Errorf("TotalIU = %v, want 1300", w.TotalIU)
	}
	if w.ActiveDays != 3 {
		t.Errorf("ActiveDays = %d, want 3", w.ActiveDays)
	}
	if w.GoalAchievedDays != 1 {
		t.Errorf("GoalAchievedDays = %d, want 1 (only yesterday)", w.GoalAchievedDays)
	}
	if want := 1300.0 / 7; w.AveragePerDay != want {
		t.Errorf("AveragePerDay = %v, want %v", w.AveragePerDay, want)
	}
}

func TestMonthly(t *testing.T) {
	a, h := newTestAggregator(t)

	addSession(t, h, fixedNow.Add(-time.Hour), 400)
	addSession(t, h, fixedNow.AddDate(0, 0, -10), 600)
	// Previous month: excluded.
	addSession(t, h, fixedNow.AddDate(0, -1, 0), 999)

	m := a.Monthly()
	if m.Month != "2026-08" {
		t.Errorf("Month = %q", m.Month)
	}
	if m.SessionsDone != 2 {
		t.Errorf("SessionsDone = %d, want 2", m.SessionsDone)
	}
	if m.IUCollected != 1000 {
		t.Errorf("IUCollected = %v, want 1000", m.IUCollected)
	}
	if m.SessionsTarget != domain.MonthlySessionTarget || m.IUTarget != domain.MonthlyIUTarget {
		t.Errorf("targets = %d/%v", m.SessionsTarget, m.IUTarget)
	}
}

func TestCurrentStreak_ConsecutiveDays(t *testing.T) {
	a, h := newTestAggregator(t)

	// Sessions today, yesterday, and the day before: streak of 3.
	addSession(t, h, fixedNow.Add(-time.Hour), 100)
	addSession(t, h, fixedNow.AddDate(0, 0, -1), 100)
	addSession(t, h, fixedNow.AddDate(0, 0, -2), 100)
	// A gap, then an old session.
	addSession(t, h, fixedNow.AddDate(0, 0, -5), 100)

	if got := a.CurrentStreak(); got != 3 {
		t.Errorf("CurrentStreak() = %d, want 3", got)
	}
}

func TestCurrentStreak_TodayStillOpen(t *testing.T) {
	a, h := newTestAggregator(t)

	// No session today, but yesterday and the day before: the streak
	// holds at 2 because today is not over.
	addSession(t, h, fixedNow.AddDate(0, 0, -1), 100)
	addSession(t, h, fixedNow.AddDate(0, 0, -2), 100)

	if got := a.CurrentStreak(); got != 2 {
		t.Errorf("CurrentStreak() = %d, want 2", got)
	}
}

func TestCurrentStreak_Broken(t *testing.T) {
	a, h := newTestAggregator(t)

	// Last session two days ago: streak is dead.
	addSession(t, h, fixedNow.AddDate(0, 0, -2), 100)
	addSession(t, h, fixedNow.AddDate(0, 0, -3), 100)

	if got := a.CurrentStreak(); got != 0 {
		t.Errorf("CurrentStreak() = %d, want 0", got)
	}
}

func TestCurrentStreak_Empty(t *testing.T) {
	a, _ := newTestAggregator(t)
	if got := a.CurrentStreak(); got != 0 {
		t.Errorf("CurrentStreak() = %d, want 0", got)
	}
}

func TestBestStreak_FindsHistoricRun(t *testing.T) {
	a, h := newTestAggregator(t)

	// A four-day run two weeks back, and a current two-day run.
	for i := 14; i >= 11; i-- {
		addSession(t, h, fixedNow.AddDate(0, 0, -i), 100)
	}
	addSession(t, h, fixedNow.AddDate(0, 0, -1), 100)
	addSession(t, h, fixedNow.Add(-time.Hour), 100)

	if got := a.BestStreak(); got != 4 {
		t.Errorf("BestStreak() = %d, want 4", got)
	}
	if got := a.CurrentStreak(); got != 2 {
		t.Errorf("CurrentStreak() = %d, want 2", got)
	}
}

func TestDailyTotal_MultipleSameDay(t *testing.T) {
	a, h := newTestAggregator(t)
	day := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	addSession(t, h, day, 150)
	addSession(t, h, day.Add(3*time.Hour), 250)

	if got := a.DailyTotal("2026-08-20"); got != 400 {
		t.Errorf("DailyTotal = %v, want 400", got)
	}
}
