package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/solarin-app/solarin/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSession(id string, startedAt time.Time, iu float64) domain.ExposureSession {
	return domain.ExposureSession{
		ID:            id,
		StartedAt:     startedAt,
		EndedAt:       startedAt.Add(10 * time.Minute),
		ActiveSeconds: 600,
		UVIndex:       5.0,
		Location:      "Lisbon",
		Lat:           38.7223,
		Lon:           -9.1393,
		Weather:       domain.Weather{Temperature: 24.5, CloudCover: 10, Description: "Clear sky"},
		SkinType:      domain.SkinMedium,
		Clothing:      domain.CoveragePartial,
		EstimatedIU:   iu,
	}
}

// ─── Database Lifecycle ─────────────────────────────────────────────────────

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	// Check file exists
	if _, err := os.Stat(filepath.Join(dir, "state.db")); os.IsNotExist(err) {
		t.Error("state.db should exist")
	}
}

func TestOpen_Ping(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	sess := testSession("s1", time.Now().Add(-time.Hour), 420)
	if err := db.InsertSession(sess, 50); err != nil {
		t.Fatalf("InsertSession() error: %v", err)
	}
	db.Close()

	// Reopen and verify data survived
	db, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer db.Close()

	got, err := db.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListSessions() returned %d sessions, want 1", len(got))
	}
	if got[0].ID != "s1" {
		t.Errorf("ID = %q, want %q", got[0].ID, "s1")
	}
}

// ─── Session Repository ─────────────────────────────────────────────────────

func TestInsertSession_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	start := time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC)
	sess := testSession("abc", start, 1050)
	if err := db.InsertSession(sess, 50); err != nil {
		t.Fatalf("InsertSession() error: %v", err)
	}

	got, err := db.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d sessions, want 1", len(got))
	}

	s := got[0]
	if !s.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", s.StartedAt, start)
	}
	if s.ActiveSeconds != 600 {
		t.Errorf("ActiveSeconds = %d, want 600", s.ActiveSeconds)
	}
	if s.SkinType != domain.SkinMedium {
		t.Errorf("SkinType = %v, want %v", s.SkinType, domain.SkinMedium)
	}
	if s.Clothing != domain.CoveragePartial {
		t.Errorf("Clothing = %v, want %v", s.Clothing, domain.CoveragePartial)
	}
	if s.Weather.Description != "Clear sky" {
		t.Errorf("Weather.Description = %q, want %q", s.Weather.Description, "Clear sky")
	}
	if s.EstimatedIU != 1050 {
		t.Errorf("EstimatedIU = %v, want 1050", s.EstimatedIU)
	}
}

func TestInsertSession_EvictsOldest(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		sess := testSession(fmt.Sprintf("s%d", i), base.Add(time.Duration(i)*time.Hour), 100)
		if err := db.InsertSession(sess, 3); err != nil {
			t.Fatalf("InsertSession(%d) error: %v", i, err)
		}
	}

	got, err := db.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sessions, want 3 (cap)", len(got))
	}
	// Most recent first; the two oldest were evicted.
	if got[0].ID != "s4" || got[1].ID != "s3" || got[2].ID != "s2" {
		t.Errorf("IDs = [%s %s %s], want [s4 s3 s2]", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestInsertSession_EvictsOldestWithinSameSecond(t *testing.T) {
	db := newTestDB(t)

	// All sessions start within the same second; eviction must follow
	// insertion order, not the random UUID order.
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ids := []string{"zzz-first", "aaa-second", "mmm-third"}
	for i, id := range ids {
		if err := db.InsertSession(testSession(id, started, 100), 2); err != nil {
			t.Fatalf("InsertSession(%d) error: %v", i, err)
		}
	}

	got, err := db.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d sessions, want 2 (cap)", len(got))
	}
	if got[0].ID != "mmm-third" || got[1].ID != "aaa-second" {
		t.Errorf("IDs = [%s %s], want [mmm-third aaa-second]", got[0].ID, got[1].ID)
	}
}

func TestListSessions_Limit(t *testing.T) {
	db := newTestDB(t)

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 4; i++ {
		sess := testSession(fmt.Sprintf("s%d", i), base.Add(time.Duration(i)*time.Hour), 50)
		if err := db.InsertSession(sess, 50); err != nil {
			t.Fatalf("InsertSession() error: %v", err)
		}
	}

	got, err := db.ListSessions(2)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d sessions, want 2", len(got))
	}
	if got[0].ID != "s3" {
		t.Errorf("first ID = %q, want s3", got[0].ID)
	}
}

func TestSessionCount(t *testing.T) {
	db := newTestDB(t)

	n, err := db.SessionCount()
	if err != nil {
		t.Fatalf("SessionCount() error: %v", err)
	}
	if n != 0 {
		t.Errorf("empty count = %d, want 0", n)
	}

	if err := db.InsertSession(testSession("s1", time.Now(), 10), 50); err != nil {
		t.Fatalf("InsertSession() error: %v", err)
	}
	n, err = db.SessionCount()
	if err != nil {
		t.Fatalf("SessionCount() error: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

// ─── Tracker Key-Value ──────────────────────────────────────────────────────

func TestTrackerKV_SetGet(t *testing.T) {
	db := newTestDB(t)

	if err := db.Set("streak_longest", "7"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := db.Get("streak_longest")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "7" {
		t.Errorf("Get() = %q, want %q", got, "7")
	}
}

func TestTrackerKV_Upsert(t *testing.T) {
	db := newTestDB(t)

	db.Set("k", "v1")
	db.Set("k", "v2")

	got, _ := db.Get("k")
	if got != "v2" {
		t.Errorf("Get() = %q, want %q", got, "v2")
	}
}

func TestTrackerKV_Missing(t *testing.T) {
	db := newTestDB(t)

	got, err := db.Get("nonexistent")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "" {
		t.Errorf("Get() = %q, want empty string", got)
	}
}

// ─── Achievements ───────────────────────────────────────────────────────────

func TestUnlockAchievement_Idempotent(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	first, err := db.UnlockAchievement("first-session", now)
	if err != nil {
		t.Fatalf("UnlockAchievement() error: %v", err)
	}
	if !first {
		t.Error("first unlock should return true")
	}

	second, err := db.UnlockAchievement("first-session", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("UnlockAchievement() error: %v", err)
	}
	if second {
		t.Error("second unlock should return false")
	}

	count, err := db.UnlockedAchievementCount()
	if err != nil {
		t.Fatalf("UnlockedAchievementCount() error: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestIsAchievementUnlocked(t *testing.T) {
	db := newTestDB(t)

	unlocked, err := db.IsAchievementUnlocked("early-bird")
	if err != nil {
		t.Fatalf("IsAchievementUnlocked() error: %v", err)
	}
	if unlocked {
		t.Error("should not be unlocked yet")
	}

	db.UnlockAchievement("early-bird", time.Now())

	unlocked, err = db.IsAchievementUnlocked("early-bird")
	if err != nil {
		t.Fatalf("IsAchievementUnlocked() error: %v", err)
	}
	if !unlocked {
		t.Error("should be unlocked")
	}
}

func TestListUnlockedAchievements(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	db.UnlockAchievement("first-session", base)
	db.UnlockAchievement("streak-3", base.Add(48*time.Hour))

	list, err := db.ListUnlockedAchievements()
	if err != nil {
		t.Fatalf("ListUnlockedAchievements() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d achievements, want 2", len(list))
	}
	// Most recent first
	if list[0].ID != "streak-3" {
		t.Errorf("first ID = %q, want streak-3", list[0].ID)
	}
	if list[0].Notified {
		t.Error("new unlock should not be marked notified")
	}
}

func TestMarkAchievementNotified(t *testing.T) {
	db := newTestDB(t)

	db.UnlockAchievement("daily-goal", time.Now())
	if err := db.MarkAchievementNotified("daily-goal"); err != nil {
		t.Fatalf("MarkAchievementNotified() error: %v", err)
	}

	list, _ := db.ListUnlockedAchievements()
	if len(list) != 1 || !list[0].Notified {
		t.Error("achievement should be marked notified")
	}
}

// ─── Notifications ──────────────────────────────────────────────────────────

func TestNotifications_InsertAndPending(t *testing.T) {
	db := newTestDB(t)

	id, err := db.InsertNotification(domain.Notification{
		Type:      domain.NotifyGoalReached,
		Title:     "Daily goal reached",
		Body:      "You collected 700 IU today.",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("InsertNotification() error: %v", err)
	}
	if id == 0 {
		t.Error("InsertNotification() returned id 0")
	}

	pending, err := db.ListPendingNotifications(10)
	if err != nil {
		t.Fatalf("ListPendingNotifications() error: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending, want 1", len(pending))
	}

	if err := db.MarkNotificationShown(pending[0].ID); err != nil {
		t.Fatalf("MarkNotificationShown() error: %v", err)
	}

	pending, _ = db.ListPendingNotifications(10)
	if len(pending) != 0 {
		t.Errorf("got %d pending after mark, want 0", len(pending))
	}
}
