package sqlite

import (
	"database/sql"
	"time"

	"github.com/solarin-app/solarin/internal/domain"
)

// ─── Tracker Key-Value ──────────────────────────────────────────────────────

// Set stores a tracker key-value pair.
func (d *DB) Set(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO tracker (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// Get retrieves a tracker value by key. Returns "" if key not found.
func (d *DB) Get(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM tracker WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// ─── Achievements ───────────────────────────────────────────────────────────

// UnlockAchievement records an achievement as unlocked.
// Returns false if already unlocked (idempotent).
func (d *DB) UnlockAchievement(id string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO achievements (id, unlocked_at, notified) VALUES (?, ?, 0)`,
		id, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// IsAchievementUnlocked checks whether an achievement has been unlocked.
func (d *DB) IsAchievementUnlocked(id string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUnlockedAchievements returns all unlocked achievements.
func (d *DB) ListUnlockedAchievements() ([]domain.UnlockedAchievement, error) {
	rows, err := d.db.Query(
		`SELECT id, unlocked_at, notified FROM achievements ORDER BY unlocked_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []domain.UnlockedAchievement
	for rows.Next() {
		var a domain.UnlockedAchievement
		var unlockedAt int64
		if err := rows.Scan(&a.ID, &unlockedAt, &a.Notified); err != nil {
			return nil, err
		}
		a.UnlockedAt = time.Unix(unlockedAt, 0)
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// MarkAchievementNotified marks an achievement notification as shown.
func (d *DB) MarkAchievementNotified(id string) error {
	_, err := d.db.Exec(`UPDATE achievements SET notified = 1 WHERE id = ?`, id)
	return err
}

// UnlockedAchievementCount returns the total number of unlocked achievements.
func (d *DB) UnlockedAchievementCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements`).Scan(&count)
	return count, err
}

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification creates a new notification.
func (d *DB) InsertNotification(n domain.Notification) (int64, error) {
	result, err := d.db.Exec(
		`INSERT INTO notifications (type, title, body, created_at, shown)
		 VALUES (?, ?, ?, ?, ?)`,
		string(n.Type), n.Title, n.Body, n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListPendingNotifications returns unshown notifications.
func (d *DB) ListPendingNotifications(limit int) ([]domain.Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, type, title, body, created_at, shown
		 FROM notifications WHERE shown = 0 ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &createdAt, &n.Shown); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(createdAt, 0)
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown marks a notification as shown.
func (d *DB) MarkNotificationShown(id int64) error {
	_, err := d.db.Exec(`UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	return err
}
