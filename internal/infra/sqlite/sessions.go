package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/solarin-app/solarin/internal/domain"
)

// ─── Session Repository ─────────────────────────────────────────────────────

// InsertSession stores a finalized session and evicts the oldest rows
// so at most keep sessions remain. Insert and eviction run in a single
// transaction: a crash never leaves the table over capacity with the
// new row missing. keep <= 0 disables eviction.
func (d *DB) InsertSession(sess domain.ExposureSession, keep int) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, started_at, ended_at, active_seconds, uv_index,
			location, lat, lon, temperature, cloud_cover, sky,
			skin_type, clothing, estimated_iu)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.StartedAt.Unix(), sess.EndedAt.Unix(), sess.ActiveSeconds,
		sess.UVIndex, sess.Location, sess.Lat, sess.Lon,
		sess.Weather.Temperature, sess.Weather.CloudCover, sess.Weather.Description,
		int(sess.SkinType), sess.Clothing.String(), sess.EstimatedIU,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	if keep > 0 {
		// rowid breaks ties between sessions started within the same
		// second, so eviction follows insertion order.
		_, err = tx.Exec(
			`DELETE FROM sessions WHERE id NOT IN (
				SELECT id FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?
			)`, keep,
		)
		if err != nil {
			return fmt.Errorf("evict sessions: %w", err)
		}
	}

	return tx.Commit()
}

// ListSessions returns sessions most-recent-first. limit <= 0 returns all.
func (d *DB) ListSessions(limit int) ([]domain.ExposureSession, error) {
	q := `SELECT id, started_at, ended_at, active_seconds, uv_index,
			location, lat, lon, temperature, cloud_cover, sky,
			skin_type, clothing, estimated_iu
		 FROM sessions ORDER BY started_at DESC, rowid DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = d.db.Query(q+` LIMIT ?`, limit)
	} else {
		rows, err = d.db.Query(q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.ExposureSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// SessionCount returns the number of stored sessions.
func (d *DB) SessionCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	return count, err
}

func scanSession(s scanner) (domain.ExposureSession, error) {
	var sess domain.ExposureSession
	var startedAt, endedAt int64
	var skinType int
	var clothing string

	err := s.Scan(&sess.ID, &startedAt, &endedAt, &sess.ActiveSeconds,
		&sess.UVIndex, &sess.Location, &sess.Lat, &sess.Lon,
		&sess.Weather.Temperature, &sess.Weather.CloudCover, &sess.Weather.Description,
		&skinType, &clothing, &sess.EstimatedIU)
	if err != nil {
		return domain.ExposureSession{}, err
	}

	sess.StartedAt = time.Unix(startedAt, 0)
	sess.EndedAt = time.Unix(endedAt, 0)
	sess.SkinType = domain.SkinType(skinType)
	if cov, err := domain.ParseClothingCoverage(clothing); err == nil {
		sess.Clothing = cov
	}
	return sess, nil
}
