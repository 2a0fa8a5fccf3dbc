// Package history is the append-only log of finalized exposure sessions.
// It is the single source of truth for every derived view: daily
// progress, streaks, XP, achievements. The log is capacity-bounded;
// once full, appending evicts the oldest record.
package history

import (
	"fmt"
	"sync"

	"github.com/solarin-app/solarin/internal/domain"
)

// DefaultCapacity is how many sessions the log retains.
const DefaultCapacity = 50

// Store holds the session log in memory, mirrored to persistent storage.
// Reads never observe a partially appended record: the in-memory slice
// is swapped only after the store write succeeds.
type Store struct {
	mu       sync.RWMutex
	db       domain.SessionStore
	capacity int
	sessions []domain.ExposureSession // most-recent-first
}

// NewStore loads the persisted log. capacity <= 0 selects DefaultCapacity.
func NewStore(db domain.SessionStore, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	sessions, err := db.ListSessions(capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: load session log: %v", domain.ErrPersistenceFailure, err)
	}

	return &Store{
		db:       db,
		capacity: capacity,
		sessions: sessions,
	}, nil
}

// Append validates and persists a finalized session, evicting the oldest
// record if the log is at capacity. Malformed records are rejected here,
// which keeps every downstream aggregation free of defensive checks.
func (s *Store) Append(sess domain.ExposureSession) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.InsertSession(sess, s.capacity); err != nil {
		return fmt.Errorf("%w: append session: %v", domain.ErrPersistenceFailure, err)
	}

	updated := make([]domain.ExposureSession, 0, len(s.sessions)+1)
	updated = append(updated, sess)
	updated = append(updated, s.sessions...)
	if len(updated) > s.capacity {
		updated = updated[:s.capacity]
	}
	s.sessions = updated

	return nil
}

// All returns the retained sessions, most-recent-first. The slice is a
// copy; callers may not mutate history through it.
func (s *Store) All() []domain.ExposureSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ExposureSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Len returns the number of retained sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Capacity returns the retention bound.
func (s *Store) Capacity() int {
	return s.capacity
}
