package sync

import (
	"sync"
	"time"

	"volunteerhub/internal/domain/calendar"
)

// Snapshot holds the most recent successfully synced external events. Reads
// never block on a sync in progress: the calendar keeps rendering the last
// good data while a refresh runs or fails.
type Snapshot struct {
	mu       sync.RWMutex
	events   []calendar.RawSyncedEvent
	syncedAt time.Time
	lastErr  error
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Replace installs a new set of events as the current snapshot.
// POST: Events() returns the new set; LastError() is cleared
func (s *Snapshot) Replace(events []calendar.RawSyncedEvent, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.syncedAt = at
	s.lastErr = nil
}

// RecordFailure notes a failed sync without touching the held events.
// POST: Events() is unchanged; LastError() returns err
func (s *Snapshot) RecordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// Events returns a copy of the current snapshot.
// INVARIANT: callers cannot mutate the snapshot through the returned slice
func (s *Snapshot) Events() []calendar.RawSyncedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]calendar.RawSyncedEvent, len(s.events))
	copy(out, s.events)
	return out
}

// SyncedAt returns when the snapshot was last replaced.
func (s *Snapshot) SyncedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncedAt
}

// LastError returns the error from the most recent sync attempt, or nil
// when the last attempt succeeded.
func (s *Snapshot) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
