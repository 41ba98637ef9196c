package override

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"volunteerhub/internal/adapters/storage"
	"volunteerhub/internal/domain/calendar"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new OverrideStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the override for an event.
// PRE: eventID is non-empty
// POST: Returns the override or an error if not found
func (s *SQLiteStore) Get(ctx context.Context, eventID string) (calendar.Override, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT event_id, color_token, label FROM identity_override WHERE event_id = ?", eventID)
	var o calendar.Override
	err := row.Scan(&o.EventID, &o.ColorToken, &o.Label)
	if err == sql.ErrNoRows {
		return calendar.Override{}, fmt.Errorf("override not found: %w", err)
	}
	return o, err
}

// Save persists an override, replacing any previous one for the event.
// PRE: value.EventID is non-empty
// POST: Override is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, value calendar.Override) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO identity_override (event_id, color_token, label, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(event_id) DO UPDATE SET
		 color_token=excluded.color_token, label=excluded.label, updated_at=excluded.updated_at`,
		value.EventID,
		value.ColorToken,
		value.Label,
		time.Now().Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes the override for an event.
// PRE: eventID is non-empty
// POST: Override with given event id is removed
func (s *SQLiteStore) Delete(ctx context.Context, eventID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM identity_override WHERE event_id = ?", eventID)
	return err
}

// GetAll retrieves every override keyed by event ID.
// PRE: none
// POST: Returns all persisted overrides
func (s *SQLiteStore) GetAll(ctx context.Context) (map[string]calendar.Override, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT event_id, color_token, label FROM identity_override")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[string]calendar.Override)
	for rows.Next() {
		var o calendar.Override
		if err := rows.Scan(&o.EventID, &o.ColorToken, &o.Label); err != nil {
			return nil, err
		}
		overrides[o.EventID] = o
	}
	return overrides, nil
}
