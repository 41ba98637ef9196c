package activity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"volunteerhub/internal/adapters/storage"
	domain "volunteerhub/internal/domain/activity"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ActivityStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const activityColumns = "id, title, description, location, start_time, end_time, volunteers_needed, created_at, archived"

// GetByID retrieves an Activity by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Activity, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+activityColumns+" FROM activity WHERE id = ?", id)
	entity, err := scanActivity(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Activity{}, fmt.Errorf("activity not found: %w", err)
	}
	return entity, err
}

// Save persists an Activity to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Activity) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (id, title, description, location, start_time, end_time, volunteers_needed, created_at, archived)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		 title=excluded.title, description=excluded.description, location=excluded.location,
		 start_time=excluded.start_time, end_time=excluded.end_time,
		 volunteers_needed=excluded.volunteers_needed, archived=excluded.archived`,
		entity.ID,
		entity.Title,
		entity.Description,
		entity.Location,
		entity.StartTime,
		entity.EndTime,
		entity.VolunteersNeeded,
		entity.CreatedAt.Format(time.RFC3339Nano),
		boolToInt(entity.Archived),
	)
	return err
}

// Delete removes an Activity from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM activity WHERE id = ?", id)
	return err
}

// List retrieves all non-archived Activities ordered by start time.
// PRE: none
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Activity, error) {
	return s.queryActivities(ctx,
		"SELECT "+activityColumns+" FROM activity WHERE archived = 0 ORDER BY start_time")
}

// ListStartingBetween retrieves non-archived Activities starting in [from, to).
// Lexicographic comparison is correct because start_time is stored as a
// fixed-width ISO string.
// PRE: from and to are ISO timestamps with from <= to
// POST: Returns matching entities ordered by start time
func (s *SQLiteStore) ListStartingBetween(ctx context.Context, from, to string) ([]domain.Activity, error) {
	return s.queryActivities(ctx,
		"SELECT "+activityColumns+" FROM activity WHERE archived = 0 AND start_time >= ? AND start_time < ? ORDER BY start_time",
		from, to)
}

func (s *SQLiteStore) queryActivities(ctx context.Context, query string, args ...interface{}) ([]domain.Activity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Activity
	for rows.Next() {
		entity, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// scanActivity extracts an Activity from a row scanner function.
func scanActivity(scan func(dest ...interface{}) error) (domain.Activity, error) {
	var entity domain.Activity
	var createdAt string
	var archived int
	err := scan(
		&entity.ID,
		&entity.Title,
		&entity.Description,
		&entity.Location,
		&entity.StartTime,
		&entity.EndTime,
		&entity.VolunteersNeeded,
		&createdAt,
		&archived,
	)
	if err != nil {
		return domain.Activity{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	entity.Archived = archived != 0
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
