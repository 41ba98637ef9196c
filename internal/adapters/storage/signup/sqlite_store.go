package signup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"volunteerhub/internal/adapters/storage"
	domain "volunteerhub/internal/domain/signup"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SignupStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const signupColumns = "id, activity_id, account_id, status, created_at"

// GetByID retrieves a Signup by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Signup, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+signupColumns+" FROM signup WHERE id = ?", id)
	entity, err := scanSignup(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Signup{}, fmt.Errorf("signup not found: %w", err)
	}
	return entity, err
}

// GetByActivityAndAccount retrieves the signup linking an account to an activity.
// PRE: activityID and accountID are non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByActivityAndAccount(ctx context.Context, activityID, accountID string) (domain.Signup, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+signupColumns+" FROM signup WHERE activity_id = ? AND account_id = ?",
		activityID, accountID)
	entity, err := scanSignup(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Signup{}, fmt.Errorf("signup not found: %w", err)
	}
	return entity, err
}

// Save persists a Signup to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Signup) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO signup (id, activity_id, account_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status=excluded.status`,
		entity.ID,
		entity.ActivityID,
		entity.AccountID,
		entity.Status,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes a Signup from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM signup WHERE id = ?", id)
	return err
}

// ListByActivity retrieves Signups for a specific activity.
// PRE: activityID is non-empty
// POST: Returns signups for the given activity
func (s *SQLiteStore) ListByActivity(ctx context.Context, activityID string) ([]domain.Signup, error) {
	return s.querySignups(ctx,
		"SELECT "+signupColumns+" FROM signup WHERE activity_id = ? ORDER BY created_at", activityID)
}

// ListByAccount retrieves Signups for a specific account.
// PRE: accountID is non-empty
// POST: Returns signups for the given account
func (s *SQLiteStore) ListByAccount(ctx context.Context, accountID string) ([]domain.Signup, error) {
	return s.querySignups(ctx,
		"SELECT "+signupColumns+" FROM signup WHERE account_id = ? ORDER BY created_at", accountID)
}

// CountActiveByActivity returns active signup counts keyed by activity ID.
// Activities with no active signups are absent from the result.
// PRE: none
// POST: Counts include registered and enrolled signups only
func (s *SQLiteStore) CountActiveByActivity(ctx context.Context, activityIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(activityIDs) == 0 {
		return counts, nil
	}

	placeholders := strings.Repeat("?,", len(activityIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(activityIDs))
	for i, id := range activityIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT activity_id, COUNT(*) FROM signup WHERE status IN ('registered', 'enrolled') AND activity_id IN ("+placeholders+") GROUP BY activity_id",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, nil
}

func (s *SQLiteStore) querySignups(ctx context.Context, query string, args ...interface{}) ([]domain.Signup, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Signup
	for rows.Next() {
		entity, err := scanSignup(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// scanSignup extracts a Signup from a row scanner function.
func scanSignup(scan func(dest ...interface{}) error) (domain.Signup, error) {
	var entity domain.Signup
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.ActivityID,
		&entity.AccountID,
		&entity.Status,
		&createdAt,
	)
	if err != nil {
		return domain.Signup{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entity, nil
}
