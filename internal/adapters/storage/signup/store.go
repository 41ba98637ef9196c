package signup

import (
	"context"

	domain "volunteerhub/internal/domain/signup"
)

// Store persists Signup state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Signup, error)
	GetByActivityAndAccount(ctx context.Context, activityID, accountID string) (domain.Signup, error)
	Save(ctx context.Context, value domain.Signup) error
	Delete(ctx context.Context, id string) error
	ListByActivity(ctx context.Context, activityID string) ([]domain.Signup, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Signup, error)
	// CountActiveByActivity returns active (registered or enrolled) signup
	// counts keyed by activity ID for the given activities.
	CountActiveByActivity(ctx context.Context, activityIDs []string) (map[string]int, error)
}
