package activity

import (
	"context"

	domain "volunteerhub/internal/domain/activity"
)

// Store persists Activity state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Activity, error)
	Save(ctx context.Context, value domain.Activity) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Activity, error)
	// ListStartingBetween returns non-archived activities whose start time
	// falls on or after from and before to, both local wall-clock ISO strings.
	ListStartingBetween(ctx context.Context, from, to string) ([]domain.Activity, error)
}
