package override

import (
	"context"

	"volunteerhub/internal/domain/calendar"
)

// Store persists per-event display identity overrides.
type Store interface {
	Get(ctx context.Context, eventID string) (calendar.Override, error)
	Save(ctx context.Context, value calendar.Override) error
	Delete(ctx context.Context, eventID string) error
	// GetAll returns every override keyed by event ID, the shape identity
	// resolution consumes.
	GetAll(ctx context.Context) (map[string]calendar.Override, error)
}
