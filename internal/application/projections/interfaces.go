package projections

import (
	"context"
	"time"

	storageAccount "volunteerhub/internal/adapters/storage/account"
	domainAccount "volunteerhub/internal/domain/account"
	domainActivity "volunteerhub/internal/domain/activity"
	"volunteerhub/internal/domain/calendar"
	domainSignup "volunteerhub/internal/domain/signup"
)

// ActivityStore interface for activity queries.
type ActivityStore interface {
	GetByID(ctx context.Context, id string) (domainActivity.Activity, error)
	List(ctx context.Context) ([]domainActivity.Activity, error)
	ListStartingBetween(ctx context.Context, from, to string) ([]domainActivity.Activity, error)
}

// SignupStore interface for signup queries.
type SignupStore interface {
	ListByActivity(ctx context.Context, activityID string) ([]domainSignup.Signup, error)
	ListByAccount(ctx context.Context, accountID string) ([]domainSignup.Signup, error)
	CountActiveByActivity(ctx context.Context, activityIDs []string) (map[string]int, error)
}

// OverrideStore interface for display identity override queries.
type OverrideStore interface {
	GetAll(ctx context.Context) (map[string]calendar.Override, error)
}

// AccountStore interface for account queries.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (domainAccount.Account, error)
	List(ctx context.Context, filter storageAccount.ListFilter) ([]domainAccount.Account, error)
}

// ExternalFeed is the read side of the calendar sync snapshot.
type ExternalFeed interface {
	Events() []calendar.RawSyncedEvent
	SyncedAt() time.Time
	LastError() error
}
