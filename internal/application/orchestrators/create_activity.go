package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"volunteerhub/internal/domain/activity"
)

// ActivityStoreForWrite defines the store interface needed by activity writes.
type ActivityStoreForWrite interface {
	GetByID(ctx context.Context, id string) (activity.Activity, error)
	Save(ctx context.Context, a activity.Activity) error
}

// CreateActivityInput carries input for creating or updating an activity.
// An empty ID creates; a non-empty ID updates the existing activity.
type CreateActivityInput struct {
	ID               string
	Title            string
	Description      string
	Location         string
	StartTime        string
	EndTime          string
	VolunteersNeeded int
}

// CreateActivityResult carries the persisted activity's ID.
type CreateActivityResult struct {
	ID      string
	Created bool
}

// CreateActivityDeps holds dependencies for CreateActivity.
type CreateActivityDeps struct {
	ActivityStore ActivityStoreForWrite
}

// ExecuteCreateActivity validates and persists an activity.
// PRE: input fields are caller-provided and untrusted
// POST: on success the activity exists in the store and passes validation
func ExecuteCreateActivity(ctx context.Context, input CreateActivityInput, deps CreateActivityDeps) (CreateActivityResult, error) {
	a := activity.Activity{
		ID:               input.ID,
		Title:            input.Title,
		Description:      input.Description,
		Location:         input.Location,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		VolunteersNeeded: input.VolunteersNeeded,
		CreatedAt:        time.Now(),
	}

	created := a.ID == ""
	if created {
		a.ID = uuid.NewString()
	} else {
		existing, err := deps.ActivityStore.GetByID(ctx, a.ID)
		if err != nil {
			return CreateActivityResult{}, err
		}
		a.CreatedAt = existing.CreatedAt
		a.Archived = existing.Archived
	}

	if err := a.Validate(); err != nil {
		return CreateActivityResult{}, err
	}

	if err := deps.ActivityStore.Save(ctx, a); err != nil {
		return CreateActivityResult{}, err
	}

	slog.Info("activity_saved", "activity_id", a.ID, "title", a.Title, "created", created)
	return CreateActivityResult{ID: a.ID, Created: created}, nil
}

// ExecuteArchiveActivity soft-deletes an activity so it disappears from the
// calendar without losing signup history.
// PRE: id refers to an existing activity
// POST: the activity is marked archived
func ExecuteArchiveActivity(ctx context.Context, id string, deps CreateActivityDeps) error {
	a, err := deps.ActivityStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.Archived = true
	if err := deps.ActivityStore.Save(ctx, a); err != nil {
		return err
	}
	slog.Info("activity_archived", "activity_id", id)
	return nil
}
