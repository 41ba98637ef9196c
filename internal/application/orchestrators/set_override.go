package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"volunteerhub/internal/domain/calendar"
)

// OverrideStoreForWrite defines the store interface needed by override writes.
type OverrideStoreForWrite interface {
	Save(ctx context.Context, o calendar.Override) error
	Delete(ctx context.Context, eventID string) error
}

// SetOverrideInput carries input for the override orchestrator. An empty
// ColorToken clears any existing override for the event.
type SetOverrideInput struct {
	EventID    string
	ColorToken string
	Label      string
}

// SetOverrideDeps holds dependencies for SetOverride.
type SetOverrideDeps struct {
	OverrideStore OverrideStoreForWrite
}

var (
	ErrEmptyEventID = errors.New("event ID cannot be empty")
	ErrLabelTooLong = errors.New("label cannot exceed 60 characters")
)

// ExecuteSetOverride persists or clears a display identity override.
// PRE: EventID is non-empty
// POST: future identity resolution for the event reflects the change
func ExecuteSetOverride(ctx context.Context, input SetOverrideInput, deps SetOverrideDeps) error {
	if strings.TrimSpace(input.EventID) == "" {
		return ErrEmptyEventID
	}
	if len(input.Label) > 60 {
		return ErrLabelTooLong
	}

	if strings.TrimSpace(input.ColorToken) == "" {
		if err := deps.OverrideStore.Delete(ctx, input.EventID); err != nil {
			return err
		}
		slog.Info("override_cleared", "event_id", input.EventID)
		return nil
	}

	o := calendar.Override{
		EventID:    input.EventID,
		ColorToken: strings.TrimSpace(input.ColorToken),
		Label:      strings.TrimSpace(input.Label),
	}
	if err := deps.OverrideStore.Save(ctx, o); err != nil {
		return err
	}
	slog.Info("override_saved", "event_id", o.EventID, "color", o.ColorToken)
	return nil
}
