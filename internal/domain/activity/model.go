package activity

import (
	"errors"
	"strings"
	"time"

	"volunteerhub/internal/domain/calendar"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 120
	MaxLocationLength    = 200
	MaxDescriptionLength = 5000
)

// Domain errors
var (
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrTitleTooLong       = errors.New("title cannot exceed 120 characters")
	ErrLocationTooLong    = errors.New("location cannot exceed 200 characters")
	ErrDescriptionTooLong = errors.New("description cannot exceed 5000 characters")
	ErrEmptyStartTime     = errors.New("start time cannot be empty")
	ErrInvalidStartTime   = errors.New("start time must be an ISO timestamp")
	ErrInvalidEndTime     = errors.New("end time must be an ISO timestamp")
	ErrEndBeforeStart     = errors.New("end time cannot be before start time")
	ErrNegativeVolunteers = errors.New("volunteers needed cannot be negative")
)

// Activity represents an internally managed volunteer activity. Times are
// stored as local wall-clock ISO strings exactly as entered; parsing into
// calendar coordinates happens at view time via normalization.
type Activity struct {
	ID               string
	Title            string
	Description      string // markdown, rendered at the HTTP layer
	Location         string
	StartTime        string // "2026-01-15T09:00:00"
	EndTime          string // optional; empty means no scheduled end
	VolunteersNeeded int
	CreatedAt        time.Time
	Archived         bool
}

// Validate checks if the Activity has valid data.
// PRE: Activity struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if len(a.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(a.Location) > MaxLocationLength {
		return ErrLocationTooLong
	}
	if len(a.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(a.StartTime) == "" {
		return ErrEmptyStartTime
	}
	start, err := parseISO(a.StartTime)
	if err != nil {
		return ErrInvalidStartTime
	}
	if a.EndTime != "" {
		end, err := parseISO(a.EndTime)
		if err != nil {
			return ErrInvalidEndTime
		}
		if end.Before(start) {
			return ErrEndBeforeStart
		}
	}
	if a.VolunteersNeeded < 0 {
		return ErrNegativeVolunteers
	}
	return nil
}

// ToRaw converts the stored activity plus its current signup count into the
// raw shape consumed by calendar normalization.
// INVARIANT: Activity fields are not mutated
func (a *Activity) ToRaw(registered int) calendar.RawActivity {
	return calendar.RawActivity{
		ID:                   a.ID,
		Title:                a.Title,
		Description:          a.Description,
		Location:             a.Location,
		StartTime:            a.StartTime,
		EndTime:              a.EndTime,
		VolunteersNeeded:     a.VolunteersNeeded,
		VolunteersRegistered: registered,
	}
}

// IsFull returns true when the signup count meets or exceeds the need.
// An activity that needs zero volunteers is never full: it accepts walk-ins.
// INVARIANT: Activity fields are not mutated
func (a *Activity) IsFull(registered int) bool {
	return a.VolunteersNeeded > 0 && registered >= a.VolunteersNeeded
}

// IsMultiDay returns true when the activity ends on a later calendar day
// than it starts. Multi-day activities still appear only on their start day.
// INVARIANT: Activity fields are not mutated
func (a *Activity) IsMultiDay() bool {
	if a.EndTime == "" {
		return false
	}
	start, err := parseISO(a.StartTime)
	if err != nil {
		return false
	}
	end, err := parseISO(a.EndTime)
	if err != nil {
		return false
	}
	return end.Format(calendar.DateKeyFormat) != start.Format(calendar.DateKeyFormat)
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp layout")
}
