package signup

import (
	"errors"
	"strings"
	"time"

	"volunteerhub/internal/domain/calendar"
)

// Signup status constants. A registered volunteer has claimed a slot; an
// enrolled volunteer has been confirmed by staff and sees the activity
// highlighted on their calendar.
const (
	StatusRegistered = "registered"
	StatusEnrolled   = "enrolled"
	StatusCancelled  = "cancelled"
)

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{StatusRegistered, StatusEnrolled, StatusCancelled}

// Domain errors
var (
	ErrEmptyActivityID  = errors.New("activity ID cannot be empty")
	ErrEmptyAccountID   = errors.New("account ID cannot be empty")
	ErrInvalidStatus    = errors.New("status must be one of: registered, enrolled, cancelled")
	ErrAlreadyCancelled = errors.New("signup is already cancelled")
	ErrNotRegistered    = errors.New("only a registered signup can be enrolled")
)

// Signup links a volunteer account to an activity.
type Signup struct {
	ID         string
	ActivityID string
	AccountID  string
	Status     string
	CreatedAt  time.Time
}

// Validate checks if the Signup has valid data.
// PRE: Signup struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Signup) Validate() error {
	if strings.TrimSpace(s.ActivityID) == "" {
		return ErrEmptyActivityID
	}
	if strings.TrimSpace(s.AccountID) == "" {
		return ErrEmptyAccountID
	}
	if !isValidStatus(s.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsActive returns true if the signup counts toward staffing.
// INVARIANT: Signup fields are not mutated
func (s *Signup) IsActive() bool {
	return s.Status == StatusRegistered || s.Status == StatusEnrolled
}

// Ownership maps the signup status to the calendar ownership level used by
// identity resolution.
// INVARIANT: Signup fields are not mutated
func (s *Signup) Ownership() string {
	switch s.Status {
	case StatusEnrolled:
		return calendar.OwnershipEnrolled
	case StatusRegistered:
		return calendar.OwnershipRegistered
	default:
		return calendar.OwnershipNone
	}
}

// Enroll transitions a registered signup to enrolled.
// PRE: Status is registered
// POST: Status is enrolled
func (s *Signup) Enroll() error {
	if s.Status != StatusRegistered {
		return ErrNotRegistered
	}
	s.Status = StatusEnrolled
	return nil
}

// Cancel withdraws the signup.
// PRE: Signup is active
// POST: Status is cancelled
func (s *Signup) Cancel() error {
	if s.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	s.Status = StatusCancelled
	return nil
}

func isValidStatus(status string) bool {
	for _, v := range ValidStatuses {
		if v == status {
			return true
		}
	}
	return false
}
