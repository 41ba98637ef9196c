package signup

import (
	"errors"
	"testing"

	"volunteerhub/internal/domain/calendar"
)

func validSignup() Signup {
	return Signup{ID: "su-1", ActivityID: "act-1", AccountID: "acc-1", Status: StatusRegistered}
}

func TestSignup_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Signup)
		wantErr error
	}{
		{"valid", func(s *Signup) {}, nil},
		{"empty activity", func(s *Signup) { s.ActivityID = " " }, ErrEmptyActivityID},
		{"empty account", func(s *Signup) { s.AccountID = "" }, ErrEmptyAccountID},
		{"bad status", func(s *Signup) { s.Status = "waitlisted" }, ErrInvalidStatus},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSignup()
			tc.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSignup_Ownership(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{StatusRegistered, calendar.OwnershipRegistered},
		{StatusEnrolled, calendar.OwnershipEnrolled},
		{StatusCancelled, calendar.OwnershipNone},
	}
	for _, tc := range tests {
		s := validSignup()
		s.Status = tc.status
		if got := s.Ownership(); got != tc.want {
			t.Errorf("%s ownership = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestSignup_Transitions(t *testing.T) {
	s := validSignup()
	if err := s.Enroll(); err != nil {
		t.Fatalf("Enroll() = %v", err)
	}
	if s.Status != StatusEnrolled {
		t.Errorf("status = %q", s.Status)
	}
	if err := s.Enroll(); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("double enroll = %v, want ErrNotRegistered", err)
	}
	if err := s.Cancel(); err != nil {
		t.Fatalf("Cancel() = %v", err)
	}
	if s.IsActive() {
		t.Error("cancelled signup must not be active")
	}
	if err := s.Cancel(); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("double cancel = %v, want ErrAlreadyCancelled", err)
	}
}
