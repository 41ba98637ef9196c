package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"volunteerhub/internal/adapters/email"
	"volunteerhub/internal/domain/account"
	"volunteerhub/internal/domain/activity"
	"volunteerhub/internal/domain/signup"
)

// SignupStoreForWrite defines the store interface needed by signup writes.
type SignupStoreForWrite interface {
	GetByID(ctx context.Context, id string) (signup.Signup, error)
	GetByActivityAndAccount(ctx context.Context, activityID, accountID string) (signup.Signup, error)
	Save(ctx context.Context, s signup.Signup) error
	CountActiveByActivity(ctx context.Context, activityIDs []string) (map[string]int, error)
}

// AccountStoreForSignup defines the account lookup needed for confirmation email.
type AccountStoreForSignup interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// SignupVolunteerInput carries input for the signup orchestrator.
type SignupVolunteerInput struct {
	ActivityID string
	AccountID  string
}

// SignupVolunteerResult carries the resulting signup.
type SignupVolunteerResult struct {
	SignupID string
	Status   string
}

// SignupVolunteerDeps holds dependencies for SignupVolunteer.
type SignupVolunteerDeps struct {
	ActivityStore ActivityStoreForWrite
	SignupStore   SignupStoreForWrite
	AccountStore  AccountStoreForSignup
	Sender        email.Sender // nil disables confirmation email
}

var (
	ErrActivityFull     = errors.New("activity has no open volunteer slots")
	ErrActivityArchived = errors.New("activity is no longer available")
	ErrAlreadySignedUp  = errors.New("already signed up for this activity")
)

// ExecuteSignupVolunteer registers a volunteer for an activity and sends a
// confirmation email. A previously cancelled signup is reactivated instead of
// duplicated.
// PRE: ActivityID and AccountID are non-empty
// POST: an active signup links the account to the activity
func ExecuteSignupVolunteer(ctx context.Context, input SignupVolunteerInput, deps SignupVolunteerDeps) (SignupVolunteerResult, error) {
	act, err := deps.ActivityStore.GetByID(ctx, input.ActivityID)
	if err != nil {
		return SignupVolunteerResult{}, err
	}
	if act.Archived {
		return SignupVolunteerResult{}, ErrActivityArchived
	}

	counts, err := deps.SignupStore.CountActiveByActivity(ctx, []string{act.ID})
	if err != nil {
		return SignupVolunteerResult{}, err
	}
	if act.IsFull(counts[act.ID]) {
		slog.Info("signup_rejected", "activity_id", act.ID, "account_id", input.AccountID, "reason", "full")
		return SignupVolunteerResult{}, ErrActivityFull
	}

	su, err := deps.SignupStore.GetByActivityAndAccount(ctx, input.ActivityID, input.AccountID)
	switch {
	case err == nil && su.IsActive():
		return SignupVolunteerResult{}, ErrAlreadySignedUp
	case err == nil:
		// Cancelled before; reactivate the existing row.
		su.Status = signup.StatusRegistered
	default:
		su = signup.Signup{
			ID:         uuid.NewString(),
			ActivityID: input.ActivityID,
			AccountID:  input.AccountID,
			Status:     signup.StatusRegistered,
			CreatedAt:  time.Now(),
		}
	}

	if err := su.Validate(); err != nil {
		return SignupVolunteerResult{}, err
	}
	if err := deps.SignupStore.Save(ctx, su); err != nil {
		return SignupVolunteerResult{}, err
	}

	slog.Info("signup_created", "signup_id", su.ID, "activity_id", act.ID, "account_id", input.AccountID)
	sendSignupEmail(ctx, deps, input.AccountID, act, "Signup received",
		"You're registered for <strong>%s</strong> starting %s. We'll confirm your spot soon.")

	return SignupVolunteerResult{SignupID: su.ID, Status: su.Status}, nil
}

// ExecuteEnrollSignup confirms a registered signup. Staff action.
// PRE: signupID refers to a registered signup
// POST: the signup is enrolled and the volunteer is notified
func ExecuteEnrollSignup(ctx context.Context, signupID string, deps SignupVolunteerDeps) error {
	su, err := deps.SignupStore.GetByID(ctx, signupID)
	if err != nil {
		return err
	}
	if err := su.Enroll(); err != nil {
		return err
	}
	if err := deps.SignupStore.Save(ctx, su); err != nil {
		return err
	}
	slog.Info("signup_enrolled", "signup_id", su.ID, "activity_id", su.ActivityID)

	if act, err := deps.ActivityStore.GetByID(ctx, su.ActivityID); err == nil {
		sendSignupEmail(ctx, deps, su.AccountID, act, "You're confirmed",
			"Your spot for <strong>%s</strong> starting %s is confirmed. See you there!")
	}
	return nil
}

// ExecuteCancelSignup withdraws a signup.
// PRE: signupID refers to an active signup
// POST: the signup no longer counts toward staffing
func ExecuteCancelSignup(ctx context.Context, signupID string, deps SignupVolunteerDeps) error {
	su, err := deps.SignupStore.GetByID(ctx, signupID)
	if err != nil {
		return err
	}
	if err := su.Cancel(); err != nil {
		return err
	}
	if err := deps.SignupStore.Save(ctx, su); err != nil {
		return err
	}
	slog.Info("signup_cancelled", "signup_id", su.ID, "activity_id", su.ActivityID)
	return nil
}

// sendSignupEmail delivers a notification on a best-effort basis. Email
// failure never fails the signup itself.
func sendSignupEmail(ctx context.Context, deps SignupVolunteerDeps, accountID string, act activity.Activity, subject, bodyFormat string) {
	if deps.Sender == nil || deps.AccountStore == nil {
		return
	}
	acct, err := deps.AccountStore.GetByID(ctx, accountID)
	if err != nil || acct.Email == "" {
		return
	}
	_, err = deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{acct.Email},
		Subject: subject,
		HTML:    fmt.Sprintf("<p>"+bodyFormat+"</p>", act.Title, act.StartTime),
	})
	if err != nil {
		slog.Error("signup_email_failed", "account_id", accountID, "activity_id", act.ID, "error", err)
	}
}
