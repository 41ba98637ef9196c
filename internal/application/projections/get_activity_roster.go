package projections

import (
	"context"

	"volunteerhub/internal/domain/signup"
)

// GetActivityRosterQuery carries query parameters for an activity's roster.
type GetActivityRosterQuery struct {
	ActivityID string
}

// RosterEntry is one volunteer on an activity's roster.
type RosterEntry struct {
	SignupID string
	Name     string
	Email    string
	Status   string
}

// GetActivityRosterResult carries the roster with staffing totals.
type GetActivityRosterResult struct {
	ActivityID string
	Title      string
	Needed     int
	Active     int
	Entries    []RosterEntry
}

// GetActivityRosterDeps holds dependencies for GetActivityRoster.
type GetActivityRosterDeps struct {
	ActivityStore ActivityStore
	SignupStore   SignupStore
	AccountStore  AccountStore
}

// QueryGetActivityRoster lists everyone signed up for one activity, with
// cancelled signups excluded and staffing totals attached.
// PRE: query.ActivityID refers to an existing activity
// POST: Active equals the number of returned entries
func QueryGetActivityRoster(ctx context.Context, query GetActivityRosterQuery, deps GetActivityRosterDeps) (GetActivityRosterResult, error) {
	act, err := deps.ActivityStore.GetByID(ctx, query.ActivityID)
	if err != nil {
		return GetActivityRosterResult{}, err
	}

	signups, err := deps.SignupStore.ListByActivity(ctx, query.ActivityID)
	if err != nil {
		return GetActivityRosterResult{}, err
	}

	var entries []RosterEntry
	for _, su := range signups {
		if !su.IsActive() {
			continue
		}
		entry := RosterEntry{SignupID: su.ID, Status: su.Status}
		if acct, err := deps.AccountStore.GetByID(ctx, su.AccountID); err == nil {
			entry.Name = acct.Name
			entry.Email = acct.Email
		}
		entries = append(entries, entry)
	}

	// Enrolled volunteers first, then registered, keeping store order within
	// each group.
	ordered := make([]RosterEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status == signup.StatusEnrolled {
			ordered = append(ordered, e)
		}
	}
	for _, e := range entries {
		if e.Status != signup.StatusEnrolled {
			ordered = append(ordered, e)
		}
	}

	return GetActivityRosterResult{
		ActivityID: act.ID,
		Title:      act.Title,
		Needed:     act.VolunteersNeeded,
		Active:     len(ordered),
		Entries:    ordered,
	}, nil
}
