package projections

import (
	"context"
	"errors"
	"testing"

	storageAccount "volunteerhub/internal/adapters/storage/account"
	domainAccount "volunteerhub/internal/domain/account"
	domainActivity "volunteerhub/internal/domain/activity"
	domainSignup "volunteerhub/internal/domain/signup"
)

type mockRosterAccountStore struct {
	accounts map[string]domainAccount.Account
}

func (m *mockRosterAccountStore) GetByID(_ context.Context, id string) (domainAccount.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return domainAccount.Account{}, errors.New("account not found")
}

func (m *mockRosterAccountStore) List(_ context.Context, _ storageAccount.ListFilter) ([]domainAccount.Account, error) {
	var out []domainAccount.Account
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func rosterDeps() GetActivityRosterDeps {
	return GetActivityRosterDeps{
		ActivityStore: &mockCalendarActivityStore{activities: []domainActivity.Activity{
			{
				ID:               "act-1",
				Title:            "Food bank shift",
				StartTime:        "2026-01-15T09:00:00",
				VolunteersNeeded: 4,
			},
		}},
		SignupStore: &mockCalendarSignupStore{signups: []domainSignup.Signup{
			{ID: "su-1", ActivityID: "act-1", AccountID: "vol-1", Status: domainSignup.StatusRegistered},
			{ID: "su-2", ActivityID: "act-1", AccountID: "vol-2", Status: domainSignup.StatusEnrolled},
			{ID: "su-3", ActivityID: "act-1", AccountID: "vol-3", Status: domainSignup.StatusCancelled},
		}},
		AccountStore: &mockRosterAccountStore{accounts: map[string]domainAccount.Account{
			"vol-1": {ID: "vol-1", Name: "Alex Volunteer", Email: "alex@volunteerhub.org"},
			"vol-2": {ID: "vol-2", Name: "Sam Helper", Email: "sam@volunteerhub.org"},
		}},
	}
}

func TestQueryGetActivityRoster(t *testing.T) {
	result, err := QueryGetActivityRoster(context.Background(), GetActivityRosterQuery{ActivityID: "act-1"}, rosterDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Title != "Food bank shift" || result.Needed != 4 {
		t.Errorf("header = %+v", result)
	}
	if result.Active != 2 || len(result.Entries) != 2 {
		t.Fatalf("active = %d, entries = %d, want 2 (cancelled excluded)", result.Active, len(result.Entries))
	}
	// Enrolled volunteers sort ahead of registered ones.
	if result.Entries[0].SignupID != "su-2" || result.Entries[0].Status != domainSignup.StatusEnrolled {
		t.Errorf("first entry = %+v, want the enrolled signup", result.Entries[0])
	}
	if result.Entries[0].Name != "Sam Helper" {
		t.Errorf("name = %q", result.Entries[0].Name)
	}
}

func TestQueryGetActivityRoster_MissingAccountStillListed(t *testing.T) {
	deps := rosterDeps()
	deps.AccountStore = &mockRosterAccountStore{}

	result, err := QueryGetActivityRoster(context.Background(), GetActivityRosterQuery{ActivityID: "act-1"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("entries = %d", len(result.Entries))
	}
	if result.Entries[0].Name != "" {
		t.Errorf("name = %q, want empty for unknown account", result.Entries[0].Name)
	}
}

func TestQueryGetActivityRoster_UnknownActivity(t *testing.T) {
	_, err := QueryGetActivityRoster(context.Background(), GetActivityRosterQuery{ActivityID: "ghost"}, rosterDeps())
	if err == nil {
		t.Error("unknown activity must fail")
	}
}
