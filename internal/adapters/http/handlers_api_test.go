package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"volunteerhub/internal/adapters/http/middleware"
	accountStore "volunteerhub/internal/adapters/storage/account"
	accountDomain "volunteerhub/internal/domain/account"
	activityDomain "volunteerhub/internal/domain/activity"
	"volunteerhub/internal/domain/calendar"
	signupDomain "volunteerhub/internal/domain/signup"
)

// --- Mock stores ---

type mockAccountStore struct {
	accounts map[string]accountDomain.Account
}

func (m *mockAccountStore) GetByID(ctx context.Context, id string) (accountDomain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (accountDomain.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(ctx context.Context, a accountDomain.Account) error {
	if m.accounts == nil {
		m.accounts = make(map[string]accountDomain.Account)
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Delete(ctx context.Context, id string) error {
	delete(m.accounts, id)
	return nil
}

func (m *mockAccountStore) List(ctx context.Context, filter accountStore.ListFilter) ([]accountDomain.Account, error) {
	var list []accountDomain.Account
	for _, a := range m.accounts {
		list = append(list, a)
	}
	return list, nil
}

func (m *mockAccountStore) Count(ctx context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockActivityStore struct {
	activities map[string]activityDomain.Activity
}

func (m *mockActivityStore) GetByID(ctx context.Context, id string) (activityDomain.Activity, error) {
	if a, ok := m.activities[id]; ok {
		return a, nil
	}
	return activityDomain.Activity{}, sql.ErrNoRows
}

func (m *mockActivityStore) Save(ctx context.Context, a activityDomain.Activity) error {
	if m.activities == nil {
		m.activities = make(map[string]activityDomain.Activity)
	}
	m.activities[a.ID] = a
	return nil
}

func (m *mockActivityStore) Delete(ctx context.Context, id string) error {
	delete(m.activities, id)
	return nil
}

func (m *mockActivityStore) List(ctx context.Context) ([]activityDomain.Activity, error) {
	var list []activityDomain.Activity
	for _, a := range m.activities {
		if !a.Archived {
			list = append(list, a)
		}
	}
	return list, nil
}

func (m *mockActivityStore) ListStartingBetween(ctx context.Context, from, to string) ([]activityDomain.Activity, error) {
	var list []activityDomain.Activity
	for _, a := range m.activities {
		if !a.Archived && a.StartTime >= from && a.StartTime < to {
			list = append(list, a)
		}
	}
	return list, nil
}

type mockSignupStore struct {
	signups map[string]signupDomain.Signup
}

func (m *mockSignupStore) GetByID(ctx context.Context, id string) (signupDomain.Signup, error) {
	if s, ok := m.signups[id]; ok {
		return s, nil
	}
	return signupDomain.Signup{}, sql.ErrNoRows
}

func (m *mockSignupStore) GetByActivityAndAccount(ctx context.Context, activityID, accountID string) (signupDomain.Signup, error) {
	for _, s := range m.signups {
		if s.ActivityID == activityID && s.AccountID == accountID {
			return s, nil
		}
	}
	return signupDomain.Signup{}, sql.ErrNoRows
}

func (m *mockSignupStore) Save(ctx context.Context, s signupDomain.Signup) error {
	if m.signups == nil {
		m.signups = make(map[string]signupDomain.Signup)
	}
	m.signups[s.ID] = s
	return nil
}

func (m *mockSignupStore) Delete(ctx context.Context, id string) error {
	delete(m.signups, id)
	return nil
}

func (m *mockSignupStore) ListByActivity(ctx context.Context, activityID string) ([]signupDomain.Signup, error) {
	var list []signupDomain.Signup
	for _, s := range m.signups {
		if s.ActivityID == activityID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *mockSignupStore) ListByAccount(ctx context.Context, accountID string) ([]signupDomain.Signup, error) {
	var list []signupDomain.Signup
	for _, s := range m.signups {
		if s.AccountID == accountID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *mockSignupStore) CountActiveByActivity(ctx context.Context, activityIDs []string) (map[string]int, error) {
	counts := map[string]int{}
	for _, s := range m.signups {
		if s.IsActive() {
			counts[s.ActivityID]++
		}
	}
	return counts, nil
}

type mockOverrideStore struct {
	overrides map[string]calendar.Override
}

func (m *mockOverrideStore) Get(ctx context.Context, eventID string) (calendar.Override, error) {
	if o, ok := m.overrides[eventID]; ok {
		return o, nil
	}
	return calendar.Override{}, sql.ErrNoRows
}

func (m *mockOverrideStore) Save(ctx context.Context, o calendar.Override) error {
	if m.overrides == nil {
		m.overrides = make(map[string]calendar.Override)
	}
	m.overrides[o.EventID] = o
	return nil
}

func (m *mockOverrideStore) Delete(ctx context.Context, eventID string) error {
	delete(m.overrides, eventID)
	return nil
}

func (m *mockOverrideStore) GetAll(ctx context.Context) (map[string]calendar.Override, error) {
	return m.overrides, nil
}

// setupTestStores wires fresh mocks into the package globals.
func setupTestStores(t *testing.T) (*mockActivityStore, *mockSignupStore, *mockOverrideStore, *mockAccountStore) {
	t.Helper()
	activities := &mockActivityStore{activities: map[string]activityDomain.Activity{}}
	signups := &mockSignupStore{signups: map[string]signupDomain.Signup{}}
	overrides := &mockOverrideStore{overrides: map[string]calendar.Override{}}
	accounts := &mockAccountStore{accounts: map[string]accountDomain.Account{}}
	stores = &Stores{
		AccountStore:  accounts,
		ActivityStore: activities,
		SignupStore:   signups,
		OverrideStore: overrides,
	}
	externalFeed = nil
	sessions = middleware.NewSessionStore()
	emailSender = nil
	return activities, signups, overrides, accounts
}

func withSession(r *http.Request, accountID, role string) *http.Request {
	sess := middleware.Session{AccountID: accountID, Email: accountID + "@volunteerhub.org", Role: role}
	return r.WithContext(middleware.ContextWithSession(r.Context(), sess))
}

// --- Calendar view ---

func TestHandleCalendarView_Month(t *testing.T) {
	activities, _, _, _ := setupTestStores(t)
	activities.activities["act-1"] = activityDomain.Activity{
		ID:               "act-1",
		Title:            "Food bank shift",
		StartTime:        "2026-01-15T09:00:00",
		EndTime:          "2026-01-15T12:00:00",
		VolunteersNeeded: 4,
	}

	req := httptest.NewRequest("GET", "/api/calendar/view?mode=month&date=2026-01-15", nil)
	rr := httptest.NewRecorder()
	handleCalendarView(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var result struct {
		View struct {
			Mode string
		}
		Grid struct {
			Cells []struct {
				Key string
			}
		}
		Buckets    map[string][]json.RawMessage
		Identities map[string]calendar.Identity
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.View.Mode != calendar.ModeMonth {
		t.Errorf("mode = %q", result.View.Mode)
	}
	if len(result.Grid.Cells) != 42 {
		t.Errorf("cells = %d, want 42", len(result.Grid.Cells))
	}
	if len(result.Buckets["2026-01-15"]) != 1 {
		t.Errorf("bucket for Jan 15 = %d events, want 1", len(result.Buckets["2026-01-15"]))
	}
	if _, ok := result.Identities["act-1"]; !ok {
		t.Error("activity missing a resolved identity")
	}
}

func TestHandleCalendarView_Navigation(t *testing.T) {
	setupTestStores(t)

	req := httptest.NewRequest("GET", "/api/calendar/view?mode=month&date=2026-01-31&action=next", nil)
	rr := httptest.NewRecorder()
	handleCalendarView(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var result struct {
		View struct {
			Reference time.Time
		}
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Jan 31 + one month clamps to Feb 28, never rolls into March.
	if result.View.Reference.Month() != time.February || result.View.Reference.Day() != 28 {
		t.Errorf("reference = %v, want Feb 28", result.View.Reference)
	}
}

func TestHandleCalendarView_BadMethod(t *testing.T) {
	setupTestStores(t)
	req := httptest.NewRequest("POST", "/api/calendar/view", nil)
	rr := httptest.NewRecorder()
	handleCalendarView(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rr.Code)
	}
}

// --- Activities ---

func TestHandleActivities_CreateRequiresStaff(t *testing.T) {
	setupTestStores(t)
	body := `{"Title":"Shift","StartTime":"2026-01-15T09:00:00"}`

	req := httptest.NewRequest("POST", "/api/activities", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handleActivities(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rr.Code)
	}

	req = httptest.NewRequest("POST", "/api/activities", strings.NewReader(body))
	req = withSession(req, "vol-1", accountDomain.RoleVolunteer)
	rr = httptest.NewRecorder()
	handleActivities(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("volunteer status = %d, want 403", rr.Code)
	}
}

func TestHandleActivities_CreateAndList(t *testing.T) {
	activities, _, _, _ := setupTestStores(t)

	body := `{"Title":"Park cleanup","Description":"Bring **gloves**","StartTime":"2026-01-20T10:00:00","VolunteersNeeded":8}`
	req := httptest.NewRequest("POST", "/api/activities", strings.NewReader(body))
	req = withSession(req, "staff-1", accountDomain.RoleStaff)
	rr := httptest.NewRecorder()
	handleActivities(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if len(activities.activities) != 1 {
		t.Fatalf("persisted = %d", len(activities.activities))
	}

	req = httptest.NewRequest("GET", "/api/activities", nil)
	rr = httptest.NewRecorder()
	handleActivities(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var listed []activityResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed = %d", len(listed))
	}
	if !strings.Contains(listed[0].DescriptionHTML, "<strong>gloves</strong>") {
		t.Errorf("DescriptionHTML = %q, want rendered markdown", listed[0].DescriptionHTML)
	}
}

func TestHandleActivities_InvalidRejected(t *testing.T) {
	setupTestStores(t)

	body := `{"Title":"","StartTime":"2026-01-20T10:00:00"}`
	req := httptest.NewRequest("POST", "/api/activities", strings.NewReader(body))
	req = withSession(req, "staff-1", accountDomain.RoleStaff)
	rr := httptest.NewRecorder()
	handleActivities(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHandleArchiveActivity(t *testing.T) {
	activities, _, _, _ := setupTestStores(t)
	activities.activities["act-1"] = activityDomain.Activity{
		ID: "act-1", Title: "Shift", StartTime: "2026-01-15T09:00:00",
	}

	req := httptest.NewRequest("POST", "/api/activities/archive", strings.NewReader(`{"ActivityID":"act-1"}`))
	req = withSession(req, "staff-1", accountDomain.RoleStaff)
	rr := httptest.NewRecorder()
	handleArchiveActivity(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if !activities.activities["act-1"].Archived {
		t.Error("activity not archived")
	}
}

// --- Signups ---

func TestHandleSignups_Register(t *testing.T) {
	activities, signups, _, _ := setupTestStores(t)
	activities.activities["act-1"] = activityDomain.Activity{
		ID: "act-1", Title: "Shift", StartTime: "2026-01-15T09:00:00", VolunteersNeeded: 2,
	}

	req := httptest.NewRequest("POST", "/api/signups", strings.NewReader(`{"ActivityID":"act-1"}`))
	req = withSession(req, "vol-1", accountDomain.RoleVolunteer)
	rr := httptest.NewRecorder()
	handleSignups(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if len(signups.signups) != 1 {
		t.Errorf("signups persisted = %d", len(signups.signups))
	}
}

func TestHandleSignups_FullConflict(t *testing.T) {
	activities, signups, _, _ := setupTestStores(t)
	activities.activities["act-1"] = activityDomain.Activity{
		ID: "act-1", Title: "Shift", StartTime: "2026-01-15T09:00:00", VolunteersNeeded: 1,
	}
	signups.signups["su-1"] = signupDomain.Signup{
		ID: "su-1", ActivityID: "act-1", AccountID: "other", Status: signupDomain.StatusEnrolled,
	}

	req := httptest.NewRequest("POST", "/api/signups", strings.NewReader(`{"ActivityID":"act-1"}`))
	req = withSession(req, "vol-1", accountDomain.RoleVolunteer)
	rr := httptest.NewRecorder()
	handleSignups(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestHandleCancelSignup_OwnershipEnforced(t *testing.T) {
	_, signups, _, _ := setupTestStores(t)
	signups.signups["su-1"] = signupDomain.Signup{
		ID: "su-1", ActivityID: "act-1", AccountID: "vol-1", Status: signupDomain.StatusRegistered,
	}

	// Another volunteer may not cancel someone else's signup.
	req := httptest.NewRequest("POST", "/api/signups/cancel", strings.NewReader(`{"SignupID":"su-1"}`))
	req = withSession(req, "vol-2", accountDomain.RoleVolunteer)
	rr := httptest.NewRecorder()
	handleCancelSignup(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("other volunteer status = %d, want 403", rr.Code)
	}

	// The owner may.
	req = httptest.NewRequest("POST", "/api/signups/cancel", strings.NewReader(`{"SignupID":"su-1"}`))
	req = withSession(req, "vol-1", accountDomain.RoleVolunteer)
	rr = httptest.NewRecorder()
	handleCancelSignup(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("owner status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if signups.signups["su-1"].Status != signupDomain.StatusCancelled {
		t.Errorf("status = %q", signups.signups["su-1"].Status)
	}
}

// --- Overrides ---

func TestHandleOverrides_PutAndDelete(t *testing.T) {
	_, _, overrides, _ := setupTestStores(t)

	req := httptest.NewRequest("PUT", "/api/calendar/overrides", strings.NewReader(`{"EventID":"act-1","ColorToken":"teal","Label":"priority"}`))
	req = withSession(req, "staff-1", accountDomain.RoleStaff)
	rr := httptest.NewRecorder()
	handleOverrides(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("put status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if overrides.overrides["act-1"].ColorToken != "teal" {
		t.Errorf("override = %+v", overrides.overrides["act-1"])
	}

	req = httptest.NewRequest("DELETE", "/api/calendar/overrides?event_id=act-1", nil)
	req = withSession(req, "staff-1", accountDomain.RoleStaff)
	rr = httptest.NewRecorder()
	handleOverrides(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	if _, ok := overrides.overrides["act-1"]; ok {
		t.Error("override not cleared")
	}
}

// --- Auth ---

func TestHandleLogin(t *testing.T) {
	_, _, _, accounts := setupTestStores(t)
	acct := accountDomain.Account{
		ID:        "acc-1",
		Email:     "staff@volunteerhub.org",
		Name:      "Staff Member",
		Role:      accountDomain.RoleStaff,
		CreatedAt: time.Now(),
	}
	if err := acct.SetPassword("correct-horse-battery"); err != nil {
		t.Fatal(err)
	}
	accounts.accounts[acct.ID] = acct

	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(`{"Email":"staff@volunteerhub.org","Password":"correct-horse-battery"}`))
	rr := httptest.NewRecorder()
	handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	cookies := rr.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "volunteerhub_session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("session cookie not set")
	}

	req = httptest.NewRequest("POST", "/api/login", strings.NewReader(`{"Email":"staff@volunteerhub.org","Password":"wrong"}`))
	rr = httptest.NewRecorder()
	handleLogin(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rr.Code)
	}
}
