package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"volunteerhub/internal/domain/account"
)

type loginMockAccountStore struct {
	accounts map[string]account.Account
}

func (m *loginMockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, errors.New("account not found")
}

func (m *loginMockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func loginDeps(t *testing.T) (LoginDeps, *loginMockAccountStore) {
	t.Helper()
	acct := account.Account{
		ID:        "acc-1",
		Email:     "vol@volunteerhub.org",
		Name:      "Alex Volunteer",
		Role:      account.RoleVolunteer,
		CreatedAt: time.Now(),
	}
	if err := acct.SetPassword("correct-horse-battery"); err != nil {
		t.Fatal(err)
	}
	store := &loginMockAccountStore{accounts: map[string]account.Account{acct.ID: acct}}
	return LoginDeps{AccountStore: store}, store
}

func TestExecuteLogin(t *testing.T) {
	deps, _ := loginDeps(t)

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "vol@volunteerhub.org",
		Password: "correct-horse-battery",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccountID != "acc-1" || result.Role != account.RoleVolunteer {
		t.Errorf("result = %+v", result)
	}
}

func TestExecuteLogin_WrongPassword(t *testing.T) {
	deps, store := loginDeps(t)

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "vol@volunteerhub.org",
		Password: "wrong",
	}, deps)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if store.accounts["acc-1"].FailedLogins != 1 {
		t.Errorf("failed logins = %d, want 1", store.accounts["acc-1"].FailedLogins)
	}
}

func TestExecuteLogin_LocksAfterRepeatedFailures(t *testing.T) {
	deps, _ := loginDeps(t)
	in := LoginInput{Email: "vol@volunteerhub.org", Password: "wrong"}

	for i := 0; i < 5; i++ {
		_, err := ExecuteLogin(context.Background(), in, deps)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}

	// Even the correct password is rejected while locked.
	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "vol@volunteerhub.org",
		Password: "correct-horse-battery",
	}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Errorf("err = %v, want ErrAccountLocked", err)
	}
}

func TestExecuteLogin_SuccessResetsFailures(t *testing.T) {
	deps, store := loginDeps(t)

	for i := 0; i < 3; i++ {
		_, _ = ExecuteLogin(context.Background(), LoginInput{Email: "vol@volunteerhub.org", Password: "wrong"}, deps)
	}
	if _, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "vol@volunteerhub.org",
		Password: "correct-horse-battery",
	}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.accounts["acc-1"].FailedLogins != 0 {
		t.Errorf("failed logins = %d, want 0 after success", store.accounts["acc-1"].FailedLogins)
	}
}

func TestExecuteLogin_UnknownEmail(t *testing.T) {
	deps, _ := loginDeps(t)
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "ghost@volunteerhub.org", Password: "x"}, deps)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}
