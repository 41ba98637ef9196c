package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"volunteerhub/internal/domain/account"
)

// AdminSeedDeps holds stores needed for admin seeding.
type AdminSeedDeps struct {
	AccountStore adminSeedAccountStore
}

type adminSeedAccountStore interface {
	Save(ctx context.Context, a account.Account) error
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

// ExecuteSeedAdmin creates the initial admin account if it does not exist.
// It is idempotent: an existing account with the email is left untouched.
// PRE: Database is initialized; email and password come from configuration
// POST: an admin account exists for the email
func ExecuteSeedAdmin(ctx context.Context, deps AdminSeedDeps, email, password string) error {
	if email == "" || password == "" {
		slog.Info("admin_seed_skipped", "reason", "no credentials configured")
		return nil
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, email); err == nil {
		return nil
	}

	acct := account.Account{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      "Administrator",
		Role:      account.RoleAdmin,
		CreatedAt: time.Now(),
	}
	if err := acct.SetPassword(password); err != nil {
		return err
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("admin_seeded", "email", email)
	return nil
}
