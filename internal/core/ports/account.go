package ports

import (
	"context"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// IdentityAdmin is the auth-admin surface consumed by account provisioning.
// It mirrors an external auth system: create-or-invite, lookup, delete.
type IdentityAdmin interface {
	// InviteUser creates an identity with an invite token and no credential;
	// the end user sets a password later via the invite flow.
	InviteUser(ctx context.Context, email string) (*domain.Identity, error)
	GetUserByID(ctx context.Context, id string) (*domain.Identity, error)
	DeleteUser(ctx context.Context, id string) error
}

// AccountRepository persists the profile rows of a provisioned account.
type AccountRepository interface {
	CreateProfile(ctx context.Context, p *domain.Profile) error
	DeleteProfile(ctx context.Context, id string) error
	CreateClient(ctx context.Context, c *domain.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// ProvisionAccountInput carries the invite email and the initial profile
// fields for a new client account.
type ProvisionAccountInput struct {
	Email    string
	FullName string
	Company  string
	Phone    string
}

// AccountService owns the composite account lifecycle: multi-step
// provisioning with compensating cleanup, and ordered composite deletion
// (auth identity first, then profile rows).
type AccountService interface {
	Provision(ctx context.Context, in ProvisionAccountInput, actor domain.Principal) (*domain.Account, error)
	// Delete is staff/admin only, enforced by the caller.
	Delete(ctx context.Context, clientID string, actor domain.Principal) error
}

// ProvisionGuard is a best-effort idempotency check on the invite email.
// Guard failures never block provisioning.
type ProvisionGuard interface {
	IsDuplicate(ctx context.Context, email string) (bool, error)
	Mark(ctx context.Context, email string) error
}
