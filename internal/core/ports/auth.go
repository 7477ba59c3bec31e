package ports

import (
	"context"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// AuthService covers login and invite acceptance for provisioned identities.
type AuthService interface {
	// Login verifies the credential and returns a signed token plus the
	// resolved profile.
	Login(ctx context.Context, email, password string) (string, *domain.Profile, error)
	// AcceptInvite sets the credential on an invited identity, consuming
	// the invite token.
	AcceptInvite(ctx context.Context, token, password string) (*domain.Identity, error)
}

// IdentityRepository is the credential-side persistence used by AuthService,
// beyond what IdentityAdmin exposes.
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByInviteToken(ctx context.Context, token string) (*domain.Identity, error)
	// SetCredential stores the password hash and clears the invite token.
	SetCredential(ctx context.Context, id, passwordHash string) error
	// ProfileByIdentity resolves the base profile linked to an identity and,
	// for client-role profiles, the linked client profile id.
	ProfileByIdentity(ctx context.Context, identityID string) (*domain.Profile, string, error)
}
