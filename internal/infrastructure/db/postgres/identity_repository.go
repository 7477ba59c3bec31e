package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// IdentityRepository backs both the auth-admin surface used by account
// provisioning and the credential lookups used by login. The table stands in
// for an external identity provider, which is why profile rows reference it
// without a foreign key.
type IdentityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// InviteUser creates an identity with a fresh invite token and no credential.
func (r *IdentityRepository) InviteUser(ctx context.Context, email string) (*domain.Identity, error) {
	now := time.Now().UTC()
	ident := &domain.Identity{
		ID:          uuid.NewString(),
		Email:       email,
		InviteToken: uuid.NewString(),
		InvitedAt:   &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	const query = `
		INSERT INTO auth_identities (id, email, invite_token, invited_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		ident.ID, ident.Email, ident.InviteToken, ident.InvitedAt,
		ident.CreatedAt, ident.UpdatedAt)
	if err != nil {
		return nil, mapError("invite user", err)
	}
	return ident, nil
}

func (r *IdentityRepository) GetUserByID(ctx context.Context, id string) (*domain.Identity, error) {
	ident, err := r.findOne(ctx, "id = $1", id)
	if err != nil {
		return nil, mapError("get user", err)
	}
	return ident, nil
}

func (r *IdentityRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM auth_identities WHERE id = $1", id)
	if err != nil {
		return mapError("delete user", err)
	}
	return requireAffected("delete user", res)
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	ident, err := r.findOne(ctx, "email = $1", email)
	if err != nil {
		return nil, mapError("find identity", err)
	}
	return ident, nil
}

func (r *IdentityRepository) FindByInviteToken(ctx context.Context, token string) (*domain.Identity, error) {
	ident, err := r.findOne(ctx, "invite_token = $1 AND invite_token <> ''", token)
	if err != nil {
		return nil, mapError("find identity", err)
	}
	return ident, nil
}

// SetCredential stores the password hash and consumes the invite token.
func (r *IdentityRepository) SetCredential(ctx context.Context, id, passwordHash string) error {
	const query = `
		UPDATE auth_identities
		SET password_hash = $1, invite_token = '', updated_at = now()
		WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return mapError("set credential", err)
	}
	return requireAffected("set credential", res)
}

// ProfileByIdentity resolves the base profile for a logged-in identity and,
// when the profile carries the client role, the linked client profile id.
func (r *IdentityRepository) ProfileByIdentity(ctx context.Context, identityID string) (*domain.Profile, string, error) {
	const query = `
		SELECT up.id, up.identity_id, up.full_name, up.role, up.created_at,
			COALESCE(cp.id::text, '')
		FROM user_profiles up
		LEFT JOIN client_profiles cp ON cp.profile_id = up.id
		WHERE up.identity_id = $1`

	var p domain.Profile
	var clientID string
	err := r.db.QueryRowContext(ctx, query, identityID).Scan(
		&p.ID, &p.IdentityID, &p.FullName, &p.Role, &p.CreatedAt, &clientID)
	if err != nil {
		return nil, "", mapError("profile by identity", err)
	}
	return &p, clientID, nil
}

func (r *IdentityRepository) findOne(ctx context.Context, cond string, arg any) (*domain.Identity, error) {
	query := `
		SELECT id, email, password_hash, invite_token, invited_at,
			created_at, updated_at
		FROM auth_identities
		WHERE ` + cond

	var ident domain.Identity
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&ident.ID, &ident.Email, &ident.PasswordHash, &ident.InviteToken,
		&ident.InvitedAt, &ident.CreatedAt, &ident.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ident, nil
}
