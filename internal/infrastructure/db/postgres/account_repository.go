package postgres

import (
	"context"
	"database/sql"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// AccountRepository persists the profile rows created and removed by the
// composite account lifecycle. Each method is a single statement; the
// ordering and compensation logic live in the account service.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) CreateProfile(ctx context.Context, p *domain.Profile) error {
	const query = `
		INSERT INTO user_profiles (id, identity_id, full_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.IdentityID, p.FullName, p.Role, p.CreatedAt)
	if err != nil {
		return mapError("create profile", err)
	}
	return nil
}

func (r *AccountRepository) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM user_profiles WHERE id = $1", id)
	if err != nil {
		return mapError("delete profile", err)
	}
	return requireAffected("delete profile", res)
}

func (r *AccountRepository) CreateClient(ctx context.Context, c *domain.Client) error {
	const query = `
		INSERT INTO client_profiles (id, profile_id, company, phone, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.ProfileID, c.Company, c.Phone, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapError("create client", err)
	}
	return nil
}

// DeleteClient removes the client profile; owned resources cascade via the
// schema's foreign keys.
func (r *AccountRepository) DeleteClient(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM client_profiles WHERE id = $1", id)
	if err != nil {
		return mapError("delete client", err)
	}
	return requireAffected("delete client", res)
}
