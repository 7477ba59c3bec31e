package postgres

import (
	"context"
	"database/sql"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

const clientColumns = `
	c.id, c.profile_id, c.company, c.phone, c.status, c.created_at, c.updated_at,
	COALESCE(up.full_name, '') AS full_name,
	COALESCE(ai.email, '') AS email,
	COALESCE(up.identity_id::text, '') AS identity_id`

const clientJoins = `
	FROM client_profiles c
	LEFT JOIN user_profiles up ON up.id = c.profile_id
	LEFT JOIN auth_identities ai ON ai.id = up.identity_id`

// ClientRepository reads and updates client profiles. Row creation and
// deletion run through the account repository, which owns the composite.
type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := "SELECT" + clientColumns + clientJoins + " WHERE c.id = $1"
	c, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get client", err)
	}
	return c, nil
}

func (r *ClientRepository) List(ctx context.Context, f ports.ClientFilter) ([]domain.Client, int64, error) {
	b := &condBuilder{}
	if f.ID != "" {
		b.add("c.id = $%[1]d", f.ID)
	}
	if f.Status != "" {
		b.add("c.status = $%[1]d", f.Status)
	}
	if f.Search != "" {
		b.add("(up.full_name ILIKE $%[1]d OR c.company ILIKE $%[1]d OR ai.email ILIKE $%[1]d)",
			"%"+f.Search+"%")
	}

	var total int64
	countQuery := "SELECT COUNT(*)" + clientJoins + b.where()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count clients", err)
	}

	sort := f.SortColumn
	// full_name lives on the joined profile row.
	if sort == "full_name" {
		sort = "up.full_name"
	} else {
		sort = "c." + sort
	}
	query := "SELECT" + clientColumns + clientJoins + b.where() +
		orderBy(sort, f.SortDesc) +
		" LIMIT " + b.next(1) + " OFFSET " + b.next(2)
	rows, err := r.db.QueryContext(ctx, query, append(b.args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, mapError("list clients", err)
	}
	defer rows.Close()

	var items []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, mapError("list clients", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list clients", err)
	}
	return items, total, nil
}

// Update patches the client profile row; a full_name change lands on the
// joined base profile instead.
func (r *ClientRepository) Update(ctx context.Context, id string, patch ports.UpdateClientInput) (*domain.Client, error) {
	b := &setBuilder{}
	setText(b, "company", patch.Company)
	setText(b, "phone", patch.Phone)
	setText(b, "status", patch.Status)
	if !b.empty() {
		b.raw("updated_at = now()")
		b.args = append(b.args, id)
		query := "UPDATE client_profiles SET " + b.clause() + " WHERE id = " + placeholder(len(b.args)) + " RETURNING id"
		var updated string
		if err := r.db.QueryRowContext(ctx, query, b.args...).Scan(&updated); err != nil {
			return nil, mapError("update client", err)
		}
	}

	if patch.FullName.Set && !patch.FullName.Null {
		const query = `
			UPDATE user_profiles SET full_name = $1
			WHERE id = (SELECT profile_id FROM client_profiles WHERE id = $2)`
		if _, err := r.db.ExecContext(ctx, query, patch.FullName.Value, id); err != nil {
			return nil, mapError("update client", err)
		}
	}
	return r.GetByID(ctx, id)
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ID, &c.ProfileID, &c.Company, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt,
		&c.FullName, &c.Email, &c.IdentityID,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
