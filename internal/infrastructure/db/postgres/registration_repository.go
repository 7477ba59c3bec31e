package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

const registrationColumns = `
	r.id, r.registration_number, r.client_id, r.service_code, r.details,
	r.status, r.completed_at, r.created_at, r.updated_at,
	COALESCE(up.full_name, '') AS client_name`

const registrationJoins = `
	FROM service_registrations r
	LEFT JOIN client_profiles cp ON cp.id = r.client_id
	LEFT JOIN user_profiles up ON up.id = cp.profile_id`

type RegistrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.ServiceRegistration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("create registration", err)
	}
	defer tx.Rollback()

	number, err := nextReference(ctx, tx, domain.PrefixRegistration, reg.CreatedAt.Year())
	if err != nil {
		return mapError("create registration", err)
	}
	reg.ID = uuid.NewString()
	reg.RegistrationNumber = number

	const query = `
		INSERT INTO service_registrations (id, registration_number, client_id,
			service_code, details, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = tx.ExecContext(ctx, query,
		reg.ID, reg.RegistrationNumber, reg.ClientID,
		reg.ServiceCode, reg.Details, reg.Status, reg.CreatedAt, reg.UpdatedAt)
	if err != nil {
		return mapError("create registration", err)
	}
	if err := tx.Commit(); err != nil {
		return mapError("create registration", err)
	}
	return nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRegistration, error) {
	query := "SELECT" + registrationColumns + registrationJoins + " WHERE r.id = $1"
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get registration", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) List(ctx context.Context, f ports.RegistrationFilter) ([]domain.ServiceRegistration, int64, error) {
	b := &condBuilder{}
	if f.ClientID != "" {
		b.add("r.client_id = $%[1]d", f.ClientID)
	}
	if f.Status != "" {
		b.add("r.status = $%[1]d", f.Status)
	}
	if f.ServiceCode != "" {
		b.add("r.service_code = $%[1]d", f.ServiceCode)
	}
	if f.Search != "" {
		b.add("(r.details ILIKE $%[1]d OR r.registration_number ILIKE $%[1]d)",
			"%"+f.Search+"%")
	}

	var total int64
	countQuery := "SELECT COUNT(*)" + registrationJoins + b.where()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count registrations", err)
	}

	query := "SELECT" + registrationColumns + registrationJoins + b.where() +
		orderBy("r."+f.SortColumn, f.SortDesc) +
		" LIMIT " + b.next(1) + " OFFSET " + b.next(2)
	rows, err := r.db.QueryContext(ctx, query, append(b.args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, mapError("list registrations", err)
	}
	defer rows.Close()

	var items []domain.ServiceRegistration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, mapError("list registrations", err)
		}
		items = append(items, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list registrations", err)
	}
	return items, total, nil
}

// Update applies the patch. Completing stamps completed_at once.
func (r *RegistrationRepository) Update(ctx context.Context, id string, patch ports.UpdateRegistrationInput) (*domain.ServiceRegistration, error) {
	b := &setBuilder{}
	setText(b, "service_code", patch.ServiceCode)
	setText(b, "details", patch.Details)
	setText(b, "status", patch.Status)
	if patch.Status.Set && !patch.Status.Null &&
		domain.RegistrationStatus(patch.Status.Value) == domain.RegistrationCompleted {
		b.raw("completed_at = COALESCE(completed_at, now())")
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	b.raw("updated_at = now()")

	b.args = append(b.args, id)
	query := "UPDATE service_registrations SET " + b.clause() + " WHERE id = " + placeholder(len(b.args)) + " RETURNING id"
	var updated string
	if err := r.db.QueryRowContext(ctx, query, b.args...).Scan(&updated); err != nil {
		return nil, mapError("update registration", err)
	}
	return r.GetByID(ctx, id)
}

func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM service_registrations WHERE id = $1", id)
	if err != nil {
		return mapError("delete registration", err)
	}
	return requireAffected("delete registration", res)
}

func scanRegistration(row rowScanner) (*domain.ServiceRegistration, error) {
	var reg domain.ServiceRegistration
	err := row.Scan(
		&reg.ID, &reg.RegistrationNumber, &reg.ClientID, &reg.ServiceCode, &reg.Details,
		&reg.Status, &reg.CompletedAt, &reg.CreatedAt, &reg.UpdatedAt,
		&reg.ClientName,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
