package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

const caseColumns = `
	c.id, c.case_number, c.client_id, c.title, c.description, c.category,
	c.status, c.assigned_attorney, c.opening_date, c.closing_date,
	c.created_at, c.updated_at,
	COALESCE(up.full_name, '') AS client_name,
	COALESCE(att.full_name, '') AS attorney_name`

const caseJoins = `
	FROM cases c
	LEFT JOIN client_profiles cp ON cp.id = c.client_id
	LEFT JOIN user_profiles up ON up.id = cp.profile_id
	LEFT JOIN user_profiles att ON att.id = c.assigned_attorney`

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create inserts the case and allocates its case number in one transaction,
// so a failed insert cannot burn a visible gap under concurrent creations.
func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("create case", err)
	}
	defer tx.Rollback()

	number, err := nextReference(ctx, tx, domain.PrefixCase, c.CreatedAt.Year())
	if err != nil {
		return mapError("create case", err)
	}
	c.ID = uuid.NewString()
	c.CaseNumber = number

	const query = `
		INSERT INTO cases (id, case_number, client_id, title, description,
			category, status, assigned_attorney, opening_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = tx.ExecContext(ctx, query,
		c.ID, c.CaseNumber, c.ClientID, c.Title, c.Description,
		c.Category, c.Status, c.AssignedAttorney, c.OpeningDate, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapError("create case", err)
	}
	if err := tx.Commit(); err != nil {
		return mapError("create case", err)
	}
	return nil
}

func (r *CaseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := "SELECT" + caseColumns + caseJoins + " WHERE c.id = $1"
	c, err := scanCase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get case", err)
	}
	return c, nil
}

func (r *CaseRepository) List(ctx context.Context, f ports.CaseFilter) ([]domain.Case, int64, error) {
	b := &condBuilder{}
	if f.ClientID != "" {
		b.add("c.client_id = $%[1]d", f.ClientID)
	}
	if f.Status != "" {
		b.add("c.status = $%[1]d", f.Status)
	}
	if f.Category != "" {
		b.add("c.category = $%[1]d", f.Category)
	}
	if f.AssignedAttorney != "" {
		b.add("c.assigned_attorney = $%[1]d", f.AssignedAttorney)
	}
	if f.Search != "" {
		b.add("(c.title ILIKE $%[1]d OR c.description ILIKE $%[1]d OR c.case_number ILIKE $%[1]d)",
			"%"+f.Search+"%")
	}

	var total int64
	countQuery := "SELECT COUNT(*)" + caseJoins + b.where()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count cases", err)
	}

	query := "SELECT" + caseColumns + caseJoins + b.where() +
		orderBy("c."+f.SortColumn, f.SortDesc) +
		" LIMIT " + b.next(1) + " OFFSET " + b.next(2)
	rows, err := r.db.QueryContext(ctx, query, append(b.args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, mapError("list cases", err)
	}
	defer rows.Close()

	var items []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, 0, mapError("list cases", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list cases", err)
	}
	return items, total, nil
}

func (r *CaseRepository) Update(ctx context.Context, id string, patch ports.UpdateCaseInput) (*domain.Case, error) {
	b := &setBuilder{}
	setText(b, "title", patch.Title)
	setText(b, "description", patch.Description)
	setText(b, "category", patch.Category)
	setText(b, "status", patch.Status)
	setNullable(b, "assigned_attorney", patch.AssignedAttorney)
	setNullable(b, "closing_date", patch.ClosingDate)
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	b.raw("updated_at = now()")

	b.args = append(b.args, id)
	query := "UPDATE cases SET " + b.clause() + " WHERE id = " + placeholder(len(b.args)) + " RETURNING id"
	var updated string
	if err := r.db.QueryRowContext(ctx, query, b.args...).Scan(&updated); err != nil {
		return nil, mapError("update case", err)
	}
	return r.GetByID(ctx, id)
}

func (r *CaseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cases WHERE id = $1", id)
	if err != nil {
		return mapError("delete case", err)
	}
	return requireAffected("delete case", res)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var c domain.Case
	err := row.Scan(
		&c.ID, &c.CaseNumber, &c.ClientID, &c.Title, &c.Description, &c.Category,
		&c.Status, &c.AssignedAttorney, &c.OpeningDate, &c.ClosingDate,
		&c.CreatedAt, &c.UpdatedAt,
		&c.ClientName, &c.AttorneyName,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
