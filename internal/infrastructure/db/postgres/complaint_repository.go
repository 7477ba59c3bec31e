package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

const complaintColumns = `
	c.id, c.complaint_number, c.client_id, c.subject, c.description,
	c.status, c.resolution_notes, c.resolved_at, c.created_at, c.updated_at,
	COALESCE(up.full_name, '') AS client_name`

const complaintJoins = `
	FROM complaints c
	LEFT JOIN client_profiles cp ON cp.id = c.client_id
	LEFT JOIN user_profiles up ON up.id = cp.profile_id`

type ComplaintRepository struct {
	db *sql.DB
}

func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("create complaint", err)
	}
	defer tx.Rollback()

	number, err := nextReference(ctx, tx, domain.PrefixComplaint, c.CreatedAt.Year())
	if err != nil {
		return mapError("create complaint", err)
	}
	c.ID = uuid.NewString()
	c.ComplaintNumber = number

	const query = `
		INSERT INTO complaints (id, complaint_number, client_id, subject,
			description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = tx.ExecContext(ctx, query,
		c.ID, c.ComplaintNumber, c.ClientID, c.Subject,
		c.Description, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapError("create complaint", err)
	}
	if err := tx.Commit(); err != nil {
		return mapError("create complaint", err)
	}
	return nil
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := "SELECT" + complaintColumns + complaintJoins + " WHERE c.id = $1"
	c, err := scanComplaint(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get complaint", err)
	}
	return c, nil
}

func (r *ComplaintRepository) List(ctx context.Context, f ports.ComplaintFilter) ([]domain.Complaint, int64, error) {
	b := &condBuilder{}
	if f.ClientID != "" {
		b.add("c.client_id = $%[1]d", f.ClientID)
	}
	if f.Status != "" {
		b.add("c.status = $%[1]d", f.Status)
	}
	if f.Search != "" {
		b.add("(c.subject ILIKE $%[1]d OR c.description ILIKE $%[1]d OR c.complaint_number ILIKE $%[1]d)",
			"%"+f.Search+"%")
	}

	var total int64
	countQuery := "SELECT COUNT(*)" + complaintJoins + b.where()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count complaints", err)
	}

	query := "SELECT" + complaintColumns + complaintJoins + b.where() +
		orderBy("c."+f.SortColumn, f.SortDesc) +
		" LIMIT " + b.next(1) + " OFFSET " + b.next(2)
	rows, err := r.db.QueryContext(ctx, query, append(b.args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, mapError("list complaints", err)
	}
	defer rows.Close()

	var items []domain.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, mapError("list complaints", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list complaints", err)
	}
	return items, total, nil
}

// Update applies the patch. Moving into a terminal status stamps resolved_at
// once; the stamp survives later status changes.
func (r *ComplaintRepository) Update(ctx context.Context, id string, patch ports.UpdateComplaintInput) (*domain.Complaint, error) {
	b := &setBuilder{}
	setText(b, "subject", patch.Subject)
	setText(b, "description", patch.Description)
	setText(b, "status", patch.Status)
	setText(b, "resolution_notes", patch.ResolutionNotes)
	if patch.Status.Set && !patch.Status.Null &&
		domain.ComplaintStatus(patch.Status.Value).Terminal() {
		b.raw("resolved_at = COALESCE(resolved_at, now())")
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	b.raw("updated_at = now()")

	b.args = append(b.args, id)
	query := "UPDATE complaints SET " + b.clause() + " WHERE id = " + placeholder(len(b.args)) + " RETURNING id"
	var updated string
	if err := r.db.QueryRowContext(ctx, query, b.args...).Scan(&updated); err != nil {
		return nil, mapError("update complaint", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ComplaintRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM complaints WHERE id = $1", id)
	if err != nil {
		return mapError("delete complaint", err)
	}
	return requireAffected("delete complaint", res)
}

func scanComplaint(row rowScanner) (*domain.Complaint, error) {
	var c domain.Complaint
	err := row.Scan(
		&c.ID, &c.ComplaintNumber, &c.ClientID, &c.Subject, &c.Description,
		&c.Status, &c.ResolutionNotes, &c.ResolvedAt, &c.CreatedAt, &c.UpdatedAt,
		&c.ClientName,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
