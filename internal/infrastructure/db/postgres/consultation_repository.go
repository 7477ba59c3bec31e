package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

const consultationColumns = `
	c.id, c.consultation_number, c.client_id, c.attorney_id, c.topic, c.notes,
	c.scheduled_at, c.duration_mins, c.status, c.completed_at,
	c.created_at, c.updated_at,
	COALESCE(up.full_name, '') AS client_name,
	COALESCE(att.full_name, '') AS attorney_name`

const consultationJoins = `
	FROM consultations c
	LEFT JOIN client_profiles cp ON cp.id = c.client_id
	LEFT JOIN user_profiles up ON up.id = cp.profile_id
	LEFT JOIN user_profiles att ON att.id = c.attorney_id`

type ConsultationRepository struct {
	db *sql.DB
}

func NewConsultationRepository(db *sql.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

func (r *ConsultationRepository) Create(ctx context.Context, c *domain.Consultation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("create consultation", err)
	}
	defer tx.Rollback()

	number, err := nextReference(ctx, tx, domain.PrefixConsultation, c.CreatedAt.Year())
	if err != nil {
		return mapError("create consultation", err)
	}
	c.ID = uuid.NewString()
	c.ConsultationNumber = number

	const query = `
		INSERT INTO consultations (id, consultation_number, client_id,
			attorney_id, topic, notes, scheduled_at, duration_mins, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = tx.ExecContext(ctx, query,
		c.ID, c.ConsultationNumber, c.ClientID,
		c.AttorneyID, c.Topic, c.Notes, c.ScheduledAt, c.DurationMins, c.Status,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapError("create consultation", err)
	}
	if err := tx.Commit(); err != nil {
		return mapError("create consultation", err)
	}
	return nil
}

func (r *ConsultationRepository) GetByID(ctx context.Context, id string) (*domain.Consultation, error) {
	query := "SELECT" + consultationColumns + consultationJoins + " WHERE c.id = $1"
	c, err := scanConsultation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get consultation", err)
	}
	return c, nil
}

func (r *ConsultationRepository) List(ctx context.Context, f ports.ConsultationFilter) ([]domain.Consultation, int64, error) {
	b := &condBuilder{}
	if f.ClientID != "" {
		b.add("c.client_id = $%[1]d", f.ClientID)
	}
	if f.Status != "" {
		b.add("c.status = $%[1]d", f.Status)
	}
	if f.AttorneyID != "" {
		b.add("c.attorney_id = $%[1]d", f.AttorneyID)
	}
	if f.Search != "" {
		b.add("(c.topic ILIKE $%[1]d OR c.notes ILIKE $%[1]d OR c.consultation_number ILIKE $%[1]d)",
			"%"+f.Search+"%")
	}

	var total int64
	countQuery := "SELECT COUNT(*)" + consultationJoins + b.where()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count consultations", err)
	}

	query := "SELECT" + consultationColumns + consultationJoins + b.where() +
		orderBy("c."+f.SortColumn, f.SortDesc) +
		" LIMIT " + b.next(1) + " OFFSET " + b.next(2)
	rows, err := r.db.QueryContext(ctx, query, append(b.args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, mapError("list consultations", err)
	}
	defer rows.Close()

	var items []domain.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, 0, mapError("list consultations", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list consultations", err)
	}
	return items, total, nil
}

// Update applies the patch. Completing stamps completed_at once.
func (r *ConsultationRepository) Update(ctx context.Context, id string, patch ports.UpdateConsultationInput) (*domain.Consultation, error) {
	b := &setBuilder{}
	setText(b, "topic", patch.Topic)
	setText(b, "notes", patch.Notes)
	setText(b, "status", patch.Status)
	setNullable(b, "scheduled_at", patch.ScheduledAt)
	setNullable(b, "attorney_id", patch.AttorneyID)
	if patch.DurationMins.Set && !patch.DurationMins.Null {
		b.set("duration_mins", patch.DurationMins.Value)
	}
	if patch.Status.Set && !patch.Status.Null &&
		domain.ConsultationStatus(patch.Status.Value) == domain.ConsultationCompleted {
		b.raw("completed_at = COALESCE(completed_at, now())")
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	b.raw("updated_at = now()")

	b.args = append(b.args, id)
	query := "UPDATE consultations SET " + b.clause() + " WHERE id = " + placeholder(len(b.args)) + " RETURNING id"
	var updated string
	if err := r.db.QueryRowContext(ctx, query, b.args...).Scan(&updated); err != nil {
		return nil, mapError("update consultation", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ConsultationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM consultations WHERE id = $1", id)
	if err != nil {
		return mapError("delete consultation", err)
	}
	return requireAffected("delete consultation", res)
}

func scanConsultation(row rowScanner) (*domain.Consultation, error) {
	var c domain.Consultation
	err := row.Scan(
		&c.ID, &c.ConsultationNumber, &c.ClientID, &c.AttorneyID, &c.Topic, &c.Notes,
		&c.ScheduledAt, &c.DurationMins, &c.Status, &c.CompletedAt,
		&c.CreatedAt, &c.UpdatedAt,
		&c.ClientName, &c.AttorneyName,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
