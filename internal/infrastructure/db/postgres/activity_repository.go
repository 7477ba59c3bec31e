package postgres

import (
	"context"
	"database/sql"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// ActivityRepository persists timeline records. Records are append-only;
// there is no update or delete path.
type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(ctx context.Context, rec *domain.ActivityRecord) error {
	const query = `
		INSERT INTO activity_records (id, parent_id, kind, title, description,
			actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.ParentID, rec.Kind, rec.Title, rec.Description,
		rec.ActorID, rec.CreatedAt)
	if err != nil {
		return mapError("insert activity", err)
	}
	return nil
}

func (r *ActivityRepository) ListByParent(ctx context.Context, parentID string, page ports.PageRequest) ([]domain.ActivityRecord, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM activity_records WHERE parent_id = $1", parentID).Scan(&total)
	if err != nil {
		return nil, 0, mapError("count activity", err)
	}

	const query = `
		SELECT id, parent_id, kind, title, description, actor_id, created_at
		FROM activity_records
		WHERE parent_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, parentID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, mapError("list activity", err)
	}
	defer rows.Close()

	var items []domain.ActivityRecord
	for rows.Next() {
		var rec domain.ActivityRecord
		err := rows.Scan(
			&rec.ID, &rec.ParentID, &rec.Kind, &rec.Title, &rec.Description,
			&rec.ActorID, &rec.CreatedAt)
		if err != nil {
			return nil, 0, mapError("list activity", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list activity", err)
	}
	return items, total, nil
}
