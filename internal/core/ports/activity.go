package ports

import (
	"context"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// ActivityInput describes a timeline event to append to a parent resource.
type ActivityInput struct {
	ParentID    string
	Kind        domain.ActivityKind
	Title       string
	Description string
	ActorID     string
}

// ActivityRecorder appends timeline records, fire-and-forget: Record never
// surfaces an error to the caller. A failed write is logged and discarded in
// exactly one place, inside the implementation.
type ActivityRecorder interface {
	Record(ctx context.Context, in ActivityInput)
}

// ActivityPage is one newest-first page of a parent's timeline.
type ActivityPage struct {
	Items []domain.ActivityRecord
	Meta  PageMeta
}

// ActivityRepository persists and lists timeline records. ListByParent
// returns records newest-first; no ordering is guaranteed across parents.
type ActivityRepository interface {
	Insert(ctx context.Context, rec *domain.ActivityRecord) error
	ListByParent(ctx context.Context, parentID string, page PageRequest) ([]domain.ActivityRecord, int64, error)
}
