package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lexhaven/backoffice/internal/core/metrics"
	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// Recorder is the single place where a failed timeline write is logged and
// discarded. Every resource service calls Record on its success path;
// emission failure must never fail the parent operation.
type Recorder struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewRecorder returns an ActivityRecorder backed by repo.
func NewRecorder(repo ports.ActivityRepository, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record appends a timeline entry. On any failure the error is logged at
// warn severity and dropped.
func (r *Recorder) Record(ctx context.Context, in ports.ActivityInput) {
	rec := &domain.ActivityRecord{
		ID:          uuid.NewString(),
		ParentID:    in.ParentID,
		Kind:        in.Kind,
		Title:       in.Title,
		Description: in.Description,
		ActorID:     in.ActorID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.repo.Insert(ctx, rec); err != nil {
		metrics.ActivityDropsTotal.Inc()
		r.log.Warn().Err(err).
			Str("parent_id", in.ParentID).
			Str("kind", string(in.Kind)).
			Msg("failed to record activity")
		return
	}
	metrics.ActivityRecordsTotal.Inc()
}
