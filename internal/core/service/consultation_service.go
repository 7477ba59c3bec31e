package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/metrics"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

var consultationSortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"scheduled_at": "scheduled_at",
	"status":       "status",
	"topic":        "topic",
}

// ConsultationService orchestrates consultation bookings.
type ConsultationService struct {
	repo     ports.ConsultationRepository
	activity ports.ActivityRepository
	recorder ports.ActivityRecorder
	log      zerolog.Logger
}

func NewConsultationService(repo ports.ConsultationRepository, activity ports.ActivityRepository, recorder ports.ActivityRecorder, log zerolog.Logger) *ConsultationService {
	return &ConsultationService{repo: repo, activity: activity, recorder: recorder, log: log}
}

func (s *ConsultationService) Create(ctx context.Context, in ports.CreateConsultationInput, actor domain.Principal) (*domain.Consultation, error) {
	if in.ClientID == "" || in.Topic == "" {
		return nil, domain.Validationf("client_id and topic are required")
	}
	if in.DurationMins < 0 {
		return nil, domain.Validationf("duration_mins cannot be negative")
	}
	if !actor.CanAccess(in.ClientID) {
		return nil, fmt.Errorf("create consultation: %w", domain.ErrForbidden)
	}

	now := time.Now().UTC()
	c := &domain.Consultation{
		ClientID:     in.ClientID,
		Topic:        in.Topic,
		Notes:        in.Notes,
		ScheduledAt:  in.ScheduledAt,
		DurationMins: in.DurationMins,
		Status:       domain.ConsultationRequested,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.AttorneyID != "" {
		c.AttorneyID = &in.AttorneyID
	}
	if c.ScheduledAt != nil {
		c.Status = domain.ConsultationScheduled
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error().Err(err).Str("client_id", in.ClientID).Msg("failed to create consultation")
		return nil, err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues("consultation").Inc()

	s.recorder.Record(ctx, ports.ActivityInput{
		ParentID:    c.ID,
		Kind:        domain.ActivityCreated,
		Title:       "Consultation requested",
		Description: c.ConsultationNumber,
		ActorID:     actor.ID,
	})

	s.log.Info().Str("consultation_number", c.ConsultationNumber).Str("client_id", c.ClientID).Msg("consultation created")
	return c, nil
}

func (s *ConsultationService) Get(ctx context.Context, id string, actor domain.Principal) (*domain.Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(c.ClientID) {
		return nil, fmt.Errorf("get consultation: %w", domain.ErrForbidden)
	}
	return c, nil
}

func (s *ConsultationService) List(ctx context.Context, in ports.ListConsultationsInput, actor domain.Principal) (*ports.ConsultationPage, error) {
	page := in.Page.Normalize()
	f := ports.ConsultationFilter{
		ClientID:   in.ClientID,
		Status:     in.Status,
		AttorneyID: in.AttorneyID,
		Search:     SanitizeSearchTerm(in.Search),
		SortColumn: sortColumn(consultationSortColumns, in.Sort.Column),
		SortDesc:   in.Sort.Desc,
		Offset:     page.Offset(),
		Limit:      page.Limit,
	}
	if actor.Role == domain.RoleClient {
		f.ClientID = actor.ClientID
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.ConsultationPage{Items: items, Meta: ports.NewPageMeta(page, total)}, nil
}

// Update applies a sparse patch. Completing stamps completed_at.
func (s *ConsultationService) Update(ctx context.Context, id string, patch ports.UpdateConsultationInput, actor domain.Principal) (*domain.Consultation, error) {
	current, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.Validationf("no fields to update")
	}
	if patch.Topic.Set && (patch.Topic.Null || patch.Topic.Value == "") {
		return nil, domain.Validationf("topic cannot be empty")
	}
	if patch.DurationMins.Set && !patch.DurationMins.Null && patch.DurationMins.Value < 0 {
		return nil, domain.Validationf("duration_mins cannot be negative")
	}
	if patch.Status.Set {
		if patch.Status.Null {
			return nil, domain.Validationf("status cannot be null")
		}
		st := domain.ConsultationStatus(patch.Status.Value)
		if !st.Valid() {
			return nil, domain.Validationf("unknown consultation status %q", patch.Status.Value)
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.Status.Set && updated.Status != current.Status {
		s.recorder.Record(ctx, ports.ActivityInput{
			ParentID:    id,
			Kind:        domain.ActivityStatusChanged,
			Title:       "Status changed",
			Description: fmt.Sprintf("from %s to %s", current.Status, updated.Status),
			ActorID:     actor.ID,
		})
	}
	if patch.AttorneyID.Set && !equalStrPtr(current.AttorneyID, updated.AttorneyID) {
		s.recorder.Record(ctx, ports.ActivityInput{
			ParentID:    id,
			Kind:        domain.ActivityAssigneeChanged,
			Title:       "Attorney assignment changed",
			Description: assigneeChange(current.AttorneyID, updated.AttorneyID),
			ActorID:     actor.ID,
		})
	}
	return updated, nil
}

// Delete hard-deletes a consultation. Staff/admin only, enforced by the
// caller.
func (s *ConsultationService) Delete(ctx context.Context, id string, actor domain.Principal) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("consultation_id", id).Str("actor_id", actor.ID).Msg("consultation deleted")
	return nil
}

func (s *ConsultationService) Timeline(ctx context.Context, id string, page ports.PageRequest, actor domain.Principal) (*ports.ActivityPage, error) {
	if _, err := s.Get(ctx, id, actor); err != nil {
		return nil, err
	}
	page = page.Normalize()
	items, total, err := s.activity.ListByParent(ctx, id, page)
	if err != nil {
		return nil, err
	}
	return &ports.ActivityPage{Items: items, Meta: ports.NewPageMeta(page, total)}, nil
}
