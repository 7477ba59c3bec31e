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

var complaintSortColumns = map[string]string{
	"created_at":       "created_at",
	"updated_at":       "updated_at",
	"subject":          "subject",
	"status":           "status",
	"complaint_number": "complaint_number",
}

// ComplaintService orchestrates the complaint lifecycle.
type ComplaintService struct {
	repo     ports.ComplaintRepository
	activity ports.ActivityRepository
	recorder ports.ActivityRecorder
	log      zerolog.Logger
}

func NewComplaintService(repo ports.ComplaintRepository, activity ports.ActivityRepository, recorder ports.ActivityRecorder, log zerolog.Logger) *ComplaintService {
	return &ComplaintService{repo: repo, activity: activity, recorder: recorder, log: log}
}

func (s *ComplaintService) Create(ctx context.Context, in ports.CreateComplaintInput, actor domain.Principal) (*domain.Complaint, error) {
	if in.ClientID == "" || in.Subject == "" {
		return nil, domain.Validationf("client_id and subject are required")
	}
	if !actor.CanAccess(in.ClientID) {
		return nil, fmt.Errorf("create complaint: %w", domain.ErrForbidden)
	}

	now := time.Now().UTC()
	c := &domain.Complaint{
		ClientID:    in.ClientID,
		Subject:     in.Subject,
		Description: in.Description,
		Status:      domain.ComplaintSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error().Err(err).Str("client_id", in.ClientID).Msg("failed to create complaint")
		return nil, err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues("complaint").Inc()

	s.recorder.Record(ctx, ports.ActivityInput{
		ParentID:    c.ID,
		Kind:        domain.ActivityCreated,
		Title:       "Complaint filed",
		Description: c.ComplaintNumber,
		ActorID:     actor.ID,
	})

	s.log.Info().Str("complaint_number", c.ComplaintNumber).Str("client_id", c.ClientID).Msg("complaint created")
	return c, nil
}

func (s *ComplaintService) Get(ctx context.Context, id string, actor domain.Principal) (*domain.Complaint, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(c.ClientID) {
		return nil, fmt.Errorf("get complaint: %w", domain.ErrForbidden)
	}
	return c, nil
}

func (s *ComplaintService) List(ctx context.Context, in ports.ListComplaintsInput, actor domain.Principal) (*ports.ComplaintPage, error) {
	page := in.Page.Normalize()
	f := ports.ComplaintFilter{
		ClientID:   in.ClientID,
		Status:     in.Status,
		Search:     SanitizeSearchTerm(in.Search),
		SortColumn: sortColumn(complaintSortColumns, in.Sort.Column),
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
	return &ports.ComplaintPage{Items: items, Meta: ports.NewPageMeta(page, total)}, nil
}

// Update applies a sparse patch. Resolving or closing stamps resolved_at.
func (s *ComplaintService) Update(ctx context.Context, id string, patch ports.UpdateComplaintInput, actor domain.Principal) (*domain.Complaint, error) {
	current, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.Validationf("no fields to update")
	}
	if patch.Subject.Set && (patch.Subject.Null || patch.Subject.Value == "") {
		return nil, domain.Validationf("subject cannot be empty")
	}
	if patch.Status.Set {
		if patch.Status.Null {
			return nil, domain.Validationf("status cannot be null")
		}
		st := domain.ComplaintStatus(patch.Status.Value)
		if !st.Valid() {
			return nil, domain.Validationf("unknown complaint status %q", patch.Status.Value)
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
	if patch.ResolutionNotes.Set && !patch.ResolutionNotes.Null && patch.ResolutionNotes.Value != "" {
		s.recorder.Record(ctx, ports.ActivityInput{
			ParentID: id,
			Kind:     domain.ActivityNoteAdded,
			Title:    "Resolution notes added",
			ActorID:  actor.ID,
		})
	}
	return updated, nil
}

// Delete hard-deletes a complaint. Staff/admin only, enforced by the caller.
func (s *ComplaintService) Delete(ctx context.Context, id string, actor domain.Principal) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("complaint_id", id).Str("actor_id", actor.ID).Msg("complaint deleted")
	return nil
}

func (s *ComplaintService) Timeline(ctx context.Context, id string, page ports.PageRequest, actor domain.Principal) (*ports.ActivityPage, error) {
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
