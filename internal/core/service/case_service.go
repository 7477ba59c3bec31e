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

// caseSortColumns is the allow-listed sort set for case listings.
var caseSortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"title":        "title",
	"status":       "status",
	"case_number":  "case_number",
	"opening_date": "opening_date",
}

// CaseService orchestrates the case lifecycle: validate, enforce access,
// mutate, then emit a best-effort activity record.
type CaseService struct {
	repo     ports.CaseRepository
	activity ports.ActivityRepository
	recorder ports.ActivityRecorder
	log      zerolog.Logger
}

func NewCaseService(repo ports.CaseRepository, activity ports.ActivityRepository, recorder ports.ActivityRecorder, log zerolog.Logger) *CaseService {
	return &CaseService{repo: repo, activity: activity, recorder: recorder, log: log}
}

// Create opens a new case. The case number is assigned store-side and read
// back from the insert result.
func (s *CaseService) Create(ctx context.Context, in ports.CreateCaseInput, actor domain.Principal) (*domain.Case, error) {
	if in.ClientID == "" || in.Title == "" || in.Category == "" {
		return nil, domain.Validationf("client_id, title and category are required")
	}
	if !actor.CanAccess(in.ClientID) {
		return nil, fmt.Errorf("create case: %w", domain.ErrForbidden)
	}

	now := time.Now().UTC()
	c := &domain.Case{
		ClientID:    in.ClientID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      domain.CasePending,
		OpeningDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.AssignedAttorney != "" {
		c.AssignedAttorney = &in.AssignedAttorney
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error().Err(err).Str("client_id", in.ClientID).Msg("failed to create case")
		return nil, err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues("case").Inc()

	s.recorder.Record(ctx, ports.ActivityInput{
		ParentID:    c.ID,
		Kind:        domain.ActivityCreated,
		Title:       "Case opened",
		Description: c.CaseNumber,
		ActorID:     actor.ID,
	})

	s.log.Info().Str("case_number", c.CaseNumber).Str("client_id", c.ClientID).Msg("case created")
	return c, nil
}

// Get fetches one case. Existence is confirmed before the access check, so
// a row the caller may not see yields Forbidden, not NotFound.
func (s *CaseService) Get(ctx context.Context, id string, actor domain.Principal) (*domain.Case, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(c.ClientID) {
		return nil, fmt.Errorf("get case: %w", domain.ErrForbidden)
	}
	return c, nil
}

// List returns a page of cases. Client-role actors are always narrowed to
// their own profile; a caller-supplied client_id filter is overridden, never
// merged.
func (s *CaseService) List(ctx context.Context, in ports.ListCasesInput, actor domain.Principal) (*ports.CasePage, error) {
	page := in.Page.Normalize()
	f := ports.CaseFilter{
		ClientID:         in.ClientID,
		Status:           in.Status,
		Category:         in.Category,
		AssignedAttorney: in.AssignedAttorney,
		Search:           SanitizeSearchTerm(in.Search),
		SortColumn:       sortColumn(caseSortColumns, in.Sort.Column),
		SortDesc:         in.Sort.Desc,
		Offset:           page.Offset(),
		Limit:            page.Limit,
	}
	if actor.Role == domain.RoleClient {
		f.ClientID = actor.ClientID
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.CasePage{Items: items, Meta: ports.NewPageMeta(page, total)}, nil
}

// Update applies a sparse patch. Setting a terminal status stamps the
// closing date to today unless one is supplied in the same patch. Status and
// assignee changes emit activity records; plain field edits do not.
func (s *CaseService) Update(ctx context.Context, id string, patch ports.UpdateCaseInput, actor domain.Principal) (*domain.Case, error) {
	current, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.Validationf("no fields to update")
	}
	if patch.Title.Set && (patch.Title.Null || patch.Title.Value == "") {
		return nil, domain.Validationf("title cannot be empty")
	}
	if patch.Category.Set && (patch.Category.Null || patch.Category.Value == "") {
		return nil, domain.Validationf("category cannot be empty")
	}
	if patch.Status.Set {
		if patch.Status.Null {
			return nil, domain.Validationf("status cannot be null")
		}
		st := domain.CaseStatus(patch.Status.Value)
		if !st.Valid() {
			return nil, domain.Validationf("unknown case status %q", patch.Status.Value)
		}
		if st.Terminal() && !patch.ClosingDate.Set {
			patch.ClosingDate = domain.Some(time.Now().UTC())
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
	if patch.AssignedAttorney.Set && !equalStrPtr(current.AssignedAttorney, updated.AssignedAttorney) {
		s.recorder.Record(ctx, ports.ActivityInput{
			ParentID:    id,
			Kind:        domain.ActivityAssigneeChanged,
			Title:       "Attorney assignment changed",
			Description: assigneeChange(current.AssignedAttorney, updated.AssignedAttorney),
			ActorID:     actor.ID,
		})
	}
	return updated, nil
}

// Delete hard-deletes a case. Staff/admin only; the route guard enforces
// the role, not this method.
func (s *CaseService) Delete(ctx context.Context, id string, actor domain.Principal) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("case_id", id).Str("actor_id", actor.ID).Msg("case deleted")
	return nil
}

// Timeline lists the case's activity records newest-first. Access rules
// mirror Get.
func (s *CaseService) Timeline(ctx context.Context, id string, page ports.PageRequest, actor domain.Principal) (*ports.ActivityPage, error) {
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

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func assigneeChange(from, to *string) string {
	switch {
	case to == nil:
		return "unassigned"
	case from == nil:
		return "assigned to " + *to
	default:
		return fmt.Sprintf("reassigned from %s to %s", *from, *to)
	}
}
