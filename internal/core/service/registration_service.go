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

var registrationSortColumns = map[string]string{
	"created_at":          "created_at",
	"updated_at":          "updated_at",
	"status":              "status",
	"service_code":        "service_code",
	"registration_number": "registration_number",
}

// RegistrationService orchestrates fixed-scope service registrations.
type RegistrationService struct {
	repo     ports.RegistrationRepository
	activity ports.ActivityRepository
	recorder ports.ActivityRecorder
	log      zerolog.Logger
}

func NewRegistrationService(repo ports.RegistrationRepository, activity ports.ActivityRepository, recorder ports.ActivityRecorder, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{repo: repo, activity: activity, recorder: recorder, log: log}
}

func (s *RegistrationService) Create(ctx context.Context, in ports.CreateRegistrationInput, actor domain.Principal) (*domain.ServiceRegistration, error) {
	if in.ClientID == "" || in.ServiceCode == "" {
		return nil, domain.Validationf("client_id and service_code are required")
	}
	if !actor.CanAccess(in.ClientID) {
		return nil, fmt.Errorf("create registration: %w", domain.ErrForbidden)
	}

	now := time.Now().UTC()
	r := &domain.ServiceRegistration{
		ClientID:    in.ClientID,
		ServiceCode: in.ServiceCode,
		Details:     in.Details,
		Status:      domain.RegistrationReceived,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.log.Error().Err(err).Str("client_id", in.ClientID).Msg("failed to create registration")
		return nil, err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues("registration").Inc()

	s.recorder.Record(ctx, ports.ActivityInput{
		ParentID:    r.ID,
		Kind:        domain.ActivityCreated,
		Title:       "Service registration received",
		Description: r.RegistrationNumber,
		ActorID:     actor.ID,
	})

	s.log.Info().Str("registration_number", r.RegistrationNumber).Str("client_id", r.ClientID).Msg("registration created")
	return r, nil
}

func (s *RegistrationService) Get(ctx context.Context, id string, actor domain.Principal) (*domain.ServiceRegistration, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(r.ClientID) {
		return nil, fmt.Errorf("get registration: %w", domain.ErrForbidden)
	}
	return r, nil
}

func (s *RegistrationService) List(ctx context.Context, in ports.ListRegistrationsInput, actor domain.Principal) (*ports.RegistrationPage, error) {
	page := in.Page.Normalize()
	f := ports.RegistrationFilter{
		ClientID:    in.ClientID,
		Status:      in.Status,
		ServiceCode: in.ServiceCode,
		Search:      SanitizeSearchTerm(in.Search),
		SortColumn:  sortColumn(registrationSortColumns, in.Sort.Column),
		SortDesc:    in.Sort.Desc,
		Offset:      page.Offset(),
		Limit:       page.Limit,
	}
	if actor.Role == domain.RoleClient {
		f.ClientID = actor.ClientID
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.RegistrationPage{Items: items, Meta: ports.NewPageMeta(page, total)}, nil
}

// Update applies a sparse patch. Completing stamps completed_at.
func (s *RegistrationService) Update(ctx context.Context, id string, patch ports.UpdateRegistrationInput, actor domain.Principal) (*domain.ServiceRegistration, error) {
	current, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.Validationf("no fields to update")
	}
	if patch.ServiceCode.Set && (patch.ServiceCode.Null || patch.ServiceCode.Value == "") {
		return nil, domain.Validationf("service_code cannot be empty")
	}
	if patch.Status.Set {
		if patch.Status.Null {
			return nil, domain.Validationf("status cannot be null")
		}
		st := domain.RegistrationStatus(patch.Status.Value)
		if !st.Valid() {
			return nil, domain.Validationf("unknown registration status %q", patch.Status.Value)
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
	return updated, nil
}

// Delete hard-deletes a registration. Staff/admin only, enforced by the
// caller.
func (s *RegistrationService) Delete(ctx context.Context, id string, actor domain.Principal) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("registration_id", id).Str("actor_id", actor.ID).Msg("registration deleted")
	return nil
}

func (s *RegistrationService) Timeline(ctx context.Context, id string, page ports.PageRequest, actor domain.Principal) (*ports.ActivityPage, error) {
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
