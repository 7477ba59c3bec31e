package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

var clientSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"company":    "company",
	"status":     "status",
	"full_name":  "full_name",
}

// ClientService covers read and update of client profiles. Creation and
// deletion run through AccountService, which owns the composite lifecycle.
type ClientService struct {
	repo     ports.ClientRepository
	activity ports.ActivityRepository
	log      zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, activity ports.ActivityRepository, log zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, activity: activity, log: log}
}

func (s *ClientService) Get(ctx context.Context, id string, actor domain.Principal) (*domain.Client, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(c.ID) {
		return nil, fmt.Errorf("get client: %w", domain.ErrForbidden)
	}
	return c, nil
}

// List returns a page of client profiles. Client-role actors see exactly
// their own profile.
func (s *ClientService) List(ctx context.Context, in ports.ListClientsInput, actor domain.Principal) (*ports.ClientPage, error) {
	page := in.Page.Normalize()
	f := ports.ClientFilter{
		Status:     in.Status,
		Search:     SanitizeSearchTerm(in.Search),
		SortColumn: sortColumn(clientSortColumns, in.Sort.Column),
		SortDesc:   in.Sort.Desc,
		Offset:     page.Offset(),
		Limit:      page.Limit,
	}
	if actor.Role == domain.RoleClient {
		f.ID = actor.ClientID
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.ClientPage{Items: items, Meta: ports.NewPageMeta(page, total)}, nil
}

// Update applies a sparse patch to the client profile. An empty patch is a
// no-op that returns the current state; the other families reject it.
func (s *ClientService) Update(ctx context.Context, id string, patch ports.UpdateClientInput, actor domain.Principal) (*domain.Client, error) {
	current, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}
	if patch.FullName.Set && (patch.FullName.Null || patch.FullName.Value == "") {
		return nil, domain.Validationf("full_name cannot be empty")
	}
	if patch.Status.Set {
		if patch.Status.Null {
			return nil, domain.Validationf("status cannot be null")
		}
		st := domain.ClientStatus(patch.Status.Value)
		if !st.Valid() {
			return nil, domain.Validationf("unknown client status %q", patch.Status.Value)
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("client_id", id).Str("actor_id", actor.ID).Msg("client updated")
	return updated, nil
}

func (s *ClientService) Timeline(ctx context.Context, id string, page ports.PageRequest, actor domain.Principal) (*ports.ActivityPage, error) {
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
