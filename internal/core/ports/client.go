package ports

import (
	"context"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// UpdateClientInput is a sparse patch for the client profile.
type UpdateClientInput struct {
	FullName domain.Optional[string]
	Company  domain.Optional[string]
	Phone    domain.Optional[string]
	Status   domain.Optional[string]
}

// Empty reports whether the patch contains no fields at all.
func (p UpdateClientInput) Empty() bool {
	return !p.FullName.Set && !p.Company.Set && !p.Phone.Set && !p.Status.Set
}

// ListClientsInput carries list filters before access-control narrowing.
type ListClientsInput struct {
	Page   PageRequest
	Sort   Sort
	Status string
	Search string
}

// ClientFilter is the repository-level predicate.
type ClientFilter struct {
	ID         string // non-empty narrows the listing to one profile (self role)
	Status     string
	Search     string
	SortColumn string
	SortDesc   bool
	Offset     int
	Limit      int
}

// ClientPage is one page of client profiles.
type ClientPage struct {
	Items []domain.Client
	Meta  PageMeta
}

// ClientService covers read and update of client profiles. Creation and
// deletion are composite account operations owned by AccountService.
type ClientService interface {
	Get(ctx context.Context, id string, actor domain.Principal) (*domain.Client, error)
	List(ctx context.Context, in ListClientsInput, actor domain.Principal) (*ClientPage, error)
	Update(ctx context.Context, id string, patch UpdateClientInput, actor domain.Principal) (*domain.Client, error)
	Timeline(ctx context.Context, id string, page PageRequest, actor domain.Principal) (*ActivityPage, error)
}

// ClientRepository defines persistence for client profiles. GetByID joins
// the base profile and identity for display fields and the identity id.
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, f ClientFilter) ([]domain.Client, int64, error)
	Update(ctx context.Context, id string, patch UpdateClientInput) (*domain.Client, error)
}
