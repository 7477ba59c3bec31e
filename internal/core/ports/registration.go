package ports

import (
	"context"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// CreateRegistrationInput carries the fields required to open a service
// registration.
type CreateRegistrationInput struct {
	ClientID    string
	ServiceCode string
	Details     string
}

// UpdateRegistrationInput is a sparse patch.
type UpdateRegistrationInput struct {
	ServiceCode domain.Optional[string]
	Details     domain.Optional[string]
	Status      domain.Optional[string]
}

// Empty reports whether the patch contains no fields at all.
func (p UpdateRegistrationInput) Empty() bool {
	return !p.ServiceCode.Set && !p.Details.Set && !p.Status.Set
}

// ListRegistrationsInput carries list filters before narrowing.
type ListRegistrationsInput struct {
	Page        PageRequest
	Sort        Sort
	ClientID    string
	Status      string
	ServiceCode string
	Search      string
}

// RegistrationFilter is the repository-level predicate.
type RegistrationFilter struct {
	ClientID    string
	Status      string
	ServiceCode string
	Search      string
	SortColumn  string
	SortDesc    bool
	Offset      int
	Limit       int
}

// RegistrationPage is one page of service registrations.
type RegistrationPage struct {
	Items []domain.ServiceRegistration
	Meta  PageMeta
}

// RegistrationService is the mutation path for the registration family.
type RegistrationService interface {
	Create(ctx context.Context, in CreateRegistrationInput, actor domain.Principal) (*domain.ServiceRegistration, error)
	Get(ctx context.Context, id string, actor domain.Principal) (*domain.ServiceRegistration, error)
	List(ctx context.Context, in ListRegistrationsInput, actor domain.Principal) (*RegistrationPage, error)
	Update(ctx context.Context, id string, patch UpdateRegistrationInput, actor domain.Principal) (*domain.ServiceRegistration, error)
	// Delete is staff/admin only, enforced by the caller.
	Delete(ctx context.Context, id string, actor domain.Principal) error
	Timeline(ctx context.Context, id string, page PageRequest, actor domain.Principal) (*ActivityPage, error)
}

// RegistrationRepository defines persistence for service registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, r *domain.ServiceRegistration) error
	GetByID(ctx context.Context, id string) (*domain.ServiceRegistration, error)
	List(ctx context.Context, f RegistrationFilter) ([]domain.ServiceRegistration, int64, error)
	Update(ctx context.Context, id string, patch UpdateRegistrationInput) (*domain.ServiceRegistration, error)
	Delete(ctx context.Context, id string) error
}
