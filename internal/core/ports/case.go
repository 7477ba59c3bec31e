package ports

import (
	"context"
	"time"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// CreateCaseInput carries the fields required to open a case.
type CreateCaseInput struct {
	ClientID         string
	Title            string
	Description      string
	Category         string
	AssignedAttorney string
}

// UpdateCaseInput is a sparse patch: absent fields are untouched, explicit
// nulls clear the column.
type UpdateCaseInput struct {
	Title            domain.Optional[string]
	Description      domain.Optional[string]
	Category         domain.Optional[string]
	Status           domain.Optional[string]
	AssignedAttorney domain.Optional[string]
	ClosingDate      domain.Optional[time.Time]
}

// Empty reports whether the patch contains no fields at all.
func (p UpdateCaseInput) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Category.Set &&
		!p.Status.Set && !p.AssignedAttorney.Set && !p.ClosingDate.Set
}

// ListCasesInput carries list filters before access-control narrowing.
type ListCasesInput struct {
	Page             PageRequest
	Sort             Sort
	ClientID         string
	Status           string
	Category         string
	AssignedAttorney string
	Search           string
}

// CaseFilter is the repository-level predicate after narrowing and
// sanitisation. Search is already stripped of filter metacharacters and
// SortColumn is already validated.
type CaseFilter struct {
	ClientID         string
	Status           string
	Category         string
	AssignedAttorney string
	Search           string
	SortColumn       string
	SortDesc         bool
	Offset           int
	Limit            int
}

// CasePage is one page of cases plus the shared meta envelope.
type CasePage struct {
	Items []domain.Case
	Meta  PageMeta
}

// CaseService is the mutation path for the case family.
type CaseService interface {
	Create(ctx context.Context, in CreateCaseInput, actor domain.Principal) (*domain.Case, error)
	Get(ctx context.Context, id string, actor domain.Principal) (*domain.Case, error)
	List(ctx context.Context, in ListCasesInput, actor domain.Principal) (*CasePage, error)
	Update(ctx context.Context, id string, patch UpdateCaseInput, actor domain.Principal) (*domain.Case, error)
	// Delete is a hard delete. Callers must restrict it to staff/admin
	// before invoking; the service does not re-check the role.
	Delete(ctx context.Context, id string, actor domain.Principal) error
	Timeline(ctx context.Context, id string, page PageRequest, actor domain.Principal) (*ActivityPage, error)
}

// CaseRepository defines persistence for cases. Create assigns the id and
// the sequenced case number store-side and fills them into c.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	List(ctx context.Context, f CaseFilter) ([]domain.Case, int64, error)
	Update(ctx context.Context, id string, patch UpdateCaseInput) (*domain.Case, error)
	Delete(ctx context.Context, id string) error
}
