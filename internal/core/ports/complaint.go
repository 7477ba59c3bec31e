package ports

import (
	"context"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// CreateComplaintInput carries the fields required to file a complaint.
type CreateComplaintInput struct {
	ClientID    string
	Subject     string
	Description string
}

// UpdateComplaintInput is a sparse patch.
type UpdateComplaintInput struct {
	Subject         domain.Optional[string]
	Description     domain.Optional[string]
	Status          domain.Optional[string]
	ResolutionNotes domain.Optional[string]
}

// Empty reports whether the patch contains no fields at all.
func (p UpdateComplaintInput) Empty() bool {
	return !p.Subject.Set && !p.Description.Set && !p.Status.Set && !p.ResolutionNotes.Set
}

// ListComplaintsInput carries list filters before access-control narrowing.
type ListComplaintsInput struct {
	Page     PageRequest
	Sort     Sort
	ClientID string
	Status   string
	Search   string
}

// ComplaintFilter is the repository-level predicate.
type ComplaintFilter struct {
	ClientID   string
	Status     string
	Search     string
	SortColumn string
	SortDesc   bool
	Offset     int
	Limit      int
}

// ComplaintPage is one page of complaints.
type ComplaintPage struct {
	Items []domain.Complaint
	Meta  PageMeta
}

// ComplaintService is the mutation path for the complaint family.
type ComplaintService interface {
	Create(ctx context.Context, in CreateComplaintInput, actor domain.Principal) (*domain.Complaint, error)
	Get(ctx context.Context, id string, actor domain.Principal) (*domain.Complaint, error)
	List(ctx context.Context, in ListComplaintsInput, actor domain.Principal) (*ComplaintPage, error)
	Update(ctx context.Context, id string, patch UpdateComplaintInput, actor domain.Principal) (*domain.Complaint, error)
	// Delete is staff/admin only, enforced by the caller.
	Delete(ctx context.Context, id string, actor domain.Principal) error
	Timeline(ctx context.Context, id string, page PageRequest, actor domain.Principal) (*ActivityPage, error)
}

// ComplaintRepository defines persistence for complaints.
type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, f ComplaintFilter) ([]domain.Complaint, int64, error)
	Update(ctx context.Context, id string, patch UpdateComplaintInput) (*domain.Complaint, error)
	Delete(ctx context.Context, id string) error
}
