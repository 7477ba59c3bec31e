package ports

import (
	"context"
	"time"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// CreateConsultationInput carries the fields required to request a
// consultation.
type CreateConsultationInput struct {
	ClientID     string
	Topic        string
	Notes        string
	ScheduledAt  *time.Time
	DurationMins int
	AttorneyID   string
}

// UpdateConsultationInput is a sparse patch.
type UpdateConsultationInput struct {
	Topic        domain.Optional[string]
	Notes        domain.Optional[string]
	Status       domain.Optional[string]
	ScheduledAt  domain.Optional[time.Time]
	DurationMins domain.Optional[int]
	AttorneyID   domain.Optional[string]
}

// Empty reports whether the patch contains no fields at all.
func (p UpdateConsultationInput) Empty() bool {
	return !p.Topic.Set && !p.Notes.Set && !p.Status.Set &&
		!p.ScheduledAt.Set && !p.DurationMins.Set && !p.AttorneyID.Set
}

// ListConsultationsInput carries list filters before narrowing.
type ListConsultationsInput struct {
	Page       PageRequest
	Sort       Sort
	ClientID   string
	Status     string
	AttorneyID string
	Search     string
}

// ConsultationFilter is the repository-level predicate.
type ConsultationFilter struct {
	ClientID   string
	Status     string
	AttorneyID string
	Search     string
	SortColumn string
	SortDesc   bool
	Offset     int
	Limit      int
}

// ConsultationPage is one page of consultations.
type ConsultationPage struct {
	Items []domain.Consultation
	Meta  PageMeta
}

// ConsultationService is the mutation path for the consultation family.
type ConsultationService interface {
	Create(ctx context.Context, in CreateConsultationInput, actor domain.Principal) (*domain.Consultation, error)
	Get(ctx context.Context, id string, actor domain.Principal) (*domain.Consultation, error)
	List(ctx context.Context, in ListConsultationsInput, actor domain.Principal) (*ConsultationPage, error)
	Update(ctx context.Context, id string, patch UpdateConsultationInput, actor domain.Principal) (*domain.Consultation, error)
	// Delete is staff/admin only, enforced by the caller.
	Delete(ctx context.Context, id string, actor domain.Principal) error
	Timeline(ctx context.Context, id string, page PageRequest, actor domain.Principal) (*ActivityPage, error)
}

// ConsultationRepository defines persistence for consultations.
type ConsultationRepository interface {
	Create(ctx context.Context, c *domain.Consultation) error
	GetByID(ctx context.Context, id string) (*domain.Consultation, error)
	List(ctx context.Context, f ConsultationFilter) ([]domain.Consultation, int64, error)
	Update(ctx context.Context, id string, patch UpdateConsultationInput) (*domain.Consultation, error)
	Delete(ctx context.Context, id string) error
}
