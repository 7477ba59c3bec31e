package ports

import (
	"context"
	"time"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// CreateSubscriptionInput carries the fields required to open a subscription.
type CreateSubscriptionInput struct {
	ClientID string
	PlanCode string
	RenewsAt *time.Time
}

// UpdateSubscriptionInput is a sparse patch.
type UpdateSubscriptionInput struct {
	PlanCode domain.Optional[string]
	Status   domain.Optional[string]
	RenewsAt domain.Optional[time.Time]
}

// Empty reports whether the patch contains no fields at all.
func (p UpdateSubscriptionInput) Empty() bool {
	return !p.PlanCode.Set && !p.Status.Set && !p.RenewsAt.Set
}

// ListSubscriptionsInput carries list filters before narrowing.
type ListSubscriptionsInput struct {
	Page     PageRequest
	Sort     Sort
	ClientID string
	Status   string
	PlanCode string
}

// SubscriptionFilter is the repository-level predicate.
type SubscriptionFilter struct {
	ClientID   string
	Status     string
	PlanCode   string
	SortColumn string
	SortDesc   bool
	Offset     int
	Limit      int
}

// SubscriptionPage is one page of subscriptions.
type SubscriptionPage struct {
	Items []domain.Subscription
	Meta  PageMeta
}

// CreateInvoiceInput carries the fields required to raise an invoice
// against a subscription.
type CreateInvoiceInput struct {
	AmountCents int64
	Currency    string
	Issue       bool // issue immediately instead of leaving a draft
}

// UpdateInvoiceInput moves an invoice through its lifecycle. Status is the
// only mutable field; amount and currency are immutable once raised.
type UpdateInvoiceInput struct {
	Status domain.Optional[string]
}

// Empty reports whether the patch contains no fields at all.
func (p UpdateInvoiceInput) Empty() bool {
	return !p.Status.Set
}

// SubscriptionService is the mutation path for subscriptions and their
// invoices.
type SubscriptionService interface {
	Create(ctx context.Context, in CreateSubscriptionInput, actor domain.Principal) (*domain.Subscription, error)
	Get(ctx context.Context, id string, actor domain.Principal) (*domain.Subscription, error)
	List(ctx context.Context, in ListSubscriptionsInput, actor domain.Principal) (*SubscriptionPage, error)
	Update(ctx context.Context, id string, patch UpdateSubscriptionInput, actor domain.Principal) (*domain.Subscription, error)
	// Delete is staff/admin only, enforced by the caller.
	Delete(ctx context.Context, id string, actor domain.Principal) error
	Timeline(ctx context.Context, id string, page PageRequest, actor domain.Principal) (*ActivityPage, error)

	CreateInvoice(ctx context.Context, subscriptionID string, in CreateInvoiceInput, actor domain.Principal) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, subscriptionID, invoiceID string, in UpdateInvoiceInput, actor domain.Principal) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, subscriptionID string, page PageRequest, actor domain.Principal) ([]domain.Invoice, PageMeta, error)
}

// SubscriptionRepository defines persistence for subscriptions and invoices.
// CreateInvoice assigns the sequenced invoice number store-side.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	List(ctx context.Context, f SubscriptionFilter) ([]domain.Subscription, int64, error)
	Update(ctx context.Context, id string, patch UpdateSubscriptionInput) (*domain.Subscription, error)
	Delete(ctx context.Context, id string) error

	CreateInvoice(ctx context.Context, inv *domain.Invoice) error
	GetInvoiceByID(ctx context.Context, id string) (*domain.Invoice, error)
	// UpdateInvoice applies the status patch; issuing stamps issued_at once,
	// payment stamps paid_at once.
	UpdateInvoice(ctx context.Context, id string, patch UpdateInvoiceInput) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, subscriptionID string, page PageRequest) ([]domain.Invoice, int64, error)
}
