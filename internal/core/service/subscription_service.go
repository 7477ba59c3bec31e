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

var subscriptionSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"status":     "status",
	"plan_code":  "plan_code",
	"renews_at":  "renews_at",
}

// SubscriptionService orchestrates subscriptions and their invoices.
type SubscriptionService struct {
	repo     ports.SubscriptionRepository
	activity ports.ActivityRepository
	recorder ports.ActivityRecorder
	log      zerolog.Logger
}

func NewSubscriptionService(repo ports.SubscriptionRepository, activity ports.ActivityRepository, recorder ports.ActivityRecorder, log zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, activity: activity, recorder: recorder, log: log}
}

func (s *SubscriptionService) Create(ctx context.Context, in ports.CreateSubscriptionInput, actor domain.Principal) (*domain.Subscription, error) {
	if in.ClientID == "" || in.PlanCode == "" {
		return nil, domain.Validationf("client_id and plan_code are required")
	}
	if !actor.CanAccess(in.ClientID) {
		return nil, fmt.Errorf("create subscription: %w", domain.ErrForbidden)
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ClientID:  in.ClientID,
		PlanCode:  in.PlanCode,
		Status:    domain.SubscriptionPending,
		RenewsAt:  in.RenewsAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		s.log.Error().Err(err).Str("client_id", in.ClientID).Msg("failed to create subscription")
		return nil, err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues("subscription").Inc()

	s.recorder.Record(ctx, ports.ActivityInput{
		ParentID:    sub.ID,
		Kind:        domain.ActivityCreated,
		Title:       "Subscription opened",
		Description: sub.PlanCode,
		ActorID:     actor.ID,
	})

	s.log.Info().Str("subscription_id", sub.ID).Str("plan_code", sub.PlanCode).Msg("subscription created")
	return sub, nil
}

func (s *SubscriptionService) Get(ctx context.Context, id string, actor domain.Principal) (*domain.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(sub.ClientID) {
		return nil, fmt.Errorf("get subscription: %w", domain.ErrForbidden)
	}
	return sub, nil
}

func (s *SubscriptionService) List(ctx context.Context, in ports.ListSubscriptionsInput, actor domain.Principal) (*ports.SubscriptionPage, error) {
	page := in.Page.Normalize()
	f := ports.SubscriptionFilter{
		ClientID:   in.ClientID,
		Status:     in.Status,
		PlanCode:   in.PlanCode,
		SortColumn: sortColumn(subscriptionSortColumns, in.Sort.Column),
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
	return &ports.SubscriptionPage{Items: items, Meta: ports.NewPageMeta(page, total)}, nil
}

// Update applies a sparse patch. Activating stamps started_at when unset;
// cancelling stamps cancelled_at.
func (s *SubscriptionService) Update(ctx context.Context, id string, patch ports.UpdateSubscriptionInput, actor domain.Principal) (*domain.Subscription, error) {
	current, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.Validationf("no fields to update")
	}
	if patch.PlanCode.Set && (patch.PlanCode.Null || patch.PlanCode.Value == "") {
		return nil, domain.Validationf("plan_code cannot be empty")
	}
	if patch.Status.Set {
		if patch.Status.Null {
			return nil, domain.Validationf("status cannot be null")
		}
		st := domain.SubscriptionStatus(patch.Status.Value)
		if !st.Valid() {
			return nil, domain.Validationf("unknown subscription status %q", patch.Status.Value)
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

// Delete hard-deletes a subscription. Staff/admin only, enforced by the
// caller. Invoices cascade at the store level.
func (s *SubscriptionService) Delete(ctx context.Context, id string, actor domain.Principal) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("subscription_id", id).Str("actor_id", actor.ID).Msg("subscription deleted")
	return nil
}

func (s *SubscriptionService) Timeline(ctx context.Context, id string, page ports.PageRequest, actor domain.Principal) (*ports.ActivityPage, error) {
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

// CreateInvoice raises an invoice against the subscription. The invoice
// number is assigned store-side.
func (s *SubscriptionService) CreateInvoice(ctx context.Context, subscriptionID string, in ports.CreateInvoiceInput, actor domain.Principal) (*domain.Invoice, error) {
	sub, err := s.Get(ctx, subscriptionID, actor)
	if err != nil {
		return nil, err
	}
	if in.AmountCents <= 0 {
		return nil, domain.Validationf("amount_cents must be positive")
	}
	if in.Currency == "" {
		return nil, domain.Validationf("currency is required")
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		SubscriptionID: sub.ID,
		ClientID:       sub.ClientID,
		AmountCents:    in.AmountCents,
		Currency:       in.Currency,
		Status:         domain.InvoiceDraft,
		CreatedAt:      now,
	}
	if in.Issue {
		inv.Status = domain.InvoiceIssued
		inv.IssuedAt = &now
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		s.log.Error().Err(err).Str("subscription_id", sub.ID).Msg("failed to create invoice")
		return nil, err
	}
	metrics.ResourcesCreatedTotal.WithLabelValues("invoice").Inc()

	if inv.Status == domain.InvoiceIssued {
		s.recorder.Record(ctx, ports.ActivityInput{
			ParentID:    sub.ID,
			Kind:        domain.ActivityInvoiceIssued,
			Title:       "Invoice issued",
			Description: inv.InvoiceNumber,
			ActorID:     actor.ID,
		})
	}

	s.log.Info().Str("invoice_number", inv.InvoiceNumber).Str("subscription_id", sub.ID).Msg("invoice created")
	return inv, nil
}

// UpdateInvoice moves an invoice through its lifecycle. Issuing stamps
// issued_at once; payment stamps paid_at once, both store-side.
func (s *SubscriptionService) UpdateInvoice(ctx context.Context, subscriptionID, invoiceID string, in ports.UpdateInvoiceInput, actor domain.Principal) (*domain.Invoice, error) {
	sub, err := s.Get(ctx, subscriptionID, actor)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	// An invoice id under the wrong subscription is indistinguishable from a
	// missing one.
	if current.SubscriptionID != sub.ID {
		return nil, fmt.Errorf("update invoice: %w", domain.ErrNotFound)
	}
	if in.Empty() {
		return nil, domain.Validationf("no fields to update")
	}
	if in.Status.Null {
		return nil, domain.Validationf("status cannot be null")
	}
	if st := domain.InvoiceStatus(in.Status.Value); !st.Valid() {
		return nil, domain.Validationf("unknown invoice status %q", in.Status.Value)
	}

	updated, err := s.repo.UpdateInvoice(ctx, invoiceID, in)
	if err != nil {
		return nil, err
	}

	if updated.Status == domain.InvoiceIssued && current.Status != domain.InvoiceIssued {
		s.recorder.Record(ctx, ports.ActivityInput{
			ParentID:    sub.ID,
			Kind:        domain.ActivityInvoiceIssued,
			Title:       "Invoice issued",
			Description: updated.InvoiceNumber,
			ActorID:     actor.ID,
		})
	}

	s.log.Info().
		Str("invoice_number", updated.InvoiceNumber).
		Str("status", string(updated.Status)).
		Msg("invoice updated")
	return updated, nil
}

// ListInvoices pages through a subscription's invoices, newest first.
func (s *SubscriptionService) ListInvoices(ctx context.Context, subscriptionID string, page ports.PageRequest, actor domain.Principal) ([]domain.Invoice, ports.PageMeta, error) {
	if _, err := s.Get(ctx, subscriptionID, actor); err != nil {
		return nil, ports.PageMeta{}, err
	}
	page = page.Normalize()
	items, total, err := s.repo.ListInvoices(ctx, subscriptionID, page)
	if err != nil {
		return nil, ports.PageMeta{}, err
	}
	return items, ports.NewPageMeta(page, total), nil
}
