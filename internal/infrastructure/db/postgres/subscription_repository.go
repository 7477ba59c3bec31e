package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

const subscriptionColumns = `
	s.id, s.client_id, s.plan_code, s.status, s.started_at, s.renews_at,
	s.cancelled_at, s.created_at, s.updated_at,
	COALESCE(up.full_name, '') AS client_name`

const subscriptionJoins = `
	FROM subscriptions s
	LEFT JOIN client_profiles cp ON cp.id = s.client_id
	LEFT JOIN user_profiles up ON up.id = cp.profile_id`

const invoiceColumns = `
	id, invoice_number, subscription_id, client_id, amount_cents,
	currency, status, issued_at, paid_at, created_at`

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	s.ID = uuid.NewString()
	const query = `
		INSERT INTO subscriptions (id, client_id, plan_code, status, renews_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ClientID, s.PlanCode, s.Status, s.RenewsAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return mapError("create subscription", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	query := "SELECT" + subscriptionColumns + subscriptionJoins + " WHERE s.id = $1"
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get subscription", err)
	}
	return s, nil
}

func (r *SubscriptionRepository) List(ctx context.Context, f ports.SubscriptionFilter) ([]domain.Subscription, int64, error) {
	b := &condBuilder{}
	if f.ClientID != "" {
		b.add("s.client_id = $%[1]d", f.ClientID)
	}
	if f.Status != "" {
		b.add("s.status = $%[1]d", f.Status)
	}
	if f.PlanCode != "" {
		b.add("s.plan_code = $%[1]d", f.PlanCode)
	}

	var total int64
	countQuery := "SELECT COUNT(*)" + subscriptionJoins + b.where()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count subscriptions", err)
	}

	query := "SELECT" + subscriptionColumns + subscriptionJoins + b.where() +
		orderBy("s."+f.SortColumn, f.SortDesc) +
		" LIMIT " + b.next(1) + " OFFSET " + b.next(2)
	rows, err := r.db.QueryContext(ctx, query, append(b.args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, mapError("list subscriptions", err)
	}
	defer rows.Close()

	var items []domain.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, 0, mapError("list subscriptions", err)
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list subscriptions", err)
	}
	return items, total, nil
}

// Update applies the patch. Activation stamps started_at once; cancellation
// stamps cancelled_at.
func (r *SubscriptionRepository) Update(ctx context.Context, id string, patch ports.UpdateSubscriptionInput) (*domain.Subscription, error) {
	b := &setBuilder{}
	setText(b, "plan_code", patch.PlanCode)
	setText(b, "status", patch.Status)
	setNullable(b, "renews_at", patch.RenewsAt)
	if patch.Status.Set && !patch.Status.Null {
		switch domain.SubscriptionStatus(patch.Status.Value) {
		case domain.SubscriptionActive:
			b.raw("started_at = COALESCE(started_at, now())")
		case domain.SubscriptionCancelled:
			b.raw("cancelled_at = now()")
		}
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	b.raw("updated_at = now()")

	b.args = append(b.args, id)
	query := "UPDATE subscriptions SET " + b.clause() + " WHERE id = " + placeholder(len(b.args)) + " RETURNING id"
	var updated string
	if err := r.db.QueryRowContext(ctx, query, b.args...).Scan(&updated); err != nil {
		return nil, mapError("update subscription", err)
	}
	return r.GetByID(ctx, id)
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = $1", id)
	if err != nil {
		return mapError("delete subscription", err)
	}
	return requireAffected("delete subscription", res)
}

// CreateInvoice inserts the invoice and allocates its invoice number in one
// transaction.
func (r *SubscriptionRepository) CreateInvoice(ctx context.Context, inv *domain.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("create invoice", err)
	}
	defer tx.Rollback()

	number, err := nextReference(ctx, tx, domain.PrefixInvoice, inv.CreatedAt.Year())
	if err != nil {
		return mapError("create invoice", err)
	}
	inv.ID = uuid.NewString()
	inv.InvoiceNumber = number

	const query = `
		INSERT INTO invoices (id, invoice_number, subscription_id, client_id,
			amount_cents, currency, status, issued_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.ExecContext(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.SubscriptionID, inv.ClientID,
		inv.AmountCents, inv.Currency, inv.Status, inv.IssuedAt, inv.CreatedAt)
	if err != nil {
		return mapError("create invoice", err)
	}
	if err := tx.Commit(); err != nil {
		return mapError("create invoice", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetInvoiceByID(ctx context.Context, id string) (*domain.Invoice, error) {
	query := "SELECT" + invoiceColumns + " FROM invoices WHERE id = $1"
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get invoice", err)
	}
	return inv, nil
}

// UpdateInvoice applies the status patch. Issuing stamps issued_at once;
// payment stamps paid_at once.
func (r *SubscriptionRepository) UpdateInvoice(ctx context.Context, id string, patch ports.UpdateInvoiceInput) (*domain.Invoice, error) {
	b := &setBuilder{}
	setText(b, "status", patch.Status)
	if patch.Status.Set && !patch.Status.Null {
		switch domain.InvoiceStatus(patch.Status.Value) {
		case domain.InvoiceIssued:
			b.raw("issued_at = COALESCE(issued_at, now())")
		case domain.InvoicePaid:
			b.raw("paid_at = COALESCE(paid_at, now())")
		}
	}
	if b.empty() {
		return r.GetInvoiceByID(ctx, id)
	}

	b.args = append(b.args, id)
	query := "UPDATE invoices SET " + b.clause() + " WHERE id = " + placeholder(len(b.args)) + " RETURNING id"
	var updated string
	if err := r.db.QueryRowContext(ctx, query, b.args...).Scan(&updated); err != nil {
		return nil, mapError("update invoice", err)
	}
	return r.GetInvoiceByID(ctx, id)
}

func (r *SubscriptionRepository) ListInvoices(ctx context.Context, subscriptionID string, page ports.PageRequest) ([]domain.Invoice, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invoices WHERE subscription_id = $1", subscriptionID).Scan(&total)
	if err != nil {
		return nil, 0, mapError("count invoices", err)
	}

	query := "SELECT" + invoiceColumns + `
		FROM invoices
		WHERE subscription_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, subscriptionID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, mapError("list invoices", err)
	}
	defer rows.Close()

	var items []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, mapError("list invoices", err)
		}
		items = append(items, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list invoices", err)
	}
	return items, total, nil
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.SubscriptionID, &inv.ClientID,
		&inv.AmountCents, &inv.Currency, &inv.Status, &inv.IssuedAt,
		&inv.PaidAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func scanSubscription(row rowScanner) (*domain.Subscription, error) {
	var s domain.Subscription
	err := row.Scan(
		&s.ID, &s.ClientID, &s.PlanCode, &s.Status, &s.StartedAt, &s.RenewsAt,
		&s.CancelledAt, &s.CreatedAt, &s.UpdatedAt,
		&s.ClientName,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
