package domain

import "time"

// SubscriptionStatus is the lifecycle state of a service subscription.
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Valid reports whether s is a known subscription status.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionPending, SubscriptionActive, SubscriptionPastDue, SubscriptionCancelled, SubscriptionExpired:
		return true
	}
	return false
}

// Subscription is a recurring plan held by a client. Billing itself lives in
// the payment gateway; only the subscription record and its invoices are
// kept here.
type Subscription struct {
	ID          string             `json:"id"`
	ClientID    string             `json:"client_id"`
	PlanCode    string             `json:"plan_code"`
	Status      SubscriptionStatus `json:"status"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	RenewsAt    *time.Time         `json:"renews_at,omitempty"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	ClientName string `json:"client_name,omitempty"`
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceVoid:
		return true
	}
	return false
}

// Invoice is an auto-numbered billing record attached to a subscription.
type Invoice struct {
	ID             string        `json:"id"`
	InvoiceNumber  string        `json:"invoice_number"`
	SubscriptionID string        `json:"subscription_id"`
	ClientID       string        `json:"client_id"`
	AmountCents    int64         `json:"amount_cents"`
	Currency       string        `json:"currency"`
	Status         InvoiceStatus `json:"status"`
	IssuedAt       *time.Time    `json:"issued_at,omitempty"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
