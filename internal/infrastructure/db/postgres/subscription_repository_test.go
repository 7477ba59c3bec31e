package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

var invoiceRowColumns = []string{
	"id", "invoice_number", "subscription_id", "client_id", "amount_cents",
	"currency", "status", "issued_at", "paid_at", "created_at",
}

func TestSubscriptionRepository_UpdateInvoice_PaymentStampsPaidAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE invoices SET status = \$1, paid_at = COALESCE\(paid_at, now\(\)\) WHERE id = \$2`).
		WithArgs("paid", "inv_1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("inv_1"))
	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WithArgs("inv_1").
		WillReturnRows(sqlmock.NewRows(invoiceRowColumns).AddRow(
			"inv_1", "INV-2026-0007", "sub_1", "client_1", int64(5000),
			"EUR", "paid", now, now, now,
		))

	repo := NewSubscriptionRepository(db)
	inv, err := repo.UpdateInvoice(context.Background(), "inv_1", ports.UpdateInvoiceInput{
		Status: domain.Some(string(domain.InvoicePaid)),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, inv.Status)
	assert.NotNil(t, inv.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_UpdateInvoice_IssueStampsIssuedAtOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`UPDATE invoices SET status = \$1, issued_at = COALESCE\(issued_at, now\(\)\) WHERE id = \$2`).
		WithArgs("issued", "inv_1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("inv_1"))
	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WithArgs("inv_1").
		WillReturnRows(sqlmock.NewRows(invoiceRowColumns).AddRow(
			"inv_1", "INV-2026-0007", "sub_1", "client_1", int64(5000),
			"EUR", "issued", now, nil, now,
		))

	repo := NewSubscriptionRepository(db)
	inv, err := repo.UpdateInvoice(context.Background(), "inv_1", ports.UpdateInvoiceInput{
		Status: domain.Some(string(domain.InvoiceIssued)),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceIssued, inv.Status)
	assert.NotNil(t, inv.IssuedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_GetInvoiceByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WillReturnRows(sqlmock.NewRows(invoiceRowColumns))

	repo := NewSubscriptionRepository(db)
	_, err = repo.GetInvoiceByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
