package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows is not found", sql.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), domain.ErrNotFound},
		{"unique violation is validation", &pq.Error{Code: "23505", Constraint: "auth_identities_email_key"}, domain.ErrValidation},
		{"fk violation is validation", &pq.Error{Code: "23503"}, domain.ErrValidation},
		{"check violation is validation", &pq.Error{Code: "23514"}, domain.ErrValidation},
		{"other pq error is storage", &pq.Error{Code: "57014"}, domain.ErrStorage},
		{"plain error is storage", errors.New("connection reset"), domain.ErrStorage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapError("op", tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapError_ValidationMessageNamesConstraint(t *testing.T) {
	err := mapError("create client", &pq.Error{Code: "23505", Constraint: "auth_identities_email_key"})
	assert.Contains(t, err.Error(), "auth_identities_email_key")
}
