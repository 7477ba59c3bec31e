package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// PostgreSQL error codes translated to validation failures. Constraint
// violations are caller errors (bad reference, duplicate value), not storage
// faults.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// mapError translates a store error into one of the domain failure kinds.
// No raw driver error leaves this package unwrapped.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation:
			return domain.Validationf("%s: duplicate value for %s", op, pqErr.Constraint)
		case codeForeignKeyViolation:
			return domain.Validationf("%s: referenced resource does not exist", op)
		case codeCheckViolation:
			return domain.Validationf("%s: value rejected by constraint %s", op, pqErr.Constraint)
		}
	}
	return domain.Storagef(op, err)
}
