package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// nextReference atomically allocates the next counter for (prefix, year) and
// renders the reference. It must run inside the transaction that inserts the
// numbered row, so concurrent creations serialize on the counter row and a
// rolled-back insert releases its number only if nothing newer committed.
// Counters are never derived from MAX() over existing rows.
func nextReference(ctx context.Context, tx *sql.Tx, prefix string, year int) (string, error) {
	const query = `
		INSERT INTO reference_counters (prefix, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year)
		DO UPDATE SET value = reference_counters.value + 1
		RETURNING value`

	var n int
	if err := tx.QueryRowContext(ctx, query, prefix, year).Scan(&n); err != nil {
		return "", fmt.Errorf("allocate %s reference: %w", prefix, err)
	}
	return domain.FormatReference(prefix, year, n), nil
}
