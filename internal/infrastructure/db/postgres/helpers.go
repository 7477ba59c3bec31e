package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// condBuilder accumulates WHERE predicates with positional arguments. The
// same builder feeds both the COUNT and the page query of a listing, so the
// total always agrees with the rows returned.
type condBuilder struct {
	conds []string
	args  []any
}

// add appends a predicate. expr uses $%[1]d for the argument position, which
// may appear more than once (e.g. one search term across several columns).
func (b *condBuilder) add(expr string, val any) {
	b.args = append(b.args, val)
	b.conds = append(b.conds, fmt.Sprintf(expr, len(b.args)))
}

func (b *condBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// next returns the positional placeholder following the current arguments,
// for LIMIT/OFFSET appended after the builder's own args.
func (b *condBuilder) next(offset int) string {
	return fmt.Sprintf("$%d", len(b.args)+offset)
}

// setBuilder accumulates SET clauses for a sparse update.
type setBuilder struct {
	sets []string
	args []any
}

func (b *setBuilder) set(col string, val any) {
	b.args = append(b.args, val)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

// raw appends a clause with no argument, e.g. "updated_at = now()".
func (b *setBuilder) raw(clause string) {
	b.sets = append(b.sets, clause)
}

func (b *setBuilder) empty() bool {
	return len(b.sets) == 0
}

func (b *setBuilder) clause() string {
	return strings.Join(b.sets, ", ")
}

// setText handles a NOT NULL text column: an explicit null clears it to the
// empty string.
func setText(b *setBuilder, col string, o domain.Optional[string]) {
	if !o.Set {
		return
	}
	if o.Null {
		b.set(col, "")
		return
	}
	b.set(col, o.Value)
}

// setNullable handles a nullable column: an explicit null stores SQL NULL.
func setNullable[T any](b *setBuilder, col string, o domain.Optional[T]) {
	if !o.Set {
		return
	}
	if o.Null {
		b.raw(col + " = NULL")
		return
	}
	b.set(col, o.Value)
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// requireAffected turns a zero-row write into a NotFound.
func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func orderBy(column string, desc bool) string {
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	return " ORDER BY " + column + dir
}
