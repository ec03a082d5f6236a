package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATEs raised by the no-double-booking guards: 23P01 when the
// appointments exclusion constraint rejects an overlapping insert, 23505 for
// plain unique violations.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// IsExclusionConflict reports whether err is the database refusing an insert
// that would overlap an existing appointment. The constraint is the last line
// of defense behind the advisory-lock transaction.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation
}
