package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"dods-cars-backend/internal/domain"

	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes the repositories interpret.
const (
	codeForeignKeyViolation pq.ErrorCode = "23503"
	codeCheckViolation      pq.ErrorCode = "23514"
	codeExclusionViolation  pq.ErrorCode = "23P01"
)

// mapError turns driver errors into domain errors. Errors that already carry
// a domain kind pass through untouched.
func mapError(err error, op string, args ...any) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	msg := fmt.Sprintf(op, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("%s: not found", msg)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeExclusionViolation:
			e := domain.NewError(domain.KindBookingConflict, "%s: overlaps an approved booking", msg)
			e.Err = err
			return e
		case codeForeignKeyViolation:
			e := domain.NotFound("%s: referenced record does not exist", msg)
			e.Err = err
			return e
		case codeCheckViolation:
			e := domain.InvalidRange("%s: %s", msg, pqErr.Constraint)
			e.Err = err
			return e
		}
	}
	return domain.Infrastructure(err, "%s", msg)
}

// expectAffected reports NotFound when an update or delete touched no row.
func expectAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Infrastructure(err, "rows affected")
	}
	if n == 0 {
		return domain.NotFound("%s %d not found", what, id)
	}
	return nil
}
