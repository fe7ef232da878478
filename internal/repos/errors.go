package repos

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("repos: duplicate row")

// ErrNotFound is returned by lookups that require the row to exist.
var ErrNotFound = errors.New("repos: not found")

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// mapped translates driver-level duplicate errors into ErrDuplicate so
// callers never import pgconn.
func mapped(err error) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
