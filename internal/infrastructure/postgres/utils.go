package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether an error is a unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// nullIfEmpty maps "" to NULL for optional foreign key columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// emptyIfNull maps a scanned nullable text column back to "".
func emptyIfNull(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
