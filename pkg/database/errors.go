package database

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes surfaced by the storage layer.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// IsUniqueViolation reports whether err carries a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err carries a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// Constraint returns the violated constraint name, if any.
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
