package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the usecases react to.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	return hasPgCode(err, pgUniqueViolation, constraintName)
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name. An empty name matches any constraint.
func isForeignKeyError(err error, constraintName string) bool {
	return hasPgCode(err, pgForeignKeyViolation, constraintName)
}

// isSlotConflictError reports a booking that lost a race for the same slot:
// either the overlap exclusion constraint fired or the transaction could not
// be serialized.
func isSlotConflictError(err error) bool {
	return hasPgCode(err, pgExclusionViolation, "") || hasPgCode(err, pgSerializationFailure, "")
}

func hasPgCode(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraintName == "" ||
		strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
}
