package postgres

import (
	"strings"

	domainerrors "ministry/internal/domain/errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for PostgreSQL error checking. The SQLite driver translates into the same gorm errors.
func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}

func isCheckConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated)
}

// writeError maps a failed insert or update to a domain error.
// conflict is returned on a unique violation and reference on a foreign key violation when set.
func writeError(err error, conflict, reference error, details string) error {
	switch {
	case conflict != nil && isUniqueConstraintViolation(err):
		return conflict
	case reference != nil && isForeignKeyConstraintViolation(err):
		return reference
	case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
		return domainerrors.ErrValidationFailed.WithDetails(details)
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

// readError maps a failed lookup, returning notFound for a missing row.
func readError(err error, notFound error, details string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}
