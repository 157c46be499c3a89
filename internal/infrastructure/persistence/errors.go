package persistence

import (
	"errors"
	"strings"

	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the postgres SQLSTATE for a unique constraint violation
const uniqueViolation = "23505"

// translateError maps GORM and driver errors to the domain sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case isUniqueViolation(err):
		return shared.ErrAlreadyExists
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	msg := err.Error()
	// pgx and sqlite report violations only through the message
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
