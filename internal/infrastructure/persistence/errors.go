package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// wrapDBError converts driver failures into a DependencyError so the cause
// reaches the logs while callers only see a retryable message. Domain errors
// pass through untouched.
func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return shared.NewDependencyError("REQUEST_CANCELLED", err)
	}
	return shared.NewDependencyError("STORAGE_ERROR", err)
}

// isUniqueViolation recognises duplicate key failures from postgres and sqlite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
