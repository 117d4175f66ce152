package dto

import (
	"errors"
	"net/http"

	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
)

// Error codes produced by the transport itself. Domain errors are reported as
// ERR_ followed by their own code, e.g. ERR_DUPLICATE_PERIOD.
const (
	ErrCodeInternal          = "ERR_INTERNAL"
	ErrCodeBadRequest        = "ERR_BAD_REQUEST"
	ErrCodeValidation        = "ERR_VALIDATION"
	ErrCodeUnauthorized      = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired      = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid      = "ERR_TOKEN_INVALID"
	ErrCodeForbidden         = "ERR_FORBIDDEN"
	ErrCodeNotFound          = "ERR_NOT_FOUND"
	ErrCodeRequestInProgress = "ERR_REQUEST_IN_PROGRESS"
	ErrCodeRequestTooLarge   = "ERR_REQUEST_TOO_LARGE"
	ErrCodeTimeout           = "ERR_TIMEOUT"
	ErrCodeUnavailable       = "ERR_SERVICE_UNAVAILABLE"
)

// KindHTTPStatus maps domain error kinds to HTTP status codes
var KindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:          http.StatusBadRequest,
	shared.KindNotFound:            http.StatusNotFound,
	shared.KindConflict:            http.StatusConflict,
	shared.KindInsufficientBalance: http.StatusUnprocessableEntity,
	shared.KindAuthorization:       http.StatusForbidden,
	shared.KindDependency:          http.StatusServiceUnavailable,
}

// unauthenticatedCodes are authorization errors that mean "who are you"
// rather than "you may not"
var unauthenticatedCodes = map[string]bool{
	"UNAUTHENTICATED": true,
	"INVALID_ROLE":    true,
}

// GetHTTPStatus returns the HTTP status for an error kind, 500 when unknown
func GetHTTPStatus(kind shared.ErrorKind) int {
	if status, ok := KindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorCode prefixes a domain code for the wire
func ErrorCode(domainCode string) string {
	return "ERR_" + domainCode
}

// FromError converts any error into status, code and a caller-safe message.
// Errors that are not domain errors never leak their text.
func FromError(err error) (status int, code, message string) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred"
	}
	if de.Kind == shared.KindAuthorization && unauthenticatedCodes[de.Code] {
		return http.StatusUnauthorized, ErrorCode(de.Code), de.Message
	}
	return GetHTTPStatus(de.Kind), ErrorCode(de.Code), de.Message
}
