package services

import (
	"errors"
	"net/http"
)

// Error taxonomy for the moderation pipeline. Controllers map these onto
// HTTP statuses; everything not in the set is treated as an internal
// storage failure, which callers may retry.
var (
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidAction       = errors.New("invalid action")
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateActiveItem = errors.New("duplicate active item")
	ErrConflict            = errors.New("conflict")
	ErrRateLimited         = errors.New("rate limited")
	ErrNoStableRevision    = errors.New("no stable revision")
	ErrInvalidExpert       = errors.New("invalid expert")
	ErrInternal            = errors.New("internal error")
)

// ErrorCode returns the stable machine-readable code for an error, used in
// bulk results and API bodies.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrInvalidAction):
		return "INVALID_ACTION"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicateActiveItem):
		return "DUPLICATE_ACTIVE_ITEM"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrNoStableRevision):
		return "NO_STABLE_REVISION"
	case errors.Is(err, ErrInvalidExpert):
		return "INVALID_EXPERT"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus maps an error to its response status. Single-item endpoints
// must fail specifically, never with a generic 500 when a 4xx applies.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidAction), errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidExpert):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoStableRevision):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateActiveItem), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
