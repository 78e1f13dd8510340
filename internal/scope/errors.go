package scope

import (
	"errors"
	"net/http"
)

// Failure taxonomy shared by every scoped operation. Handlers map these to
// HTTP statuses; services never coerce them into empty results except for the
// self-service personal reads documented on the tenant endpoints.
var (
	// ErrUnauthorized means no actor was resolved for the request.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the actor is known but its scope excludes the target.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the entity, or a link in its ownership chain, is missing.
	// Callers must treat this as a deny, never as an implicit allow.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means a lifecycle precondition was violated, e.g. a
	// check-out on a visitor that already left.
	ErrInvalidState = errors.New("invalid state")
)

// HTTPStatus maps a taxonomy error to its response status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
