package http

import (
	"errors"
	"net/http"

	"scheduling-assistant/internal/scheduler"
	pkgErrors "scheduling-assistant/pkg/errors"
)

var errMissingOperation = pkgErrors.NewHTTPError(http.StatusBadRequest, "intent.operation is required")

// mapError translates use-case errors into HTTP errors from pkg/errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrMissingSessionID):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "session id is required")
	case errors.Is(err, scheduler.ErrUnknownOperation):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, scheduler.ErrSessionNotFound):
		return pkgErrors.NewHTTPError(http.StatusNotFound, "session not found")
	case errors.Is(err, scheduler.ErrStoreUnavailable):
		return pkgErrors.NewHTTPError(http.StatusServiceUnavailable, "task store unavailable, please retry")
	default:
		return pkgErrors.ErrInternalServerError
	}
}
