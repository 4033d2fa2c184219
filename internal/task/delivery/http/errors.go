package http

import (
	"errors"
	"net/http"

	"scheduling-assistant/internal/task"
	pkgErrors "scheduling-assistant/pkg/errors"
)

var (
	errInvalidDate = pkgErrors.NewHTTPError(http.StatusBadRequest, "dates must be YYYY-MM-DD")
	errMissingID   = pkgErrors.NewHTTPError(http.StatusBadRequest, "id is required")
)

// mapError translates use-case errors into HTTP errors from pkg/errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return pkgErrors.NewHTTPError(http.StatusNotFound, "task not found")
	case errors.Is(err, task.ErrEmptyQuery):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "search query is empty")
	case errors.Is(err, task.ErrInvalidRange):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "from must not be after to")
	case errors.Is(err, task.ErrInvalidStatus):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "status must be pending, completed or cancelled")
	default:
		return pkgErrors.ErrInternalServerError
	}
}
