package task

import (
	"errors"
	"fmt"
)

// Domain-specific errors for the task package.
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrEmptyQuery    = errors.New("search query is empty")
	ErrInvalidRange  = errors.New("invalid date range")
	ErrInvalidStatus = errors.New("invalid status")
)

// ValidationError reports a task that breaks a record invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
