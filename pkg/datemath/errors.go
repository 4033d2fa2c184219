package datemath

import "errors"

var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidNumber   = errors.New("invalid number")
)
