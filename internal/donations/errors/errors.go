package errors

import "errors"

var (
	ErrNotFound = errors.New("donation not found")

	ErrInvalidID = errors.New("invalid donation ID format")
)
