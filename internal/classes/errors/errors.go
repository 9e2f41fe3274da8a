package errors

import "errors"

var (
	ErrNotFound = errors.New("class not found")

	ErrInvalidID = errors.New("invalid class ID format")

	ErrSignupNotFound = errors.New("signup not found or already canceled")
)
