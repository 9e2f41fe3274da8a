package errors

import "errors"

var (
	ErrNotFound  = errors.New("city not found")
	ErrSlugTaken = errors.New("city slug already exists")
)
