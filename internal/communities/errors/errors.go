package errors

import "errors"

var (
	ErrNotFound  = errors.New("community not found")
	ErrSlugTaken = errors.New("community slug already exists")
)
