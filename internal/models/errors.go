package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrHorseNotFound = errors.New("horse not found")
	ErrInvalidID     = errors.New("invalid ID format")
)
