package services

import (
	"errors"
)

// Caller-visible error classes. Handlers map these to HTTP status codes;
// anything else is an internal storage failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
)
