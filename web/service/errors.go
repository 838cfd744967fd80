package service

import "errors"

// Outcome classes of the account and drink stores. Any other error returned by
// a service is a store fault.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)
