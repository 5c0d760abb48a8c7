package services

import "errors"

// Sentinel errors the handlers map to HTTP statuses. Precondition failures are
// detected before any write; storage faults propagate as-is so callers can
// retry or surface them.
var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("not allowed")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidState       = errors.New("already processed")
)
