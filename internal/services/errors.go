// Package services defines the business logic for availability, reservations,
// payment sessions, webhook reconciliation, and rate limiting. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrScreenNotFound indicates that the requested screen does not exist
	// or is not accepting reservations.
	ErrScreenNotFound = errors.New("screen not found")

	// ErrReservationNotFound indicates that the requested reservation does
	// not exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrValidation is returned when input is malformed or outside policy
	// (bad date, duration off-granularity, outside operating hours). Always
	// client-fixable; never retried automatically.
	ErrValidation = errors.New("validation failed")

	// ErrSlotConflict is returned when the requested interval overlaps an
	// active reservation. The client should re-query availability and pick a
	// different slot.
	ErrSlotConflict = errors.New("slot no longer available")

	// ErrNotOwner is returned when the caller does not own the resource it
	// is trying to mutate.
	ErrNotOwner = errors.New("caller does not own this reservation")

	// ErrInvalidState is returned when an operation is not valid for the
	// resource's current status (e.g., cancelling a completed reservation).
	ErrInvalidState = errors.New("operation not valid in current state")

	// ErrRateLimited is returned by the rate limiter when an increment would
	// exceed the endpoint's policy within the current window.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrPaymentProvider is returned when the payment processor stays
	// unreachable after bounded retries.
	ErrPaymentProvider = errors.New("payment provider unavailable")

	// ErrBadSignature is returned when a webhook's HMAC signature does not
	// verify against the shared secret. Logged as a potential tampering
	// attempt and never processed.
	ErrBadSignature = errors.New("invalid webhook signature")
)
