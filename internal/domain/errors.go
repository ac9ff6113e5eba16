package domain

import "errors"

var (
	// ErrNotFound means the referenced order or rider is absent from the
	// addressed partition. No state change happened.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the bearer token is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the token is valid but the role is not permitted.
	ErrForbidden = errors.New("forbidden")
	// ErrUpstream wraps a non-2xx response from Shopify or Google Sheets.
	ErrUpstream = errors.New("upstream failure")
	// ErrInvalidTransition is returned only when strict delivery-status
	// mode is enabled.
	ErrInvalidTransition = errors.New("invalid delivery status transition")
)
