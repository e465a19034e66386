package services

import "errors"

// Sentinel errors forming the failure taxonomy surfaced to handlers.
// Handlers match these with errors.Is and map them to HTTP statuses;
// anything not in this set is treated as a storage or internal failure
// and never echoed to untrusted callers.
var (
	// ErrUnauthenticated means the bearer credential is absent, malformed,
	// or expired.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAccountNotFound means a verified credential names an account that
	// no longer resolves.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDenied means the caller is authenticated but not permitted.
	// Responses built from it must not disclose whether the resource exists.
	ErrDenied = errors.New("access denied")

	// ErrNotFound means a resource id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means the requested order status is not reachable
	// from the current one.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrEmptyOrder means an order was placed with no line items.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrInvalidQuantity means a line item quantity is below one.
	ErrInvalidQuantity = errors.New("invalid line item quantity")

	// ErrEmailTaken means registration hit the unique-email constraint.
	ErrEmailTaken = errors.New("email already registered")
)
