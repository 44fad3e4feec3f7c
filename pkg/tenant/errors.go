package tenant

import "errors"

var (
	// ErrMissingStoreID is returned when the request path carries no store
	// identifier, or only whitespace.
	ErrMissingStoreID = errors.New("missing store id")

	// ErrStoreNotFound is returned when the store identifier has no
	// control-plane record.
	ErrStoreNotFound = errors.New("store not found")

	// ErrConnectionFailed is returned when the tenant database cannot be
	// reached or the control-plane lookup fails.
	ErrConnectionFailed = errors.New("tenant database unavailable")

	// ErrNoResolutionInContext is returned when a handler that requires a
	// bound tenant runs without one.
	ErrNoResolutionInContext = errors.New("no tenant resolution in context")
)
