package directory

import "errors"

var (
	// ErrStoreNotFound is returned when no record matches the store identifier.
	ErrStoreNotFound = errors.New("store not found")

	// ErrIntegrity is returned when more than one record matches a store
	// identifier that the control plane declares unique. It is never
	// resolved by picking one of the records.
	ErrIntegrity = errors.New("duplicate store records for unique store id")

	// ErrLookupFailed is returned when the control-plane query itself fails.
	ErrLookupFailed = errors.New("store lookup failed")
)
