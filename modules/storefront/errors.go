package storefront

import "errors"

var (
	// ErrNotFound is returned when a tenant document does not exist.
	ErrNotFound = errors.New("storefront: not found")
	// ErrInvalidID is returned for malformed object identifiers.
	ErrInvalidID = errors.New("storefront: invalid id")
	// ErrInsufficientStock is returned when an order asks for more
	// units than the product has left.
	ErrInsufficientStock = errors.New("storefront: insufficient stock")
	// ErrEmailTaken is returned when registering an already used email.
	ErrEmailTaken = errors.New("storefront: email already registered")
)
