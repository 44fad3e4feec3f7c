package token

import "errors"

var (
	// ErrMissingSecret is returned when the service is created without a
	// signing secret.
	ErrMissingSecret = errors.New("missing token signing secret")

	// ErrMissingToken is returned when a request carries no bearer token.
	ErrMissingToken = errors.New("no token provided")

	// ErrInvalidToken is returned when a token fails signature or claim
	// validation.
	ErrInvalidToken = errors.New("token is not valid")

	// ErrExpiredToken is returned when a token is past its expiry.
	ErrExpiredToken = errors.New("token is expired")

	// ErrTenantMismatch is returned when the tenant claimed by a token
	// disagrees with the tenant resolved from the control-plane directory.
	ErrTenantMismatch = errors.New("token tenant does not match resolved tenant")

	// ErrNoClaimsInContext is returned when a handler that requires an
	// authenticated customer runs without one.
	ErrNoClaimsInContext = errors.New("no customer claims in context")
)
