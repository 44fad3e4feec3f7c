package dbpool

import "errors"

var (
	// ErrConnectionFailed is returned when dialing or the readiness ping fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrPoolExhausted is returned when the configured connection budget
	// would be exceeded by a new key.
	ErrPoolExhausted = errors.New("connection pool budget exhausted")

	// ErrPoolClosed is returned when acquiring from a pool after Shutdown.
	ErrPoolClosed = errors.New("connection pool is closed")
)
