package dbpool

import (
	"sync/atomic"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// State describes the lifecycle of a pooled connection.
type State int32

const (
	StateConnecting State = iota
	StateReady
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Handle is an opaque, shareable reference to a pooled database connection.
// It is owned by the pool; callers use DB for queries and never disconnect
// the underlying client themselves.
type Handle struct {
	key    string
	dbName string
	state  atomic.Int32

	// client and db are written once before the state transitions to
	// StateReady; the atomic state store/load pair publishes them safely.
	client *mongo.Client
	db     *mongo.Database
}

// Key returns the connection key this handle was created for.
func (h *Handle) Key() string { return h.key }

// DatabaseName returns the name of the database this handle targets.
func (h *Handle) DatabaseName() string { return h.dbName }

// State reports the current lifecycle state.
func (h *Handle) State() State { return State(h.state.Load()) }

// Ready reports whether the handle holds an established connection.
func (h *Handle) Ready() bool { return h.State() == StateReady }

// DB returns the database bound to this handle. It is only valid on a
// handle in StateReady.
func (h *Handle) DB() *mongo.Database { return h.db }

func (h *Handle) setState(s State) { h.state.Store(int32(s)) }
