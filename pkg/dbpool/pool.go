package dbpool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Dialer establishes a connection to the database at uri and returns the
// client together with the named database. It is replaceable for testing.
type Dialer func(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error)

// Option configures the pool.
type Option func(*Pool)

// WithDialer replaces the connection factory.
func WithDialer(d Dialer) Option {
	return func(p *Pool) {
		if d != nil {
			p.dial = d
		}
	}
}

// WithLogger sets the logger used for connection lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// Pool owns all live database connections of the process, one per key.
// Acquire is idempotent per key and safe for concurrent use.
type Pool struct {
	cfg  Config
	dial Dialer
	log  *slog.Logger

	mu      sync.RWMutex
	handles map[string]*Handle
	closed  bool

	group singleflight.Group
}

// New creates an empty pool. Connections are established lazily by Acquire.
func New(cfg Config, opts ...Option) *Pool {
	p := &Pool{
		cfg:     cfg,
		handles: make(map[string]*Handle),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	p.dial = p.mongoDial
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire returns the ready handle for key, establishing the connection on
// first demand. Concurrent callers for the same unconnected key are
// coalesced onto a single dial attempt. A handle observed failed or closed
// is replaced by a fresh attempt.
func (p *Pool) Acquire(ctx context.Context, key, uri, dbName string) (*Handle, error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, ErrPoolClosed
	}
	if h, ok := p.handles[key]; ok && h.Ready() {
		p.mu.RUnlock()
		return h, nil
	}
	p.mu.RUnlock()

	v, err, _ := p.group.Do(key, func() (any, error) {
		return p.connect(ctx, key, uri, dbName)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

// Get returns the cached handle for key without triggering a connection
// attempt. The second return value reports whether a handle exists.
func (p *Pool) Get(key string) (*Handle, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	h, ok := p.handles[key]
	return h, ok
}

// Len returns the number of tracked connection keys.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handles)
}

// Evict closes and forgets the connection for key, if any. The next
// Acquire for the key dials again.
func (p *Pool) Evict(ctx context.Context, key string) error {
	p.mu.Lock()
	h, ok := p.handles[key]
	delete(p.handles, key)
	p.mu.Unlock()
	if !ok {
		return nil
	}

	h.setState(StateClosed)
	if h.client != nil {
		if err := h.client.Disconnect(ctx); err != nil {
			return errors.Join(ErrConnectionFailed, err)
		}
	}
	p.log.InfoContext(ctx, "evicted database connection", slog.String("key", key))
	return nil
}

// Shutdown closes every connection and rejects further acquisitions.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	handles := p.handles
	p.handles = make(map[string]*Handle)
	p.mu.Unlock()

	var errs []error
	for key, h := range handles {
		h.setState(StateClosed)
		if h.client == nil {
			continue
		}
		if err := h.client.Disconnect(ctx); err != nil {
			errs = append(errs, err)
			p.log.ErrorContext(ctx, "failed to close database connection",
				slog.String("key", key), slog.Any("error", err))
		}
	}
	return errors.Join(errs...)
}

// connect runs inside the per-key singleflight group, so at most one
// attempt per key is in flight at any time.
func (p *Pool) connect(ctx context.Context, key, uri, dbName string) (*Handle, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	// Another flight may have finished between the caller's fast-path
	// check and this one.
	if h, ok := p.handles[key]; ok && h.Ready() {
		p.mu.Unlock()
		return h, nil
	}
	if _, ok := p.handles[key]; !ok && p.cfg.MaxConns > 0 && len(p.handles) >= p.cfg.MaxConns {
		p.mu.Unlock()
		return nil, ErrPoolExhausted
	}
	h := &Handle{key: key, dbName: dbName}
	h.setState(StateConnecting)
	p.handles[key] = h
	p.mu.Unlock()

	// The flight's outcome is shared by every coalesced waiter, so the
	// dial must not die with the first caller's context.
	dialCtx := context.WithoutCancel(ctx)
	if p.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(dialCtx, p.cfg.ConnectTimeout)
		defer cancel()
	}

	client, db, err := p.dial(dialCtx, uri, dbName)
	if err != nil {
		h.setState(StateFailed)
		p.log.ErrorContext(ctx, "database connection failed",
			slog.String("key", key), slog.Any("error", err))
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	// Shutdown or Evict may have dropped the handle while the dial was
	// in flight; the fresh client must not outlive the pool.
	p.mu.Lock()
	if p.closed || p.handles[key] != h {
		p.mu.Unlock()
		h.setState(StateClosed)
		if client != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
		}
		return nil, ErrPoolClosed
	}
	h.client = client
	h.db = db
	h.setState(StateReady)
	p.mu.Unlock()
	p.log.InfoContext(ctx, "database connection established",
		slog.String("key", key), slog.String("database", dbName))
	return h, nil
}

// mongoDial is the default Dialer backed by the official driver.
func (p *Pool) mongoDial(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(
		options.Client().
			ApplyURI(uri).
			SetConnectTimeout(p.cfg.ConnectTimeout).
			SetMaxPoolSize(p.cfg.MaxPoolSize).
			SetMinPoolSize(p.cfg.MinPoolSize).
			SetRetryWrites(true).
			SetRetryReads(true),
	)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, nil, err
	}
	return client, client.Database(dbName), nil
}
