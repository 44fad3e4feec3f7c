package tenant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/yespstudio/storefront/pkg/dbpool"
	"github.com/yespstudio/storefront/pkg/directory"
)

// Directory looks up store records in the control plane.
type Directory interface {
	Lookup(ctx context.Context, storeID string) (*directory.StoreRecord, error)
}

// Pool hands out pooled database connections by key.
type Pool interface {
	Acquire(ctx context.Context, key, uri, dbName string) (*dbpool.Handle, error)
}

// Resolver turns a store identifier into a Resolution.
type Resolver struct {
	dir     Directory
	pool    Pool
	baseURI string
	log     *slog.Logger
}

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the resolver logger.
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver creates a resolver. baseURI is the connection string prefix
// of the tenant database cluster, e.g. "mongodb://localhost:27017/"; the
// tenant database name is appended to it when dialing.
func NewResolver(dir Directory, pool Pool, baseURI string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		dir:     dir,
		pool:    pool,
		baseURI: baseURI,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps storeID to its tenant and acquires the tenant database
// handle. Failures are classified: ErrMissingStoreID for an empty
// identifier, ErrStoreNotFound for an unknown one, directory.ErrIntegrity
// for duplicate control-plane records, ErrConnectionFailed for
// control-plane or tenant database trouble. An unknown store never
// triggers a tenant connection attempt.
func (r *Resolver) Resolve(ctx context.Context, storeID string) (*Resolution, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrMissingStoreID
	}

	record, err := r.dir.Lookup(ctx, storeID)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrStoreNotFound):
			return nil, errors.Join(ErrStoreNotFound, err)
		case errors.Is(err, directory.ErrIntegrity):
			return nil, err
		default:
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	dbName := DatabaseName(record.TenantID)
	handle, err := r.pool.Acquire(ctx, dbName, r.baseURI+dbName, dbName)
	if err != nil {
		r.log.ErrorContext(ctx, "failed to acquire tenant database",
			slog.String("store_id", storeID),
			slog.String("tenant_id", record.TenantID),
			slog.Any("error", err))
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return &Resolution{
		StoreID:  storeID,
		TenantID: record.TenantID,
		Record:   record,
		Handle:   handle,
	}, nil
}
