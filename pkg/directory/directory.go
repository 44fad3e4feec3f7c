package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// recordFinder fetches matching records for a store identifier. Split out
// so the lookup logic is testable without a running control-plane database.
type recordFinder interface {
	find(ctx context.Context, storeID string) ([]StoreRecord, error)
}

// Service resolves store identifiers against the control-plane directory.
type Service struct {
	records recordFinder
	cache   Cache
	ttl     time.Duration
	log     *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithCache replaces the default in-memory record cache.
func WithCache(c Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithCacheTTL sets how long a looked-up record is served from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a directory service over the control-plane database.
func New(db *mongo.Database, opts ...Option) *Service {
	return newService(&mongoFinder{coll: db.Collection(storesCollection)}, opts...)
}

func newService(finder recordFinder, opts ...Option) *Service {
	s := &Service{
		records: finder,
		cache:   NewMemoryCache(DefaultCacheSize),
		ttl:     5 * time.Minute,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the record for storeID. Matching is exact; zero matches
// yield ErrStoreNotFound. Two matches violate the control plane's
// uniqueness invariant and yield ErrIntegrity.
func (s *Service) Lookup(ctx context.Context, storeID string) (*StoreRecord, error) {
	if rec, ok := s.cache.Get(ctx, storeID); ok {
		return rec, nil
	}

	records, err := s.records.find(ctx, storeID)
	if err != nil {
		return nil, errors.Join(ErrLookupFailed, err)
	}

	switch len(records) {
	case 0:
		return nil, ErrStoreNotFound
	case 1:
		rec := records[0]
		s.cache.Set(ctx, storeID, &rec, s.ttl)
		return &rec, nil
	default:
		s.log.ErrorContext(ctx, "control-plane integrity violation: duplicate store records",
			slog.String("store_id", storeID), slog.Int("matches", len(records)))
		return nil, ErrIntegrity
	}
}

// Invalidate drops the cached record for storeID, if any.
func (s *Service) Invalidate(ctx context.Context, storeID string) {
	s.cache.Delete(ctx, storeID)
}

type mongoFinder struct {
	coll *mongo.Collection
}

// find fetches at most two records: one is the expected case, a second one
// is enough to prove the uniqueness invariant is broken.
func (f *mongoFinder) find(ctx context.Context, storeID string) ([]StoreRecord, error) {
	cursor, err := f.coll.Find(ctx, bson.M{"storeId": storeID}, options.Find().SetLimit(2))
	if err != nil {
		return nil, err
	}
	var records []StoreRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
