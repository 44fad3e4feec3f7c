package tenant_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/yespstudio/storefront/pkg/dbpool"
	"github.com/yespstudio/storefront/pkg/directory"
)

// mockDirectory serves store records from a map, mimicking the
// control-plane lookup contract.
type mockDirectory struct {
	mu      sync.Mutex
	records map[string]*directory.StoreRecord
	err     error
	lookups atomic.Int64
}

func newMockDirectory(records ...*directory.StoreRecord) *mockDirectory {
	d := &mockDirectory{records: make(map[string]*directory.StoreRecord)}
	for _, rec := range records {
		d.records[rec.StoreID] = rec
	}
	return d
}

func (d *mockDirectory) Lookup(ctx context.Context, storeID string) (*directory.StoreRecord, error) {
	d.lookups.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	rec, ok := d.records[storeID]
	if !ok {
		return nil, directory.ErrStoreNotFound
	}
	return rec, nil
}

// countingDialer is a pool dialer that records dial attempts instead of
// reaching a real database.
type countingDialer struct {
	calls atomic.Int64
	delay time.Duration
	err   error
}

func (d *countingDialer) dial(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	d.calls.Add(1)
	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	if d.err != nil {
		return nil, nil, d.err
	}
	return nil, nil, nil
}

func newTestPool(dialer *countingDialer) *dbpool.Pool {
	return dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))
}
