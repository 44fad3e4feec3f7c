package dbpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/yespstudio/storefront/pkg/dbpool"
)

// stubDialer counts dial attempts and optionally fails or delays.
type stubDialer struct {
	calls atomic.Int64
	delay time.Duration

	mu  sync.Mutex
	err error
}

func (d *stubDialer) dial(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	d.calls.Add(1)
	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	d.mu.Lock()
	err := d.err
	d.mu.Unlock()
	if err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func (d *stubDialer) setErr(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

func TestPool_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("establishes connection on first demand", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{}
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		h, err := pool.Acquire(context.Background(), "tenant_acme", "mongodb://localhost/", "tenant_acme")
		require.NoError(t, err)
		require.NotNil(t, h)
		assert.Equal(t, "tenant_acme", h.Key())
		assert.Equal(t, "tenant_acme", h.DatabaseName())
		assert.Equal(t, dbpool.StateReady, h.State())
		assert.EqualValues(t, 1, dialer.calls.Load())
	})

	t.Run("reuses ready handle without dialing", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{}
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		first, err := pool.Acquire(context.Background(), "tenant_acme", "mongodb://localhost/", "tenant_acme")
		require.NoError(t, err)

		for n := 0; n < 10; n++ {
			h, err := pool.Acquire(context.Background(), "tenant_acme", "mongodb://localhost/", "tenant_acme")
			require.NoError(t, err)
			assert.Same(t, first, h)
		}
		assert.EqualValues(t, 1, dialer.calls.Load())
	})

	t.Run("separate keys get separate handles", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{}
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		a, err := pool.Acquire(context.Background(), "tenant_a", "mongodb://localhost/", "tenant_a")
		require.NoError(t, err)
		b, err := pool.Acquire(context.Background(), "tenant_b", "mongodb://localhost/", "tenant_b")
		require.NoError(t, err)

		assert.NotSame(t, a, b)
		assert.EqualValues(t, 2, dialer.calls.Load())
		assert.Equal(t, 2, pool.Len())
	})

	t.Run("dial failure surfaces as ErrConnectionFailed", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{}
		dialer.setErr(errors.New("no route to host"))
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		_, err := pool.Acquire(context.Background(), "tenant_down", "mongodb://localhost/", "tenant_down")
		require.ErrorIs(t, err, dbpool.ErrConnectionFailed)

		h, ok := pool.Get("tenant_down")
		require.True(t, ok)
		assert.Equal(t, dbpool.StateFailed, h.State())
	})

	t.Run("failed handle is replaced on next acquire", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{}
		dialer.setErr(errors.New("no route to host"))
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		_, err := pool.Acquire(context.Background(), "tenant_flaky", "mongodb://localhost/", "tenant_flaky")
		require.ErrorIs(t, err, dbpool.ErrConnectionFailed)

		dialer.setErr(nil)
		h, err := pool.Acquire(context.Background(), "tenant_flaky", "mongodb://localhost/", "tenant_flaky")
		require.NoError(t, err)
		assert.Equal(t, dbpool.StateReady, h.State())
		assert.EqualValues(t, 2, dialer.calls.Load())
	})

	t.Run("budget rejects new keys when exhausted", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{}
		pool := dbpool.New(dbpool.Config{MaxConns: 1}, dbpool.WithDialer(dialer.dial))

		first, err := pool.Acquire(context.Background(), "tenant_one", "mongodb://localhost/", "tenant_one")
		require.NoError(t, err)

		_, err = pool.Acquire(context.Background(), "tenant_two", "mongodb://localhost/", "tenant_two")
		require.ErrorIs(t, err, dbpool.ErrPoolExhausted)

		// Existing keys are unaffected by the budget.
		h, err := pool.Acquire(context.Background(), "tenant_one", "mongodb://localhost/", "tenant_one")
		require.NoError(t, err)
		assert.Same(t, first, h)
	})

	t.Run("evicted key dials again", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{}
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		h, err := pool.Acquire(context.Background(), "tenant_acme", "mongodb://localhost/", "tenant_acme")
		require.NoError(t, err)

		require.NoError(t, pool.Evict(context.Background(), "tenant_acme"))
		assert.Equal(t, dbpool.StateClosed, h.State())
		assert.Equal(t, 0, pool.Len())

		_, err = pool.Acquire(context.Background(), "tenant_acme", "mongodb://localhost/", "tenant_acme")
		require.NoError(t, err)
		assert.EqualValues(t, 2, dialer.calls.Load())
	})

	t.Run("shutdown during dial does not leak the connection", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{delay: 100 * time.Millisecond}
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		errCh := make(chan error, 1)
		go func() {
			_, err := pool.Acquire(context.Background(), "tenant_acme", "mongodb://localhost/", "tenant_acme")
			errCh <- err
		}()

		// Let the dial start, then shut the pool down underneath it.
		require.Eventually(t, func() bool { return dialer.calls.Load() == 1 },
			time.Second, time.Millisecond)
		require.NoError(t, pool.Shutdown(context.Background()))

		err := <-errCh
		assert.ErrorIs(t, err, dbpool.ErrPoolClosed)
		assert.Equal(t, 0, pool.Len())
	})

	t.Run("canceled first caller does not fail coalesced waiters", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{delay: 100 * time.Millisecond}
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		firstCtx, cancel := context.WithCancel(context.Background())
		firstErr := make(chan error, 1)
		go func() {
			_, err := pool.Acquire(firstCtx, "tenant_acme", "mongodb://localhost/", "tenant_acme")
			firstErr <- err
		}()
		require.Eventually(t, func() bool { return dialer.calls.Load() == 1 },
			time.Second, time.Millisecond)
		cancel()

		h, err := pool.Acquire(context.Background(), "tenant_acme", "mongodb://localhost/", "tenant_acme")
		require.NoError(t, err)
		assert.Equal(t, dbpool.StateReady, h.State())
		assert.NoError(t, <-firstErr)
		assert.EqualValues(t, 1, dialer.calls.Load())
	})

	t.Run("acquire after shutdown fails", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{}
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		require.NoError(t, pool.Shutdown(context.Background()))

		_, err := pool.Acquire(context.Background(), "tenant_acme", "mongodb://localhost/", "tenant_acme")
		assert.ErrorIs(t, err, dbpool.ErrPoolClosed)
	})
}

func TestPool_ConcurrentAcquire(t *testing.T) {
	t.Parallel()

	t.Run("first-touch acquisitions are coalesced onto one dial", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{delay: 50 * time.Millisecond}
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		const callers = 50
		handles := make([]*dbpool.Handle, callers)
		errs := make([]error, callers)

		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(callers)
		for i := 0; i < callers; i++ {
			i := i
			go func() {
				defer wg.Done()
				<-start
				handles[i], errs[i] = pool.Acquire(context.Background(), "tenant_burst", "mongodb://localhost/", "tenant_burst")
			}()
		}
		close(start)
		wg.Wait()

		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			require.NotNil(t, handles[i])
			assert.Same(t, handles[0], handles[i])
			assert.Equal(t, dbpool.StateReady, handles[i].State())
		}
		assert.EqualValues(t, 1, dialer.calls.Load())
	})

	t.Run("concurrent failure is shared by all waiters", func(t *testing.T) {
		t.Parallel()

		dialer := &stubDialer{delay: 100 * time.Millisecond}
		dialer.setErr(errors.New("handshake refused"))
		pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(dialer.dial))

		const callers = 20
		errs := make([]error, callers)

		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(callers)
		for i := 0; i < callers; i++ {
			i := i
			go func() {
				defer wg.Done()
				<-start
				_, errs[i] = pool.Acquire(context.Background(), "tenant_bad", "mongodb://localhost/", "tenant_bad")
			}()
		}
		close(start)
		wg.Wait()

		for i := 0; i < callers; i++ {
			assert.ErrorIs(t, errs[i], dbpool.ErrConnectionFailed)
		}
		assert.EqualValues(t, 1, dialer.calls.Load())
	})
}

func TestHandle_StateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "connecting", dbpool.StateConnecting.String())
	assert.Equal(t, "ready", dbpool.StateReady.String())
	assert.Equal(t, "failed", dbpool.StateFailed.String())
	assert.Equal(t, "closed", dbpool.StateClosed.String())
}
