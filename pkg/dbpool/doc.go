// Package dbpool manages a process-wide set of live MongoDB connections
// keyed by a stable connection key: the fixed control-plane key plus one
// key per tenant database.
//
// Connections are established lazily on first demand and reused for the
// lifetime of the process. Concurrent first-touch acquisitions of the same
// key are coalesced onto a single dial, so a burst of requests for a
// never-seen tenant produces exactly one connection attempt.
//
// # Usage
//
//	pool := dbpool.New(cfg)
//	defer pool.Shutdown(context.Background())
//
//	handle, err := pool.Acquire(ctx, "tenant_acme", baseURI, "tenant_acme")
//	if err != nil {
//		// dial failed or the pool budget is exhausted
//	}
//	coll := handle.DB().Collection("products")
//
// Handles are shared, non-owning references. Callers must never close the
// underlying connection; eviction and shutdown belong to the pool.
package dbpool
