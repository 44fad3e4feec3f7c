// Package directory reads the store-to-tenant mapping from the shared
// control-plane database.
//
// Every storefront request starts with a lookup here: the store identifier
// taken from the URL is matched against the "stores" collection, and the
// resulting record names the tenant whose isolated database serves the
// request. Records are provisioned by an external process and are
// read-only from this package's perspective.
//
// Lookups are cached behind the Cache interface. The in-memory
// implementation is the default; a Redis-backed implementation is
// available for multi-instance deployments.
package directory
