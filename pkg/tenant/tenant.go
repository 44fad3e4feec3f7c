package tenant

import (
	"strings"

	"github.com/yespstudio/storefront/pkg/dbpool"
	"github.com/yespstudio/storefront/pkg/directory"
)

// databasePrefix namespaces tenant databases on the shared cluster and
// keeps tenant connection keys disjoint from the control-plane key.
const databasePrefix = "tenant_"

// DatabaseName derives the tenant database name from a tenant identifier.
// The identifier is lowercased first so the mapping is deterministic
// regardless of how the control-plane record cased it:
//
//	DatabaseName("ABC123") == DatabaseName("abc123") == "tenant_abc123"
//
// The name doubles as the tenant's connection key.
func DatabaseName(tenantID string) string {
	return databasePrefix + strings.ToLower(strings.TrimSpace(tenantID))
}

// Resolution is the per-request binding of a store to its tenant database.
// It is created by the middleware, lives in the request context, and is
// never shared across requests.
type Resolution struct {
	StoreID  string
	TenantID string
	Record   *directory.StoreRecord
	Handle   *dbpool.Handle
}
