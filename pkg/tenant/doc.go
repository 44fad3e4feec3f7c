// Package tenant resolves the store identifier of an inbound request to
// the tenant that owns it and binds the tenant's database connection to
// the request context.
//
// Resolution is a three-step pipeline: the store identifier is read from
// the URL path, matched against the control-plane directory, and the
// resulting tenant identifier is turned into a pooled connection to the
// tenant's isolated database. Downstream handlers receive all three pieces
// together as a Resolution and must scope every query to it; a handle is
// never handed out without its owning tenant identifier.
//
// # Usage
//
//	resolver := tenant.NewResolver(dir, pool, "mongodb://localhost:27017/")
//
//	r.Route("/store/{storeID}/api/storefront", func(r chi.Router) {
//		r.Use(tenant.Middleware(resolver))
//		r.Get("/products", listProducts)
//	})
//
//	func listProducts(w http.ResponseWriter, r *http.Request) {
//		res := tenant.MustFromContext(r.Context())
//		coll := res.Handle.DB().Collection("products")
//		// ...
//	}
//
// The directory lookup is authoritative for the tenant identity. Claims
// carried by customer tokens are advisory; middleware that consumes them
// must reject requests whose claimed tenant disagrees with the resolved
// one (see the token package).
package tenant
