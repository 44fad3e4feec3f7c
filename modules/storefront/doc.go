// Package storefront implements the customer-facing storefront API:
// catalog browsing, customer accounts, orders, and the mocked payment
// flow, all scoped to the tenant database bound by the tenant middleware.
//
// Handlers never open connections themselves. They read the request's
// tenant resolution from the context and obtain the tenant's compiled
// repository set from the Registry, which memoizes one set per pooled
// connection handle.
package storefront
