package storefront

import (
	"context"
	"sync"

	"github.com/yespstudio/storefront/pkg/dbpool"
)

// ProductRepository reads and adjusts the tenant's product catalog.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	// AdjustStock adds delta to the product's stock. A negative delta
	// only succeeds while enough stock remains.
	AdjustStock(ctx context.Context, id string, delta int64) error
}

// CategoryRepository reads the tenant's category tree.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]Category, error)
}

// OfferRepository reads the tenant's discount offers.
type OfferRepository interface {
	// ListCurrent returns active offers whose validity window covers now.
	ListCurrent(ctx context.Context) ([]Offer, error)
}

// CustomerRepository manages tenant customer accounts.
type CustomerRepository interface {
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindByID(ctx context.Context, id string) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
}

// OrderRepository manages tenant orders.
type OrderRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	FindByID(ctx context.Context, id string) (*Order, error)
	Create(ctx context.Context, o *Order) error
	SetPayment(ctx context.Context, id string, status string, details PaymentDetails) error
}

// PaymentRepository manages tenant payment records.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	FindByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	SetStatus(ctx context.Context, paymentID string, status string, transactionRef string) error
}

// GatewayRepository reads per-store payment gateway settings.
type GatewayRepository interface {
	FindByStore(ctx context.Context, storeID string) (*GatewaySettings, error)
}

// Repositories is the compiled repository set for one tenant database.
type Repositories struct {
	Products   ProductRepository
	Categories CategoryRepository
	Offers     OfferRepository
	Customers  CustomerRepository
	Orders     OrderRepository
	Payments   PaymentRepository
	Gateways   GatewayRepository
}

// RepositorySource yields the repository set for a pooled handle.
// Handlers depend on this interface so tests can swap in mocks.
type RepositorySource interface {
	For(h *dbpool.Handle) *Repositories
}

// Registry memoizes one compiled repository set per pooled connection
// handle. Compilation happens at most once per handle, so request
// handling never rebuilds collection bindings.
type Registry struct {
	sets sync.Map // *dbpool.Handle -> *Repositories
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// For returns the repository set bound to h, compiling it on first use.
func (r *Registry) For(h *dbpool.Handle) *Repositories {
	if v, ok := r.sets.Load(h); ok {
		return v.(*Repositories)
	}
	v, _ := r.sets.LoadOrStore(h, newMongoRepositories(h.DB()))
	return v.(*Repositories)
}
