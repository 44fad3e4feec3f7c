package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/yespstudio/storefront/pkg/dbpool"
	"github.com/yespstudio/storefront/pkg/directory"
	"github.com/yespstudio/storefront/pkg/tenant"
	"github.com/yespstudio/storefront/pkg/token"
)

type stubSource struct {
	repos *Repositories
}

func (s *stubSource) For(*dbpool.Handle) *Repositories { return s.repos }

type mockProducts struct {
	listActive  func(ctx context.Context) ([]Product, error)
	search      func(ctx context.Context, query string) ([]Product, error)
	findBySlug  func(ctx context.Context, slug string) (*Product, error)
	findByID    func(ctx context.Context, id string) (*Product, error)
	adjustStock func(ctx context.Context, id string, delta int64) error
}

func (m *mockProducts) ListActive(ctx context.Context) ([]Product, error) {
	return m.listActive(ctx)
}

func (m *mockProducts) Search(ctx context.Context, query string) ([]Product, error) {
	return m.search(ctx, query)
}

func (m *mockProducts) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	return m.findBySlug(ctx, slug)
}

func (m *mockProducts) FindByID(ctx context.Context, id string) (*Product, error) {
	return m.findByID(ctx, id)
}

func (m *mockProducts) AdjustStock(ctx context.Context, id string, delta int64) error {
	return m.adjustStock(ctx, id, delta)
}

type mockCategories struct {
	listActive func(ctx context.Context) ([]Category, error)
}

func (m *mockCategories) ListActive(ctx context.Context) ([]Category, error) {
	return m.listActive(ctx)
}

type mockOffers struct {
	listCurrent func(ctx context.Context) ([]Offer, error)
}

func (m *mockOffers) ListCurrent(ctx context.Context) ([]Offer, error) {
	return m.listCurrent(ctx)
}

type mockCustomers struct {
	findByEmail func(ctx context.Context, email string) (*Customer, error)
	findByID    func(ctx context.Context, id string) (*Customer, error)
	create      func(ctx context.Context, c *Customer) error
}

func (m *mockCustomers) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	return m.findByEmail(ctx, email)
}

func (m *mockCustomers) FindByID(ctx context.Context, id string) (*Customer, error) {
	return m.findByID(ctx, id)
}

func (m *mockCustomers) Create(ctx context.Context, c *Customer) error {
	return m.create(ctx, c)
}

type mockOrders struct {
	listByCustomer func(ctx context.Context, customerID string) ([]Order, error)
	findByID       func(ctx context.Context, id string) (*Order, error)
	create         func(ctx context.Context, o *Order) error
	setPayment     func(ctx context.Context, id string, status string, details PaymentDetails) error
}

func (m *mockOrders) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	return m.listByCustomer(ctx, customerID)
}

func (m *mockOrders) FindByID(ctx context.Context, id string) (*Order, error) {
	return m.findByID(ctx, id)
}

func (m *mockOrders) Create(ctx context.Context, o *Order) error {
	return m.create(ctx, o)
}

func (m *mockOrders) SetPayment(ctx context.Context, id string, status string, details PaymentDetails) error {
	return m.setPayment(ctx, id, status, details)
}

type mockPayments struct {
	create          func(ctx context.Context, p *Payment) error
	findByPaymentID func(ctx context.Context, paymentID string) (*Payment, error)
	setStatus       func(ctx context.Context, paymentID string, status string, transactionRef string) error
}

func (m *mockPayments) Create(ctx context.Context, p *Payment) error {
	return m.create(ctx, p)
}

func (m *mockPayments) FindByPaymentID(ctx context.Context, paymentID string) (*Payment, error) {
	return m.findByPaymentID(ctx, paymentID)
}

func (m *mockPayments) SetStatus(ctx context.Context, paymentID string, status string, transactionRef string) error {
	return m.setStatus(ctx, paymentID, status, transactionRef)
}

type mockGateways struct {
	findByStore func(ctx context.Context, storeID string) (*GatewaySettings, error)
}

func (m *mockGateways) FindByStore(ctx context.Context, storeID string) (*GatewaySettings, error) {
	return m.findByStore(ctx, storeID)
}

func testTokenService(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.New(token.Config{Secret: "test-secret-test-secret-test-secret"})
	require.NoError(t, err)
	return svc
}

// testResolution builds a tenant resolution backed by a pooled handle
// that was dialed with a stub, so no database is touched.
func testResolution(t *testing.T, storeID, tenantID string) *tenant.Resolution {
	t.Helper()
	pool := dbpool.New(dbpool.Config{}, dbpool.WithDialer(stubDial))
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })

	dbName := tenant.DatabaseName(tenantID)
	h, err := pool.Acquire(context.Background(), dbName, "mongodb://localhost:27017/"+dbName, dbName)
	require.NoError(t, err)
	return &tenant.Resolution{
		StoreID:  storeID,
		TenantID: tenantID,
		Record: &directory.StoreRecord{
			StoreID:      storeID,
			TenantID:     tenantID,
			StoreName:    "Test Store",
			SecretAPIKey: "sk_test",
		},
		Handle: h,
	}
}

// stubDial builds a driver client without connecting. The driver only
// dials on the first operation, which these tests never perform.
func stubDial(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect()
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(dbName), nil
}
