package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Tenant database collection names.
const (
	productsCollection   = "products"
	categoriesCollection = "categories"
	offersCollection     = "offers"
	customersCollection  = "customers"
	ordersCollection     = "orders"
	paymentsCollection   = "payments"
	gatewaysCollection   = "storegatewaysettings"
)

func newMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Products:   &mongoProducts{col: db.Collection(productsCollection)},
		Categories: &mongoCategories{col: db.Collection(categoriesCollection)},
		Offers:     &mongoOffers{col: db.Collection(offersCollection)},
		Customers:  &mongoCustomers{col: db.Collection(customersCollection)},
		Orders:     &mongoOrders{col: db.Collection(ordersCollection)},
		Payments:   &mongoPayments{col: db.Collection(paymentsCollection)},
		Gateways:   &mongoGateways{col: db.Collection(gatewaysCollection)},
	}
}

func parseObjectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, errors.Join(ErrInvalidID, err)
	}
	return oid, nil
}

type mongoProducts struct {
	col *mongo.Collection
}

// visibleFilter limits reads to products the storefront may show.
func visibleFilter() bson.M {
	return bson.M{"isActive": true, "status": ProductStatusPublished}
}

func (r *mongoProducts) ListActive(ctx context.Context) ([]Product, error) {
	cur, err := r.col.Find(ctx, visibleFilter(), options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var products []Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// searchFilter matches the query case-insensitively against name,
// description, and slug, limited to visible products.
func searchFilter(query string) bson.M {
	filter := visibleFilter()
	filter["$or"] = bson.A{
		bson.M{"name": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"slug": bson.M{"$regex": query, "$options": "i"}},
	}
	return filter
}

func (r *mongoProducts) Search(ctx context.Context, query string) ([]Product, error) {
	cur, err := r.col.Find(ctx, searchFilter(query))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	var products []Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProducts) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	filter := visibleFilter()
	filter["slug"] = slug
	var p Product
	if err := r.col.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return &p, nil
}

func (r *mongoProducts) FindByID(ctx context.Context, id string) (*Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var p Product
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

func (r *mongoProducts) AdjustStock(ctx context.Context, id string, delta int64) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": oid}
	if delta < 0 {
		// Check and decrement must be one atomic update.
		filter["stock"] = bson.M{"$gte": -delta}
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if res.MatchedCount == 0 {
		if delta < 0 {
			return ErrInsufficientStock
		}
		return ErrNotFound
	}
	return nil
}

type mongoCategories struct {
	col *mongo.Collection
}

func (r *mongoCategories) ListActive(ctx context.Context) ([]Category, error) {
	cur, err := r.col.Find(ctx, bson.M{"isActive": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var categories []Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

type mongoOffers struct {
	col *mongo.Collection
}

func (r *mongoOffers) ListCurrent(ctx context.Context) ([]Offer, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"isActive":  true,
		"validFrom": bson.M{"$lte": now},
		"$or": bson.A{
			bson.M{"validTo": nil},
			bson.M{"validTo": bson.M{"$gte": now}},
		},
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	var offers []Offer
	if err := cur.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("decode offers: %w", err)
	}
	return offers, nil
}

type mongoCustomers struct {
	col *mongo.Collection
}

func (r *mongoCustomers) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	var c Customer
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	return &c, nil
}

func (r *mongoCustomers) FindByID(ctx context.Context, id string) (*Customer, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var c Customer
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}

func (r *mongoCustomers) Create(ctx context.Context, c *Customer) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create customer: %w", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

type mongoOrders struct {
	col *mongo.Collection
}

func (r *mongoOrders) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	oid, err := parseObjectID(customerID)
	if err != nil {
		return nil, err
	}
	cur, err := r.col.Find(ctx, bson.M{"customerId": oid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var orders []Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrders) FindByID(ctx context.Context, id string) (*Order, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var o Order
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

func (r *mongoOrders) Create(ctx context.Context, o *Order) error {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, o)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		o.ID = oid
	}
	return nil
}

func (r *mongoOrders) SetPayment(ctx context.Context, id string, status string, details PaymentDetails) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	set := bson.M{
		"paymentStatus": status,
		"updatedAt":     time.Now().UTC(),
	}
	switch status {
	case PaymentStatusPaid:
		set["status"] = OrderStatusProcessing
	case PaymentStatusFailed, PaymentStatusRefunded:
		set["status"] = OrderStatusCancelled
	}
	if details.TransactionID != "" {
		set["paymentDetails.transactionId"] = details.TransactionID
	}
	if details.PaymentIntentID != "" {
		set["paymentDetails.paymentIntentId"] = details.PaymentIntentID
	}
	if details.Method != "" {
		set["paymentDetails.method"] = details.Method
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update order payment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoPayments struct {
	col *mongo.Collection
}

func (r *mongoPayments) Create(ctx context.Context, p *Payment) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *mongoPayments) FindByPaymentID(ctx context.Context, paymentID string) (*Payment, error) {
	var p Payment
	if err := r.col.FindOne(ctx, bson.M{"paymentId": paymentID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &p, nil
}

func (r *mongoPayments) SetStatus(ctx context.Context, paymentID string, status string, transactionRef string) error {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}
	if transactionRef != "" {
		set["transactionRef"] = transactionRef
	}
	if status == PaymentStatusPaid {
		set["paidAt"] = time.Now().UTC()
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"paymentId": paymentID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoGateways struct {
	col *mongo.Collection
}

func (r *mongoGateways) FindByStore(ctx context.Context, storeID string) (*GatewaySettings, error) {
	var g GatewaySettings
	if err := r.col.FindOne(ctx, bson.M{"storeId": storeID}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find gateway settings: %w", err)
	}
	return &g, nil
}
