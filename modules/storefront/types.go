package storefront

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Order lifecycle states.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment states shared by orders and payment records.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Product status required for storefront visibility.
const ProductStatusPublished = "published"

// Product is a catalog item in a tenant database.
type Product struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Slug        string        `bson:"slug" json:"slug"`
	Description string        `bson:"description" json:"description"`
	Price       float64       `bson:"price" json:"price"`
	CategoryID  bson.ObjectID `bson:"category,omitempty" json:"category_id,omitempty"`
	Images      []string      `bson:"images,omitempty" json:"images,omitempty"`
	Stock       int64         `bson:"stock" json:"stock"`
	IsActive    bool          `bson:"isActive" json:"is_active"`
	Status      string        `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updated_at"`
}

// Category groups products.
type Category struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Slug      string        `bson:"slug" json:"slug"`
	IsActive  bool          `bson:"isActive" json:"is_active"`
	CreatedAt time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updated_at"`
}

// Offer is a time-bounded discount. A nil ValidTo means open-ended.
type Offer struct {
	ID                   bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name                 string          `bson:"name" json:"name"`
	Description          string          `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType         string          `bson:"discountType" json:"discount_type"`
	DiscountValue        float64         `bson:"discountValue" json:"discount_value"`
	ValidFrom            time.Time       `bson:"validFrom" json:"valid_from"`
	ValidTo              *time.Time      `bson:"validTo,omitempty" json:"valid_to,omitempty"`
	IsActive             bool            `bson:"isActive" json:"is_active"`
	ApplicableProducts   []bson.ObjectID `bson:"applicableProducts,omitempty" json:"applicable_products,omitempty"`
	ApplicableCategories []bson.ObjectID `bson:"applicableCategories,omitempty" json:"applicable_categories,omitempty"`
	CreatedAt            time.Time       `bson:"createdAt" json:"created_at"`
	UpdatedAt            time.Time       `bson:"updatedAt" json:"updated_at"`
}

// Address is a customer shipping address.
type Address struct {
	Street    string `bson:"street,omitempty" json:"street,omitempty"`
	City      string `bson:"city,omitempty" json:"city,omitempty"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`
	Zip       string `bson:"zip,omitempty" json:"zip,omitempty"`
	Country   string `bson:"country,omitempty" json:"country,omitempty"`
	IsDefault bool   `bson:"isDefault,omitempty" json:"is_default,omitempty"`
}

// Customer is a registered storefront customer. PasswordHash never leaves
// the tenant database.
type Customer struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string        `bson:"firstName" json:"first_name"`
	LastName     string        `bson:"lastName" json:"last_name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash []byte        `bson:"password" json:"-"`
	Phone        string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Addresses    []Address     `bson:"addresses,omitempty" json:"addresses,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updated_at"`
}

// OrderItem snapshots the product name and price at order time.
type OrderItem struct {
	ProductID bson.ObjectID `bson:"productId" json:"product_id"`
	Name      string        `bson:"name" json:"name"`
	Quantity  int64         `bson:"quantity" json:"quantity"`
	Price     float64       `bson:"price" json:"price"`
}

// ShippingAddress is the required delivery address of an order.
type ShippingAddress struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Zip     string `bson:"zip" json:"zip"`
	Country string `bson:"country" json:"country"`
}

// PaymentDetails records the gateway references attached to an order.
type PaymentDetails struct {
	TransactionID   string `bson:"transactionId,omitempty" json:"transaction_id,omitempty"`
	PaymentIntentID string `bson:"paymentIntentId,omitempty" json:"payment_intent_id,omitempty"`
	Method          string `bson:"method,omitempty" json:"method,omitempty"`
}

// Order is a customer order in a tenant database.
type Order struct {
	ID              bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	CustomerID      bson.ObjectID   `bson:"customerId" json:"customer_id"`
	Items           []OrderItem     `bson:"items" json:"items"`
	TotalAmount     float64         `bson:"totalAmount" json:"total_amount"`
	Status          string          `bson:"status" json:"status"`
	ShippingAddress ShippingAddress `bson:"shippingAddress" json:"shipping_address"`
	PaymentStatus   string          `bson:"paymentStatus" json:"payment_status"`
	PaymentDetails  PaymentDetails  `bson:"paymentDetails,omitempty" json:"payment_details,omitempty"`
	CreatedAt       time.Time       `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updated_at"`
}

// Payment tracks a payment intent and its gateway outcome.
type Payment struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	PaymentID      string        `bson:"paymentId" json:"payment_id"`
	OrderID        bson.ObjectID `bson:"orderId" json:"order_id"`
	StoreID        string        `bson:"storeId" json:"store_id"`
	TenantID       string        `bson:"tenantId" json:"tenant_id"`
	CustomerID     bson.ObjectID `bson:"customerId" json:"customer_id"`
	CustomerEmail  string        `bson:"customerEmail" json:"customer_email"`
	Method         string        `bson:"method" json:"method"`
	Amount         float64       `bson:"amount" json:"amount"`
	TransactionRef string        `bson:"transactionRef,omitempty" json:"transaction_ref,omitempty"`
	Status         string        `bson:"status" json:"status"`
	PaidAt         *time.Time    `bson:"paidAt,omitempty" json:"paid_at,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updated_at"`
}

// GatewayCredentials is one gateway's per-store configuration. Only the
// public half is ever exposed to storefront clients.
type GatewayCredentials struct {
	KeyID          string `bson:"key_id,omitempty" json:"-"`
	KeySecret      string `bson:"key_secret,omitempty" json:"-"`
	PublishableKey string `bson:"publishable_key,omitempty" json:"-"`
	SecretKey      string `bson:"secret_key,omitempty" json:"-"`
	MerchantID     string `bson:"merchant_id,omitempty" json:"-"`
}

// GatewaySettings is the per-store payment gateway configuration.
type GatewaySettings struct {
	ID        bson.ObjectID      `bson:"_id,omitempty" json:"-"`
	StoreID   string             `bson:"storeId" json:"store_id"`
	Razorpay  GatewayCredentials `bson:"razorpay,omitempty" json:"-"`
	Stripe    GatewayCredentials `bson:"stripe,omitempty" json:"-"`
	PhonePe   GatewayCredentials `bson:"phonepe,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"-"`
}
