package directory

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// storesCollection is the control-plane collection holding store records.
const storesCollection = "stores"

// StoreRecord is a control-plane entry mapping a customer-facing store to
// the tenant whose isolated database backs it. StoreID and TenantID are
// each globally unique and immutable after provisioning.
type StoreRecord struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"-"`
	StoreID      string        `bson:"storeId" json:"store_id"`
	TenantID     string        `bson:"tenantId" json:"tenant_id"`
	StoreName    string        `bson:"storeName" json:"store_name"`
	SecretAPIKey string        `bson:"secretApiKey" json:"-"`
	Category     string        `bson:"category" json:"category,omitempty"`
	GSTNumber    string        `bson:"gstNumber" json:"gst_number,omitempty"`
	CreatedBy    bson.ObjectID `bson:"createdBy,omitempty" json:"-"`
	CreatedAt    time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updated_at"`
}
