package directory

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// redisKeyPrefix namespaces store records in a shared Redis instance.
const redisKeyPrefix = "storefront:store:"

// redisCache shares looked-up records between service instances, so a cold
// instance does not re-query the control plane for stores its peers
// already resolved.
//
// Records are serialized as BSON: the JSON tags on StoreRecord hide the
// API secret from HTTP responses, and the cache must keep it.
type redisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a Redis-backed record cache. The client is owned
// by the caller and is not closed by Close.
func NewRedisCache(client redis.UniversalClient) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, storeID string) (*StoreRecord, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+storeID).Bytes()
	if err != nil {
		return nil, false
	}
	var rec StoreRecord
	if err := bson.Unmarshal(payload, &rec); err != nil {
		// Unreadable entries are dropped so the next lookup refreshes them.
		c.client.Del(ctx, redisKeyPrefix+storeID)
		return nil, false
	}
	return &rec, true
}

func (c *redisCache) Set(ctx context.Context, storeID string, rec *StoreRecord, ttl time.Duration) {
	payload, err := bson.Marshal(rec)
	if err != nil {
		return
	}
	c.client.Set(ctx, redisKeyPrefix+storeID, payload, ttl)
}

func (c *redisCache) Delete(ctx context.Context, storeID string) {
	c.client.Del(ctx, redisKeyPrefix+storeID)
}

func (c *redisCache) Close() error { return nil }
