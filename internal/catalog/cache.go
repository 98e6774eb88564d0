package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// SnapshotSource loads the authoritative product record on a cache miss.
type SnapshotSource interface {
	Get(ctx context.Context, id int64) (Product, error)
}

// Lookup is a read-through Redis cache over the product repository.
// Concurrent misses for the same product are collapsed into a single load.
// Redis being unavailable degrades to direct repository reads.
type Lookup struct {
	source SnapshotSource
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewLookup builds a Lookup.
func NewLookup(source SnapshotSource, client *redis.Client, ttl time.Duration) *Lookup {
	return &Lookup{source: source, client: client, ttl: ttl}
}

func lookupKey(id int64) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

// Snapshot returns the product as of now, serving from cache when possible.
func (l *Lookup) Snapshot(ctx context.Context, id int64) (Product, error) {
	if l.client == nil {
		return l.source.Get(ctx, id)
	}
	key := lookupKey(id)
	raw, err := l.client.Get(ctx, key).Bytes()
	if err == nil {
		var p Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return l.source.Get(ctx, id)
	}

	value, err, _ := l.group.Do(key, func() (any, error) {
		p, err := l.source.Get(ctx, id)
		if err != nil {
			return Product{}, err
		}
		if data, err := json.Marshal(p); err == nil {
			l.client.Set(ctx, key, data, l.ttl)
		}
		return p, nil
	})
	if err != nil {
		return Product{}, err
	}
	return value.(Product), nil
}

// Invalidate drops the cached snapshot after a product change.
func (l *Lookup) Invalidate(ctx context.Context, id int64) error {
	if l.client == nil {
		return nil
	}
	return l.client.Del(ctx, lookupKey(id)).Err()
}
