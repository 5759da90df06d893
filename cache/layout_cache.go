package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yeremiapane/floorplan-admin/models"
)

const (
	keyPrefix = "floorplan:layout:"
	genPrefix = "floorplan:layoutgen:"
)

// LayoutCache keeps serialized zone layouts in Redis. A nil *LayoutCache or
// one without a client is a valid, disabled cache.
//
// Every zone has a generation counter that Invalidate increments. A fill only
// lands if the generation read before the database query is still current, so
// a layout read concurrently with a mutation is never cached.
type LayoutCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLayoutCache(client *redis.Client, ttl time.Duration) *LayoutCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LayoutCache{client: client, ttl: ttl}
}

func (lc *LayoutCache) Enabled() bool {
	return lc != nil && lc.client != nil
}

func key(zoneID string) string {
	return keyPrefix + zoneID
}

func genKey(zoneID string) string {
	return genPrefix + zoneID
}

// Get returns the cached layout for zoneID; ok is false on a miss.
func (lc *LayoutCache) Get(ctx context.Context, zoneID string) (*models.ZoneLayout, bool, error) {
	if !lc.Enabled() {
		return nil, false, nil
	}
	raw, err := lc.client.Get(ctx, key(zoneID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var layout models.ZoneLayout
	if err := json.Unmarshal(raw, &layout); err != nil {
		return nil, false, err
	}
	return &layout, true, nil
}

// Generation returns the current generation of zoneID. Read it before
// querying the database and hand it to Set.
func (lc *LayoutCache) Generation(ctx context.Context, zoneID string) (int64, error) {
	if !lc.Enabled() {
		return 0, nil
	}
	return readGeneration(ctx, lc.client, zoneID)
}

func readGeneration(ctx context.Context, c redis.Cmdable, zoneID string) (int64, error) {
	gen, err := c.Get(ctx, genKey(zoneID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set stores layout if zoneID is still at generation gen. stored is false when
// an invalidation happened since gen was read.
func (lc *LayoutCache) Set(ctx context.Context, zoneID string, gen int64, layout *models.ZoneLayout) (stored bool, err error) {
	if !lc.Enabled() || layout == nil {
		return false, nil
	}
	raw, err := json.Marshal(layout)
	if err != nil {
		return false, err
	}

	err = lc.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, zoneID)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(zoneID), raw, lc.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey(zoneID))
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

// Invalidate drops the cached layouts of the given zones and bumps their
// generation so in-flight fills are discarded.
func (lc *LayoutCache) Invalidate(ctx context.Context, zoneIDs ...string) error {
	if !lc.Enabled() || len(zoneIDs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(zoneIDs))
	for _, id := range zoneIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := lc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Incr(ctx, genKey(id))
			pipe.Del(ctx, key(id))
		}
		return nil
	})
	return err
}
