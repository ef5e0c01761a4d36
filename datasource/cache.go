package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shyptr/serlo-gateway/model"
	"golang.org/x/sync/singleflight"
)

type aliasKey struct {
	instance model.Instance
	path     string
}

// SharedFetchTimeout bounds a backend call shared by concurrent misses. The call is detached
// from the cancellation of the request that started it.
const SharedFetchTimeout = 30 * time.Second

// Cache decorates a Serlo data source with expiring LRU caches. Concurrent misses for the same
// key share one backend call. Not found results are cached as well.
type Cache struct {
	next    Serlo
	metrics *Metrics
	group   singleflight.Group

	uuids         *expirable.LRU[int, model.Payload]
	aliases       *expirable.LRU[aliasKey, *model.Alias]
	licenses      *expirable.LRU[int, *model.License]
	events        *expirable.LRU[int, model.Payload]
	notifications *expirable.LRU[int, *model.Notifications]
}

var (
	_ Serlo      = (*Cache)(nil)
	_ CacheAdmin = (*Cache)(nil)
)

// NewCache wraps next. Every cache holds at most size entries for at most ttl.
func NewCache(next Serlo, size int, ttl time.Duration, metrics *Metrics) *Cache {
	return &Cache{
		next:          next,
		metrics:       metrics,
		uuids:         expirable.NewLRU[int, model.Payload](size, nil, ttl),
		aliases:       expirable.NewLRU[aliasKey, *model.Alias](size, nil, ttl),
		licenses:      expirable.NewLRU[int, *model.License](size, nil, ttl),
		events:        expirable.NewLRU[int, model.Payload](size, nil, ttl),
		notifications: expirable.NewLRU[int, *model.Notifications](size, nil, ttl),
	}
}

func cached[K comparable, V any](ctx context.Context, c *Cache, name string, cache *expirable.LRU[K, V], key K,
	fetch func(ctx context.Context) (V, error)) (V, error) {
	var zero V
	if value, ok := cache.Get(key); ok {
		c.metrics.cacheLookup(name, true)
		return value, nil
	}
	c.metrics.cacheLookup(name, false)
	ch := c.group.DoChan(fmt.Sprintf("%s:%v", name, key), func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedFetchTimeout)
		defer cancel()
		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		cache.Add(key, value)
		return value, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (c *Cache) GetUUID(ctx context.Context, id int) (model.Payload, error) {
	return cached(ctx, c, "uuid", c.uuids, id, func(ctx context.Context) (model.Payload, error) {
		return c.next.GetUUID(ctx, id)
	})
}

func (c *Cache) GetAlias(ctx context.Context, instance model.Instance, path string) (*model.Alias, error) {
	return cached(ctx, c, "alias", c.aliases, aliasKey{instance, path}, func(ctx context.Context) (*model.Alias, error) {
		return c.next.GetAlias(ctx, instance, path)
	})
}

func (c *Cache) GetLicense(ctx context.Context, id int) (*model.License, error) {
	return cached(ctx, c, "license", c.licenses, id, func(ctx context.Context) (*model.License, error) {
		return c.next.GetLicense(ctx, id)
	})
}

func (c *Cache) GetNotificationEvent(ctx context.Context, id int) (model.Payload, error) {
	return cached(ctx, c, "event", c.events, id, func(ctx context.Context) (model.Payload, error) {
		return c.next.GetNotificationEvent(ctx, id)
	})
}

func (c *Cache) GetNotifications(ctx context.Context, userID int) (*model.Notifications, error) {
	return cached(ctx, c, "notifications", c.notifications, userID, func(ctx context.Context) (*model.Notifications, error) {
		return c.next.GetNotifications(ctx, userID)
	})
}

// SetNotificationState writes through and drops the cached notifications of the user.
func (c *Cache) SetNotificationState(ctx context.Context, state model.NotificationState) error {
	if err := c.next.SetNotificationState(ctx, state); err != nil {
		return err
	}
	c.notifications.Remove(state.UserID)
	return nil
}

// RemoveUUID evicts the cached payload of a uuid.
func (c *Cache) RemoveUUID(ctx context.Context, id int) error {
	c.uuids.Remove(id)
	return nil
}

// SetNotifications replaces the cached notifications of a user.
func (c *Cache) SetNotifications(ctx context.Context, notifications model.Notifications) error {
	c.notifications.Add(notifications.UserID, &notifications)
	return nil
}
