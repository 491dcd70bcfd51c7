package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/richardliu001/point-service/internal/model"
	"go.uber.org/zap"
)

// CachedPointStore puts a redis read-through, write-through cache in front of a PointStore.
// Cache failures are logged and never fail the call.
type CachedPointStore struct {
	next PointStore
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.SugaredLogger
}

// NewCachedPointStore wraps next.
func NewCachedPointStore(next PointStore, rdb *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedPointStore {
	return &CachedPointStore{next: next, rdb: rdb, ttl: ttl, log: logger}
}

type cachedPoint struct {
	ID        int64     `json:"id"`
	Point     int64     `json:"point"`
	UpdatedAt time.Time `json:"updated_at"`
}

func pointKey(id int64) string { return fmt.Sprintf("point:%d", id) }

func encodePoint(p model.UserPoint) (string, error) {
	b, err := json.Marshal(cachedPoint{ID: p.ID, Point: p.Point, UpdatedAt: p.UpdatedAt})
	return string(b), err
}

// Get reads redis first and falls back to the wrapped store.
func (c *CachedPointStore) Get(ctx context.Context, id int64) (model.UserPoint, error) {
	str, err := c.rdb.Get(ctx, pointKey(id)).Result()
	switch {
	case err == nil:
		var cp cachedPoint
		if err := json.Unmarshal([]byte(str), &cp); err == nil {
			return model.UserPoint{ID: cp.ID, Point: cp.Point, UpdatedAt: cp.UpdatedAt}, nil
		}
		c.log.Warnw("drop undecodable cached point", "user_id", id)
	case !errors.Is(err, redis.Nil):
		c.log.Warnw("read cached point", "user_id", id, "err", err)
	}

	p, err := c.next.Get(ctx, id)
	if err != nil {
		return model.UserPoint{}, err
	}
	c.cache(ctx, p)
	return p, nil
}

// GetForUpdate bypasses redis and reads the wrapped store.
func (c *CachedPointStore) GetForUpdate(ctx context.Context, id int64) (model.UserPoint, error) {
	return c.next.Get(ctx, id)
}

// Put writes the wrapped store, then refreshes redis. If the refresh fails the
// key is dropped so readers fall back to the store instead of an old value.
func (c *CachedPointStore) Put(ctx context.Context, p model.UserPoint) (model.UserPoint, error) {
	stored, err := c.next.Put(ctx, p)
	if err != nil {
		return model.UserPoint{}, err
	}
	if !c.cache(ctx, stored) {
		c.evict(ctx, stored.ID)
	}
	return stored, nil
}

func (c *CachedPointStore) cache(ctx context.Context, p model.UserPoint) bool {
	val, err := encodePoint(p)
	if err != nil {
		c.log.Warnw("encode cached point", "user_id", p.ID, "err", err)
		return false
	}
	if err := c.rdb.Set(ctx, pointKey(p.ID), val, c.ttl).Err(); err != nil {
		c.log.Warnw("write cached point", "user_id", p.ID, "err", err)
		return false
	}
	return true
}

func (c *CachedPointStore) evict(ctx context.Context, id int64) {
	if err := c.rdb.Del(ctx, pointKey(id)).Err(); err != nil {
		c.log.Errorw("evict cached point", "user_id", id, "err", err)
	}
}

var (
	_ PointStore      = (*CachedPointStore)(nil)
	_ ForUpdateReader = (*CachedPointStore)(nil)
)
