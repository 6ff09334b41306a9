package addressval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/shiplabel/shiplabel-backend/internal/domain"
)

const DefaultCacheTTL = 24 * time.Hour

type redisCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisCache connects to addr and verifies it with a ping.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (Cache, func() error, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &redisCache{rdb: rdb, ttl: ttl}, rdb.Close, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (*types.AddressDraft, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var addr types.AddressDraft
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, fmt.Errorf("decode cached address: %w", err)
	}
	return &addr, nil
}

func (c *redisCache) Set(ctx context.Context, key string, addr types.AddressDraft) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}
