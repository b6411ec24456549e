package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations
	defaultOperationTimeout = 5 * time.Second

	blockTTL      = 1 * time.Hour
	userBlocksTTL = 5 * time.Minute
)

var (
	ErrCacheDisabled = errors.New("cache disabled")
	ErrCacheMiss     = errors.New("key not found")
)

type Cache struct {
	client  *redis.Client
	enabled bool
}

// NewCache connects to Redis. addr accepts either host:port or a redis:// URL.
// When enable is false a no-op cache is returned.
func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	options := &redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}
		parsed.PoolSize = options.PoolSize
		parsed.MinIdleConns = options.MinIdleConns
		parsed.DialTimeout = options.DialTimeout
		parsed.ReadTimeout = options.ReadTimeout
		parsed.WriteTimeout = options.WriteTimeout
		options = parsed
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:  client,
		enabled: true,
	}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// operationContext creates a context with timeout for Redis operations
func (c *Cache) operationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultOperationTimeout)
}

func (c *Cache) Set(key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Delete(key string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *Cache) DeletePattern(pattern string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func BlockKey(blockID uint) string {
	return fmt.Sprintf("block:%d", blockID)
}

func UserBlocksKey(userID uint) string {
	return fmt.Sprintf("blocks:user:%d", userID)
}

func (c *Cache) CacheBlock(blockID uint, block interface{}) error {
	return c.Set(BlockKey(blockID), block, blockTTL)
}

func (c *Cache) GetCachedBlock(blockID uint, dest interface{}) error {
	return c.Get(BlockKey(blockID), dest)
}

func (c *Cache) InvalidateBlock(blockID uint) error {
	return c.Delete(BlockKey(blockID))
}

func (c *Cache) CacheUserBlocks(userID uint, blocks interface{}) error {
	return c.Set(UserBlocksKey(userID), blocks, userBlocksTTL)
}

func (c *Cache) GetCachedUserBlocks(userID uint, dest interface{}) error {
	return c.Get(UserBlocksKey(userID), dest)
}

func (c *Cache) InvalidateUserBlocks(userID uint) error {
	return c.Delete(UserBlocksKey(userID))
}

// InvalidateAllBlocks drops every cached block record and listing.
func (c *Cache) InvalidateAllBlocks() error {
	if err := c.DeletePattern("block:*"); err != nil {
		return err
	}
	return c.DeletePattern("blocks:*")
}
