package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arcadegrid/arcadegrid-backend/pkg/logging"
)

// Client wraps the redis client used for read caches. The engine treats it
// as optional: a nil *Client degrades every caller to its backing store.
type Client struct {
	client *redis.Client
	logger logging.Logger
}

// NewClient connects to redis at the given address. An empty address is not
// an error from the caller's perspective; it reports ErrNotConfigured so the
// service can run without a cache.
var ErrNotConfigured = errors.New("redis address not configured")

func NewClient(addr string, logger logging.Logger) (*Client, error) {
	if addr == "" {
		return nil, ErrNotConfigured
	}

	opt, err := redis.ParseURL(addr)
	if err != nil {
		// Allow plain host:port addresses as well as redis:// URLs.
		opt = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Infof("Connected to redis at %s", addr)
	return &Client{client: client, logger: logger}, nil
}

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *Client) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
