// Package redis provides the Redis key-value store behind the search result
// cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/gearcatalog-backend/internal/config"
)

// ErrKeyNotFound is returned by Store.Get for a missing or expired key.
var ErrKeyNotFound = errors.New("key not found")

// NewClient connects to Redis and pings it.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Store is a prefixed key-value store with a fixed TTL.
type Store struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore wraps client. Every key is prefixed with prefix and every value
// expires after ttl.
func NewStore(client goredis.UniversalClient, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the value stored under key or ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Flush deletes every key under the store prefix. It is used after catalog
// imports so cached pages never outlive the data they were built from.
func (s *Store) Flush(ctx context.Context) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("redis delete: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("redis scan: %w", err)
	}
	return deleted, nil
}

// Pinger adapts a client to the readiness checks of the HTTP health handler.
type Pinger struct {
	client goredis.UniversalClient
}

// NewPinger wraps client.
func NewPinger(client goredis.UniversalClient) *Pinger {
	return &Pinger{client: client}
}

// Name identifies the dependency in health responses.
func (p *Pinger) Name() string { return "redis" }

// Ping checks that the server answers.
func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
