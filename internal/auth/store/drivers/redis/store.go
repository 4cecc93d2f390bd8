// Package redis stores clients and signing keys in Redis so several
// registrar replicas can share one registry.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

// Default timeouts for Redis operations.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultReadTimeout  = 3 * time.Second
	DefaultWriteTimeout = 3 * time.Second
)

// DefaultKeyPrefix namespaces every key the store writes.
const DefaultKeyPrefix = "registrar:"

type Config struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix defaults to DefaultKeyPrefix.
	KeyPrefix string
}

type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ store.Store = (*Store)(nil)

// NewStore connects to Redis and verifies the connection with a PING.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  DefaultDialTimeout,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: failed to connect: %w", err)
	}

	return NewStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewStoreWithClient wraps an existing client. Tests use it with miniredis.
func NewStoreWithClient(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Clients() store.Clients { return &clientsRepo{rdb: s.client, prefix: s.prefix} }
func (s *Store) SigningKeys() store.SigningKeys {
	return &signingKeysRepo{rdb: s.client, prefix: s.prefix}
}

// ApplyMigrations is a no-op; Redis has no schema.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
