package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

// Signing keys live in a single hash, <prefix>signing_keys, keyed by kid.
// The set is small (a handful of keys) so filtering happens client side.
type signingKeysRepo struct {
	rdb    redis.UniversalClient
	prefix string
}

type storedSigningKey struct {
	ID                  string `json:"id"`
	Kid                 string `json:"kid"`
	Algorithm           string `json:"algorithm"`
	PrivateKeyEncrypted []byte `json:"private_key_encrypted"`
	CreatedAt           int64  `json:"created_at"`
	RetiredAt           *int64 `json:"retired_at,omitempty"`
	ExpiresAt           int64  `json:"expires_at"`
}

func (r *signingKeysRepo) hashKey() string { return r.prefix + "signing_keys" }

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, key domain.SigningKey) error {
	data, err := json.Marshal(encodeSigningKey(key))
	if err != nil {
		return fmt.Errorf("redis: marshal signing key: %w", err)
	}

	ok, err := r.rdb.HSetNX(ctx, r.hashKey(), key.Kid, data).Result()
	if err != nil {
		return fmt.Errorf("redis: create signing key: %w", err)
	}
	if !ok {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *signingKeysRepo) GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error) {
	data, err := r.rdb.HGet(ctx, r.hashKey(), kid).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SigningKey{}, store.ErrNotFound
		}
		return domain.SigningKey{}, fmt.Errorf("redis: get signing key: %w", err)
	}
	return decodeSigningKey(data)
}

func (r *signingKeysRepo) ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	now := time.Now()
	return r.list(ctx, func(k domain.SigningKey) bool { return k.IsActive(now) })
}

func (r *signingKeysRepo) ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	now := time.Now()
	return r.list(ctx, func(k domain.SigningKey) bool { return !k.IsExpired(now) })
}

func (r *signingKeysRepo) RetireSigningKey(ctx context.Context, kid string) error {
	key, err := r.GetSigningKeyByKid(ctx, kid)
	if err != nil {
		return err
	}
	if key.RetiredAt != nil {
		return nil
	}

	now := time.Now().UTC()
	key.RetiredAt = &now
	data, err := json.Marshal(encodeSigningKey(key))
	if err != nil {
		return fmt.Errorf("redis: marshal signing key: %w", err)
	}
	return r.rdb.HSet(ctx, r.hashKey(), kid, data).Err()
}

func (r *signingKeysRepo) DeleteExpiredSigningKeys(ctx context.Context) (int64, error) {
	now := time.Now()
	all, err := r.list(ctx, func(k domain.SigningKey) bool { return k.IsExpired(now) })
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}

	kids := make([]string, len(all))
	for i, k := range all {
		kids[i] = k.Kid
	}
	n, err := r.rdb.HDel(ctx, r.hashKey(), kids...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: delete expired signing keys: %w", err)
	}
	return n, nil
}

func (r *signingKeysRepo) list(ctx context.Context, keep func(domain.SigningKey) bool) ([]domain.SigningKey, error) {
	raw, err := r.rdb.HGetAll(ctx, r.hashKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list signing keys: %w", err)
	}

	keys := make([]domain.SigningKey, 0, len(raw))
	for _, v := range raw {
		k, err := decodeSigningKey([]byte(v))
		if err != nil {
			return nil, err
		}
		if keep(k) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].CreatedAt.After(keys[j].CreatedAt) })
	return keys, nil
}

func encodeSigningKey(k domain.SigningKey) storedSigningKey {
	var retiredAt *int64
	if k.RetiredAt != nil {
		v := k.RetiredAt.Unix()
		retiredAt = &v
	}
	return storedSigningKey{
		ID:                  k.ID,
		Kid:                 k.Kid,
		Algorithm:           k.Algorithm,
		PrivateKeyEncrypted: k.PrivateKeyEncrypted,
		CreatedAt:           k.CreatedAt.Unix(),
		RetiredAt:           retiredAt,
		ExpiresAt:           k.ExpiresAt.Unix(),
	}
}

func decodeSigningKey(data []byte) (domain.SigningKey, error) {
	var sk storedSigningKey
	if err := json.Unmarshal(data, &sk); err != nil {
		return domain.SigningKey{}, fmt.Errorf("redis: decode signing key: %w", err)
	}

	var retiredAt *time.Time
	if sk.RetiredAt != nil {
		t := time.Unix(*sk.RetiredAt, 0).UTC()
		retiredAt = &t
	}
	return domain.SigningKey{
		ID:                  sk.ID,
		Kid:                 sk.Kid,
		Algorithm:           sk.Algorithm,
		PrivateKeyEncrypted: sk.PrivateKeyEncrypted,
		CreatedAt:           time.Unix(sk.CreatedAt, 0).UTC(),
		RetiredAt:           retiredAt,
		ExpiresAt:           time.Unix(sk.ExpiresAt, 0).UTC(),
	}, nil
}
