package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

// Keys:
//
//	<prefix>client:<client_id>  JSON storedClient
//	<prefix>clients             ZSET of client_id scored by created_at
type clientsRepo struct {
	rdb    redis.UniversalClient
	prefix string
}

// storedClient is the JSON form of a client. The plaintext secret is never written.
type storedClient struct {
	ID                       string   `json:"id"`
	ClientID                 string   `json:"client_id"`
	ClientIDIssuedAt         int64    `json:"client_id_issued_at"`
	SecretHash               string   `json:"secret_hash,omitempty"`
	SecretSealed             string   `json:"secret_sealed,omitempty"`
	ClientSecretExpiresAt    *int64   `json:"client_secret_expires_at,omitempty"`
	ClientName               string   `json:"client_name,omitempty"`
	RedirectURIs             []string `json:"redirect_uris"`
	GrantTypes               []string `json:"grant_types"`
	ResponseTypes            []string `json:"response_types"`
	Scopes                   []string `json:"scopes,omitempty"`
	TokenEndpointAuthMethod  string   `json:"token_endpoint_auth_method"`
	IDTokenSignedResponseAlg string   `json:"id_token_signed_response_alg"`
	Protected                bool     `json:"protected,omitempty"`
	CreatedAt                int64    `json:"created_at"`
}

func (r *clientsRepo) clientKey(clientID string) string { return r.prefix + "client:" + clientID }
func (r *clientsRepo) indexKey() string                 { return r.prefix + "clients" }

func (r *clientsRepo) GetClientByClientID(ctx context.Context, clientID string) (domain.RegisteredClient, error) {
	data, err := r.rdb.Get(ctx, r.clientKey(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.RegisteredClient{}, store.ErrNotFound
		}
		return domain.RegisteredClient{}, fmt.Errorf("redis: get client: %w", err)
	}
	return decodeClient(data)
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.RegisteredClient, error) {
	ids, err := r.rdb.ZRevRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list clients: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.clientKey(id)
	}
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list clients: %w", err)
	}

	clients := make([]domain.RegisteredClient, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue // deleted between ZREVRANGE and MGET
		}
		c, err := decodeClient([]byte(s))
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// CreateClient claims the client key with SETNX, so concurrent registrations
// of the same client_id cannot overwrite each other.
func (r *clientsRepo) CreateClient(ctx context.Context, c domain.RegisteredClient) error {
	data, err := json.Marshal(encodeClient(c))
	if err != nil {
		return fmt.Errorf("redis: marshal client: %w", err)
	}

	ok, err := r.rdb.SetNX(ctx, r.clientKey(c.ClientID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis: create client: %w", err)
	}
	if !ok {
		return store.ErrAlreadyExists
	}

	member := redis.Z{Score: float64(c.CreatedAt.Unix()), Member: c.ClientID}
	if err := r.rdb.ZAdd(ctx, r.indexKey(), member).Err(); err != nil {
		_ = r.rdb.Del(ctx, r.clientKey(c.ClientID)).Err()
		return fmt.Errorf("redis: index client: %w", err)
	}
	return nil
}

func (r *clientsRepo) DeleteClient(ctx context.Context, clientID string) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.clientKey(clientID))
		pipe.ZRem(ctx, r.indexKey(), clientID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: delete client: %w", err)
	}
	return nil
}

func (r *clientsRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.rdb.ZCard(ctx, r.indexKey()).Result()
	if err != nil {
		return false, fmt.Errorf("redis: count clients: %w", err)
	}
	return n == 0, nil
}

func encodeClient(c domain.RegisteredClient) storedClient {
	var expiresAt *int64
	if c.ClientSecretExpiresAt != nil {
		v := c.ClientSecretExpiresAt.Unix()
		expiresAt = &v
	}
	return storedClient{
		ID:                       c.ID,
		ClientID:                 c.ClientID,
		ClientIDIssuedAt:         c.ClientIDIssuedAt.Unix(),
		SecretHash:               c.SecretHash,
		SecretSealed:             c.SecretSealed,
		ClientSecretExpiresAt:    expiresAt,
		ClientName:               c.ClientName,
		RedirectURIs:             c.RedirectURIs,
		GrantTypes:               c.GrantTypes,
		ResponseTypes:            c.ResponseTypes,
		Scopes:                   c.Scopes,
		TokenEndpointAuthMethod:  c.TokenEndpointAuthMethod,
		IDTokenSignedResponseAlg: c.IDTokenSignedResponseAlg,
		Protected:                c.Protected,
		CreatedAt:                c.CreatedAt.Unix(),
	}
}

func decodeClient(data []byte) (domain.RegisteredClient, error) {
	var sc storedClient
	if err := json.Unmarshal(data, &sc); err != nil {
		return domain.RegisteredClient{}, fmt.Errorf("redis: decode client: %w", err)
	}

	var expiresAt *time.Time
	if sc.ClientSecretExpiresAt != nil {
		t := time.Unix(*sc.ClientSecretExpiresAt, 0).UTC()
		expiresAt = &t
	}
	return domain.RegisteredClient{
		ID:                       sc.ID,
		ClientID:                 sc.ClientID,
		ClientIDIssuedAt:         time.Unix(sc.ClientIDIssuedAt, 0).UTC(),
		SecretHash:               sc.SecretHash,
		SecretSealed:             sc.SecretSealed,
		ClientSecretExpiresAt:    expiresAt,
		ClientName:               sc.ClientName,
		RedirectURIs:             sc.RedirectURIs,
		GrantTypes:               sc.GrantTypes,
		ResponseTypes:            sc.ResponseTypes,
		Scopes:                   sc.Scopes,
		TokenEndpointAuthMethod:  sc.TokenEndpointAuthMethod,
		IDTokenSignedResponseAlg: sc.IDTokenSignedResponseAlg,
		Protected:                sc.Protected,
		CreatedAt:                time.Unix(sc.CreatedAt, 0).UTC(),
	}, nil
}
