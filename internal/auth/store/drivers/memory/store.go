// Package memory is a process-local store for development and tests. Nothing
// survives a restart.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
)

type Store struct {
	mu      sync.RWMutex
	clients map[string]domain.RegisteredClient // by client_id
	keys    map[string]domain.SigningKey       // by kid
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		clients: make(map[string]domain.RegisteredClient),
		keys:    make(map[string]domain.SigningKey),
	}
}

func (s *Store) Clients() store.Clients         { return (*clientsRepo)(s) }
func (s *Store) SigningKeys() store.SigningKeys { return (*signingKeysRepo)(s) }

func (s *Store) ApplyMigrations() error       { return nil }
func (s *Store) Close() error                 { return nil }
func (s *Store) Ping(_ context.Context) error { return nil }

type clientsRepo Store

func (r *clientsRepo) GetClientByClientID(_ context.Context, clientID string) (domain.RegisteredClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[clientID]
	if !ok {
		return domain.RegisteredClient{}, store.ErrNotFound
	}
	return cloneClient(c), nil
}

func (r *clientsRepo) ListClients(_ context.Context) ([]domain.RegisteredClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.RegisteredClient, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, cloneClient(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *clientsRepo) CreateClient(_ context.Context, c domain.RegisteredClient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[c.ClientID]; exists {
		return store.ErrAlreadyExists
	}
	c.ClientSecret = ""
	r.clients[c.ClientID] = cloneClient(c)
	return nil
}

func (r *clientsRepo) DeleteClient(_ context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.clients, clientID)
	return nil
}

func (r *clientsRepo) IsEmpty(_ context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients) == 0, nil
}

func cloneClient(c domain.RegisteredClient) domain.RegisteredClient {
	c.RedirectURIs = slices.Clone(c.RedirectURIs)
	c.GrantTypes = slices.Clone(c.GrantTypes)
	c.ResponseTypes = slices.Clone(c.ResponseTypes)
	c.Scopes = slices.Clone(c.Scopes)
	if c.ClientSecretExpiresAt != nil {
		t := *c.ClientSecretExpiresAt
		c.ClientSecretExpiresAt = &t
	}
	return c
}

type signingKeysRepo Store

func (r *signingKeysRepo) CreateSigningKey(_ context.Context, key domain.SigningKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[key.Kid]; exists {
		return store.ErrAlreadyExists
	}
	r.keys[key.Kid] = key
	return nil
}

func (r *signingKeysRepo) GetSigningKeyByKid(_ context.Context, kid string) (domain.SigningKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.keys[kid]
	if !ok {
		return domain.SigningKey{}, store.ErrNotFound
	}
	return k, nil
}

func (r *signingKeysRepo) ListActiveSigningKeys(_ context.Context) ([]domain.SigningKey, error) {
	now := time.Now()
	return r.filter(func(k domain.SigningKey) bool { return k.IsActive(now) }), nil
}

func (r *signingKeysRepo) ListAllSigningKeys(_ context.Context) ([]domain.SigningKey, error) {
	now := time.Now()
	return r.filter(func(k domain.SigningKey) bool { return !k.IsExpired(now) }), nil
}

func (r *signingKeysRepo) RetireSigningKey(_ context.Context, kid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.keys[kid]
	if !ok {
		return store.ErrNotFound
	}
	if k.RetiredAt == nil {
		now := time.Now().UTC()
		k.RetiredAt = &now
		r.keys[kid] = k
	}
	return nil
}

func (r *signingKeysRepo) DeleteExpiredSigningKeys(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var n int64
	for kid, k := range r.keys {
		if k.IsExpired(now) {
			delete(r.keys, kid)
			n++
		}
	}
	return n, nil
}

func (r *signingKeysRepo) filter(keep func(domain.SigningKey) bool) []domain.SigningKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.SigningKey, 0, len(r.keys))
	for _, k := range r.keys {
		if keep(k) {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
