// Package storetest holds the behaviour every store driver must share. Each
// driver's tests call Run with a constructor for a fresh, empty store.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/idx"
	"github.com/stretchr/testify/require"
)

// NewClient returns a fully populated client with the given client_id.
func NewClient(clientID string) domain.RegisteredClient {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.RegisteredClient{
		ID:                       idx.New().String(),
		ClientID:                 clientID,
		ClientIDIssuedAt:         now,
		SecretHash:               "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		SecretSealed:             "c2VhbGVk",
		ClientName:               "client " + clientID,
		RedirectURIs:             []string{"https://client.example.com/cb", "https://client.example.com/alt"},
		GrantTypes:               []string{domain.GrantTypeAuthorizationCode, domain.GrantTypeClientCredentials},
		ResponseTypes:            []string{domain.ResponseTypeCode},
		Scopes:                   []string{"scope1", "scope2"},
		TokenEndpointAuthMethod:  domain.AuthMethodClientSecretBasic,
		IDTokenSignedResponseAlg: "RS256",
		CreatedAt:                now,
	}
}

// Run exercises the Clients and SigningKeys contracts against stores built by newStore.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("clients", func(t *testing.T) { runClients(t, newStore(t)) })
	t.Run("create if absent", func(t *testing.T) { runCreateIfAbsent(t, newStore(t)) })
	t.Run("concurrent create", func(t *testing.T) { runConcurrentCreate(t, newStore(t)) })
	t.Run("signing keys", func(t *testing.T) { runSigningKeys(t, newStore(t)) })
}

func runClients(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	empty, err := s.Clients().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	_, err = s.Clients().GetClientByClientID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	c := NewClient("client-a")
	expires := c.CreatedAt.Add(time.Hour)
	c.ClientSecretExpiresAt = &expires
	require.NoError(t, s.Clients().CreateClient(ctx, c))

	got, err := s.Clients().GetClientByClientID(ctx, "client-a")
	require.NoError(t, err)
	require.Equal(t, c.ID, got.ID)
	require.Equal(t, c.SecretHash, got.SecretHash)
	require.Equal(t, c.SecretSealed, got.SecretSealed)
	require.Equal(t, c.RedirectURIs, got.RedirectURIs)
	require.Equal(t, c.GrantTypes, got.GrantTypes)
	require.Equal(t, c.ResponseTypes, got.ResponseTypes)
	require.Equal(t, c.Scopes, got.Scopes)
	require.Equal(t, c.TokenEndpointAuthMethod, got.TokenEndpointAuthMethod)
	require.Equal(t, c.IDTokenSignedResponseAlg, got.IDTokenSignedResponseAlg)
	require.True(t, c.ClientIDIssuedAt.Equal(got.ClientIDIssuedAt))
	require.NotNil(t, got.ClientSecretExpiresAt)
	require.True(t, expires.Equal(*got.ClientSecretExpiresAt))
	require.Empty(t, got.ClientSecret)

	public := NewClient("client-b")
	public.SecretHash, public.SecretSealed = "", ""
	public.TokenEndpointAuthMethod = domain.AuthMethodNone
	public.CreatedAt = c.CreatedAt.Add(time.Second)
	require.NoError(t, s.Clients().CreateClient(ctx, public))

	got, err = s.Clients().GetClientByClientID(ctx, "client-b")
	require.NoError(t, err)
	require.Nil(t, got.ClientSecretExpiresAt)
	require.Empty(t, got.SecretHash)

	list, err := s.Clients().ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "client-b", list[0].ClientID)

	empty, err = s.Clients().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	require.NoError(t, s.Clients().DeleteClient(ctx, "client-a"))
	_, err = s.Clients().GetClientByClientID(ctx, "client-a")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func runCreateIfAbsent(t *testing.T, s store.Store) {
	ctx := context.Background()

	first := NewClient("dup")
	require.NoError(t, s.Clients().CreateClient(ctx, first))

	second := NewClient("dup")
	second.ClientName = "overwrite attempt"
	require.ErrorIs(t, s.Clients().CreateClient(ctx, second), store.ErrAlreadyExists)

	got, err := s.Clients().GetClientByClientID(ctx, "dup")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, first.ClientName, got.ClientName)
}

func runConcurrentCreate(t *testing.T, s store.Store) {
	ctx := context.Background()

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Clients().CreateClient(ctx, NewClient("race"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, created)
}

func runSigningKeys(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	keys := []domain.SigningKey{
		{ID: idx.New().String(), Kid: "registrar-a", Algorithm: "RS256", PrivateKeyEncrypted: []byte("a"), CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(time.Hour)},
		{ID: idx.New().String(), Kid: "registrar-b", Algorithm: "RS256", PrivateKeyEncrypted: []byte("b"), CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour)},
		{ID: idx.New().String(), Kid: "registrar-old", Algorithm: "RS256", PrivateKeyEncrypted: []byte("c"), CreatedAt: now.Add(-3 * time.Hour), ExpiresAt: now.Add(-time.Minute)},
	}
	for _, k := range keys {
		require.NoError(t, s.SigningKeys().CreateSigningKey(ctx, k))
	}

	got, err := s.SigningKeys().GetSigningKeyByKid(ctx, "registrar-a")
	require.NoError(t, err)
	require.Equal(t, []byte("a"), got.PrivateKeyEncrypted)
	require.Nil(t, got.RetiredAt)

	_, err = s.SigningKeys().GetSigningKeyByKid(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.SigningKeys().RetireSigningKey(ctx, "registrar-a"))

	active, err := s.SigningKeys().ListActiveSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "registrar-b", active[0].Kid)

	all, err := s.SigningKeys().ListAllSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "registrar-b", all[0].Kid)

	n, err := s.SigningKeys().DeleteExpiredSigningKeys(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.SigningKeys().GetSigningKeyByKid(ctx, "registrar-old")
	require.ErrorIs(t, err, store.ErrNotFound)
}
