package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestExchangeClientCredentials(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.bootstrap.CreateInitialClient(ctx, domain.BootstrapData{
		ClientName: "registrar",
		Scopes:     []string{"client.create", "client.read"},
	})
	require.NoError(t, err)

	t.Run("all scopes by default", func(t *testing.T) {
		tok, err := h.tokens.ExchangeClientCredentials(ctx, res.ClientID, res.ClientSecret, nil)
		require.NoError(t, err)
		require.Equal(t, "Bearer", tok.TokenType)
		require.Equal(t, "client.create client.read", tok.Scope)
		require.Equal(t, 15*time.Minute, tok.ExpiresIn)

		p, err := h.tokens.Validate(ctx, tok.AccessToken)
		require.NoError(t, err)
		require.Equal(t, res.ClientID, p.Subject)
		require.Equal(t, res.ClientID, p.AuthorizedParty)
		require.Equal(t, testIssuer, p.Issuer)
	})

	t.Run("scopes are intersected", func(t *testing.T) {
		tok, err := h.tokens.ExchangeClientCredentials(ctx, res.ClientID, res.ClientSecret, []string{"client.create", "admin", "client.create"})
		require.NoError(t, err)
		require.Equal(t, "client.create", tok.Scope)
	})

	t.Run("no overlapping scopes", func(t *testing.T) {
		_, err := h.tokens.ExchangeClientCredentials(ctx, res.ClientID, res.ClientSecret, []string{"admin"})
		require.ErrorIs(t, err, service.ErrInvalidScope)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := h.tokens.ExchangeClientCredentials(ctx, res.ClientID, "wrong", nil)
		require.ErrorIs(t, err, service.ErrInvalidClient)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := h.tokens.ExchangeClientCredentials(ctx, "nobody", res.ClientSecret, nil)
		require.ErrorIs(t, err, service.ErrInvalidClient)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := h.tokens.ExchangeClientCredentials(ctx, "", "", nil)
		require.ErrorIs(t, err, service.ErrInvalidClient)
	})
}

func TestExchangeClientCredentials_GrantNotRegistered(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	md := sampleMetadata()
	md.GrantTypes = []string{domain.GrantTypeAuthorizationCode}
	reg, err := h.registration.Register(ctx, h.registrarToken(t), md)
	require.NoError(t, err)

	_, err = h.tokens.ExchangeClientCredentials(ctx, reg.Client.ClientID, reg.Client.ClientSecret, nil)
	require.ErrorIs(t, err, service.ErrUnauthorizedClient)
}

func TestExchangeClientCredentials_ExpiredSecret(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reg, err := h.registration.Register(ctx, h.registrarToken(t), sampleMetadata())
	require.NoError(t, err)

	expired := reg.Client
	past := time.Now().Add(-time.Minute)
	expired.ClientSecretExpiresAt = &past
	require.True(t, expired.SecretExpired(time.Now()))

	require.NoError(t, h.store.Clients().DeleteClient(ctx, expired.ClientID))
	require.NoError(t, h.store.Clients().CreateClient(ctx, expired))

	_, err = h.tokens.ExchangeClientCredentials(ctx, expired.ClientID, reg.Client.ClientSecret, nil)
	require.ErrorIs(t, err, service.ErrInvalidClient)
}

func TestValidate_ExpiredToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	past := *h.tokens
	past.Now = func() time.Time { return time.Now().Add(-3 * time.Hour) }

	token, err := past.IssueBound(ctx, "client-1", []string{"client.read"})
	require.NoError(t, err)

	_, err = h.tokens.Validate(ctx, token)
	require.ErrorIs(t, err, service.ErrUnauthorized)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestIntrospect(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	token, err := h.tokens.IssueBound(ctx, "client-1", []string{"client.read"})
	require.NoError(t, err)

	p, active := h.tokens.Introspect(ctx, token)
	require.True(t, active)
	require.Equal(t, "client-1", p.ClientID)
	require.True(t, p.HasScope("client.read"))
	require.False(t, p.ExpiresAt.IsZero())

	_, active = h.tokens.Introspect(ctx, "garbage")
	require.False(t, active)
}
