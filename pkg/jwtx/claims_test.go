package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	c := jwtx.NewAccessClaims("client-1", []string{"client.create", "client.read"}, time.Minute, "iss", []string{"aud"}, now)

	require.Equal(t, "client-1", c.Subject)
	require.Equal(t, "client-1", c.ClientID)
	require.Equal(t, "client-1", c.AZP)
	require.Equal(t, "client.create client.read", c.Scope)
	require.Equal(t, []string{"client.create", "client.read"}, c.Scopes())
	require.True(t, c.HasScope("client.read"))
	require.False(t, c.HasScope("client"))
	require.Equal(t, now.Add(time.Minute), c.ExpiresAt.Time)
	require.NotEmpty(t, c.ID)
}

func TestAuthorizedParty(t *testing.T) {
	t.Run("azp present", func(t *testing.T) {
		c := jwtx.Claims{AZP: "a", RegisteredClaims: jwt.RegisteredClaims{Subject: "b"}}
		require.Equal(t, "a", c.AuthorizedParty())
	})

	t.Run("falls back to subject", func(t *testing.T) {
		c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "b"}}
		require.Equal(t, "b", c.AuthorizedParty())
	})
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "auth-service",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("auth-service"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("other-service"), jwtx.ErrIssuer)
	})
}

func TestValidateAudience(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience: []string{"client-a", "client-b"},
		},
	}

	t.Run("contains match", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience([]string{"client-a"}))
	})

	t.Run("multiple match", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience([]string{"foo", "client-b"}))
	})

	t.Run("no match", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateAudience([]string{"admin"}), jwtx.ErrAudience)
	})

	t.Run("empty expected list", func(t *testing.T) {
		require.NoError(t, c.ValidateAudience(nil))
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(1 * time.Minute)),
			},
		}
		require.NoError(t, claims.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				NotBefore: jwt.NewNumericDate(now.Add(1 * time.Minute)),
			},
		}
		require.ErrorIs(t, claims.ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("valid with leeway", func(t *testing.T) {
		claims := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)),
			},
		}
		require.NoError(t, claims.ValidateExpiryWithLeeway(30*time.Second))
	})

	t.Run("no exp or nbf", func(t *testing.T) {
		claims := &jwtx.Claims{}
		require.NoError(t, claims.ValidateExpiry())
	})
}
