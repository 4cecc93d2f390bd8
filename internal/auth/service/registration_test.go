package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/internal/auth/store/storetest"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestRegister_AppliesDefaultsAndIssuesCredentials(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bearer := h.registrarToken(t)

	reg, err := h.registration.Register(ctx, bearer, sampleMetadata())
	require.NoError(t, err)

	c := reg.Client
	require.NotEmpty(t, c.ClientID)
	require.NotEmpty(t, c.ClientSecret)
	require.False(t, c.ClientIDIssuedAt.IsZero())
	require.Nil(t, c.ClientSecretExpiresAt)
	require.Equal(t, []string{domain.ResponseTypeCode}, c.ResponseTypes)
	require.Equal(t, domain.AuthMethodClientSecretBasic, c.TokenEndpointAuthMethod)
	require.Equal(t, jwtx.AlgorithmRS256, c.IDTokenSignedResponseAlg)
	require.NotEmpty(t, reg.RegistrationAccessToken)

	stored, err := h.store.Clients().GetClientByClientID(ctx, c.ClientID)
	require.NoError(t, err)
	require.Empty(t, stored.ClientSecret, "plaintext secret must not be persisted")
	require.NoError(t, h.hasher.Verify(c.ClientSecret, stored.SecretHash))

	p, err := h.tokens.Validate(ctx, reg.RegistrationAccessToken)
	require.NoError(t, err)
	require.Equal(t, c.ClientID, p.Subject)
	require.Equal(t, c.ClientID, p.AuthorizedParty)
	require.Equal(t, c.ClientID, p.ClientID)
	require.Equal(t, []string{c.ClientID}, p.Audience)
	require.Equal(t, []string{service.DefaultConfigurationScope}, p.Scopes)
}

func TestRegister_UniqueCredentials(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bearer := h.registrarToken(t)

	first, err := h.registration.Register(ctx, bearer, sampleMetadata())
	require.NoError(t, err)
	second, err := h.registration.Register(ctx, bearer, sampleMetadata())
	require.NoError(t, err)

	require.NotEqual(t, first.Client.ClientID, second.Client.ClientID)
	require.NotEqual(t, first.Client.ClientSecret, second.Client.ClientSecret)
}

func TestRegister_PublicClientHasNoSecret(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	md := sampleMetadata()
	md.TokenEndpointAuthMethod = domain.AuthMethodNone

	reg, err := h.registration.Register(ctx, h.registrarToken(t), md)
	require.NoError(t, err)
	require.Empty(t, reg.Client.ClientSecret)

	stored, err := h.store.Clients().GetClientByClientID(ctx, reg.Client.ClientID)
	require.NoError(t, err)
	require.Empty(t, stored.SecretHash)
	require.Empty(t, stored.SecretSealed)
}

func TestRegister_DefaultsGrantTypeToAuthorizationCode(t *testing.T) {
	h := newHarness(t)

	md := sampleMetadata()
	md.GrantTypes = nil

	reg, err := h.registration.Register(context.Background(), h.registrarToken(t), md)
	require.NoError(t, err)
	require.Equal(t, []string{domain.GrantTypeAuthorizationCode}, reg.Client.GrantTypes)
}

func TestRegister_ClientName(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bearer := h.registrarToken(t)

	md := sampleMetadata()
	md.ClientName = strPtr("  billing  ")
	reg, err := h.registration.Register(ctx, bearer, md)
	require.NoError(t, err)
	require.Equal(t, "billing", reg.Client.ClientName)

	md.ClientName = nil
	reg, err = h.registration.Register(ctx, bearer, md)
	require.NoError(t, err)
	require.Empty(t, reg.Client.ClientName)
}

func TestRegister_RegisteredClientCannotRegisterOthers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bearer := h.registrarToken(t)

	md := sampleMetadata()
	md.Scopes = []string{service.DefaultRegistrationScope}
	_, err := h.registration.Register(ctx, bearer, md)
	require.ErrorIs(t, err, service.ErrInvalidClientMetadata)

	child, err := h.registration.Register(ctx, bearer, sampleMetadata())
	require.NoError(t, err)

	tok, err := h.tokens.ExchangeClientCredentials(ctx, child.Client.ClientID, child.Client.ClientSecret, nil)
	require.NoError(t, err)
	require.NotContains(t, strings.Fields(tok.Scope), service.DefaultRegistrationScope)

	_, err = h.registration.Register(ctx, tok.AccessToken, sampleMetadata())
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

type failingIssuer struct{}

func (failingIssuer) IssueBound(context.Context, string, []string) (string, error) {
	return "", errors.New("signer unavailable")
}

func TestRegister_TokenIssueFailureRemovesClient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bearer := h.registrarToken(t)

	h.registration.Issuer = failingIssuer{}
	h.registration.Credentials = &sequenceCredentials{ids: []string{"orphan"}}

	_, err := h.registration.Register(ctx, bearer, sampleMetadata())
	require.Error(t, err)

	_, err = h.store.Clients().GetClientByClientID(ctx, "orphan")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegister_Unauthorized(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	registrar := h.registrarToken(t)

	// A registration access token only carries client.read.
	reg, err := h.registration.Register(ctx, registrar, sampleMetadata())
	require.NoError(t, err)

	for name, bearer := range map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"wrong scope":    reg.RegistrationAccessToken,
		"tampered token": registrar[:len(registrar)-4] + "AAAA",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.registration.Register(ctx, bearer, sampleMetadata())
			require.ErrorIs(t, err, service.ErrUnauthorized)
		})
	}
}

func TestRegister_InvalidMetadata(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bearer := h.registrarToken(t)

	tooMany := make([]string, domain.MaxRedirectURIs+1)
	for i := range tooMany {
		tooMany[i] = "https://client.example.com/cb"
	}

	tests := []struct {
		name   string
		mutate func(*domain.ClientMetadata)
		kind   error
	}{
		{"no redirect uris", func(m *domain.ClientMetadata) { m.RedirectURIs = nil }, service.ErrInvalidRedirectURI},
		{"relative redirect uri", func(m *domain.ClientMetadata) { m.RedirectURIs = []string{"/callback"} }, service.ErrInvalidRedirectURI},
		{"fragment", func(m *domain.ClientMetadata) { m.RedirectURIs = []string{"https://client.example.com/cb#frag"} }, service.ErrInvalidRedirectURI},
		{"whitespace", func(m *domain.ClientMetadata) { m.RedirectURIs = []string{"https://client.example.com/ cb"} }, service.ErrInvalidRedirectURI},
		{"too many redirect uris", func(m *domain.ClientMetadata) { m.RedirectURIs = tooMany }, service.ErrInvalidRedirectURI},
		{"long name", func(m *domain.ClientMetadata) {
			m.ClientName = strPtr(strings.Repeat("x", domain.MaxClientNameLength+1))
		}, service.ErrInvalidClientMetadata},
		{"empty name", func(m *domain.ClientMetadata) { m.ClientName = strPtr("") }, service.ErrInvalidClientMetadata},
		{"blank name", func(m *domain.ClientMetadata) { m.ClientName = strPtr("   ") }, service.ErrInvalidClientMetadata},
		{"registration scope", func(m *domain.ClientMetadata) { m.Scopes = []string{"scope1", service.DefaultRegistrationScope} }, service.ErrInvalidClientMetadata},
		{"unknown grant", func(m *domain.ClientMetadata) { m.GrantTypes = []string{"password"} }, service.ErrInvalidClientMetadata},
		{"unknown auth method", func(m *domain.ClientMetadata) { m.TokenEndpointAuthMethod = "private_key_jwt" }, service.ErrInvalidClientMetadata},
		{"unknown alg", func(m *domain.ClientMetadata) { m.IDTokenSignedResponseAlg = "HS256" }, service.ErrInvalidClientMetadata},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := sampleMetadata()
			tt.mutate(&md)

			_, err := h.registration.Register(ctx, bearer, md)
			require.ErrorIs(t, err, tt.kind)

			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Description)
		})
	}

	clients, err := h.store.Clients().ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1, "only the registrar client should exist")
}

func TestRegister_CustomSchemeRedirectAllowed(t *testing.T) {
	md := sampleMetadata()
	md.RedirectURIs = []string{"com.example.app:/oauth2redirect"}
	md = domain.ApplyRegistrationDefaults(md, domain.RegistrationDefaults{
		TokenEndpointAuthMethod:  domain.AuthMethodNone,
		IDTokenSignedResponseAlg: jwtx.AlgorithmES256,
	})
	require.NoError(t, service.ValidateClientMetadata(md))
}

func TestRegister_RetriesClientIDCollision(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bearer := h.registrarToken(t)

	require.NoError(t, h.store.Clients().CreateClient(ctx, storetest.NewClient("taken")))
	h.registration.Credentials = &sequenceCredentials{ids: []string{"taken", "taken", "fresh"}}

	reg, err := h.registration.Register(ctx, bearer, sampleMetadata())
	require.NoError(t, err)
	require.Equal(t, "fresh", reg.Client.ClientID)

	existing, err := h.store.Clients().GetClientByClientID(ctx, "taken")
	require.NoError(t, err)
	require.Equal(t, "client taken", existing.ClientName, "collision must not overwrite")
}

func TestRegister_CredentialsExhausted(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bearer := h.registrarToken(t)

	require.NoError(t, h.store.Clients().CreateClient(ctx, storetest.NewClient("taken")))
	gen := &sequenceCredentials{ids: []string{"taken"}}
	h.registration.Credentials = gen

	_, err := h.registration.Register(ctx, bearer, sampleMetadata())
	require.ErrorIs(t, err, service.ErrCredentialsExhausted)
	require.Equal(t, service.MaxCredentialAttempts, gen.n)
}

func TestReadConfiguration_ReturnsStoredRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reg, err := h.registration.Register(ctx, h.registrarToken(t), sampleMetadata())
	require.NoError(t, err)

	first, err := h.registration.ReadConfiguration(ctx, reg.RegistrationAccessToken, reg.Client.ClientID)
	require.NoError(t, err)
	require.Equal(t, reg.Client.ClientID, first.ClientID)
	require.Equal(t, reg.Client.ClientSecret, first.ClientSecret)
	require.Equal(t, reg.Client.RedirectURIs, first.RedirectURIs)
	require.Equal(t, reg.Client.GrantTypes, first.GrantTypes)
	require.Equal(t, reg.Client.Scopes, first.Scopes)

	second, err := h.registration.ReadConfiguration(ctx, reg.RegistrationAccessToken, reg.Client.ClientID)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestReadConfiguration_TokenBoundToOneClient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bearer := h.registrarToken(t)

	a, err := h.registration.Register(ctx, bearer, sampleMetadata())
	require.NoError(t, err)
	b, err := h.registration.Register(ctx, bearer, sampleMetadata())
	require.NoError(t, err)

	_, err = h.registration.ReadConfiguration(ctx, b.RegistrationAccessToken, a.Client.ClientID)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestReadConfiguration_UnknownClientIsUnauthorized(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	token, err := h.tokens.IssueBound(ctx, "ghost", []string{service.DefaultConfigurationScope})
	require.NoError(t, err)

	_, err = h.registration.ReadConfiguration(ctx, token, "ghost")
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestReadConfiguration_RequiresReadScope(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reg, err := h.registration.Register(ctx, h.registrarToken(t), sampleMetadata())
	require.NoError(t, err)

	token, err := h.tokens.IssueBound(ctx, reg.Client.ClientID, []string{"scope1"})
	require.NoError(t, err)

	_, err = h.registration.ReadConfiguration(ctx, token, reg.Client.ClientID)
	require.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = h.registration.ReadConfiguration(ctx, reg.RegistrationAccessToken, "")
	require.ErrorIs(t, err, service.ErrUnauthorized)
}
