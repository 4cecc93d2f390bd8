package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/registrar/pkg/cryptox"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "http://auth-server:9000"

type harness struct {
	store        *memory.Store
	tokens       *service.TokenService
	registration *service.RegistrationService
	bootstrap    *service.BootstrapService
	hasher       *cryptox.SecretHasher
	sealer       *cryptox.Sealer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmEdDSA,
		Issuer:    testIssuer,
		NumKeys:   1,
	})
	require.NoError(t, err)

	sealer, err := cryptox.NewSealer([]byte("service-test-master-key"))
	require.NoError(t, err)

	st := memory.NewStore()
	hasher := cryptox.NewSecretHasher("service-test-pepper")

	tokens := &service.TokenService{
		KeyManager:      km,
		Clients:         st.Clients(),
		Hasher:          hasher,
		Issuer:          testIssuer,
		AccessTTL:       15 * time.Minute,
		RegistrationTTL: time.Hour,
	}

	return &harness{
		store:  st,
		tokens: tokens,
		hasher: hasher,
		sealer: sealer,
		registration: &service.RegistrationService{
			Clients:     st.Clients(),
			Tokens:      tokens,
			Issuer:      tokens,
			Credentials: service.RandomCredentials{},
			Hasher:      hasher,
			Sealer:      sealer,
			Config: service.RegistrationConfig{
				RegistrationScope:  service.DefaultRegistrationScope,
				ConfigurationScope: service.DefaultConfigurationScope,
				Defaults: domain.RegistrationDefaults{
					TokenEndpointAuthMethod:  domain.AuthMethodClientSecretBasic,
					IDTokenSignedResponseAlg: jwtx.AlgorithmRS256,
				},
			},
		},
		bootstrap: &service.BootstrapService{
			Clients:       st.Clients(),
			Credentials:   service.RandomCredentials{},
			Hasher:        hasher,
			Sealer:        sealer,
			Token:         "bootstrap-token",
			DefaultScopes: []string{service.DefaultRegistrationScope},
		},
	}
}

// registrarToken bootstraps a registrar client and exchanges its
// credentials for a client.create access token.
func (h *harness) registrarToken(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	res, err := h.bootstrap.CreateInitialClient(ctx, domain.BootstrapData{ClientName: "registrar"})
	require.NoError(t, err)

	tok, err := h.tokens.ExchangeClientCredentials(ctx, res.ClientID, res.ClientSecret, nil)
	require.NoError(t, err)
	return tok.AccessToken
}

func sampleMetadata() domain.ClientMetadata {
	return domain.ClientMetadata{
		ClientName:   strPtr("client-1"),
		RedirectURIs: []string{"https://client.example.com"},
		GrantTypes:   []string{domain.GrantTypeAuthorizationCode, domain.GrantTypeClientCredentials},
		Scopes:       []string{"scope1", "scope2"},
	}
}

// sequenceCredentials hands out client ids in order, repeating the last one.
type sequenceCredentials struct {
	ids []string
	n   int
}

func (c *sequenceCredentials) NewClientID() (string, error) {
	id := c.ids[min(c.n, len(c.ids)-1)]
	c.n++
	return id, nil
}

func (c *sequenceCredentials) NewClientSecret() (string, error) {
	return "sequence-secret", nil
}

func strPtr(s string) *string { return &s }
