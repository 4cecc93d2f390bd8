package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Issuer = "http://registrar.test"
	cfg.Algorithm = "EdDSA"
	cfg.NumKeys = 1
	cfg.ClientStore = StoreMemory
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.BootstrapToken = "app-test-bootstrap"
	cfg.LogLevel = "error"
	return cfg
}

func TestApplication_RegistrationFlow(t *testing.T) {
	ctx := context.Background()

	application, err := New(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })
	require.Nil(t, application.housekeepingService)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)
	sdk := authsdk.NewSDKClient(srv.URL)

	boot, err := sdk.Bootstrap(ctx, "app-test-bootstrap", authsdk.BootstrapRequest{ClientName: "admin"})
	require.NoError(t, err)
	require.Equal(t, []string{"client.create"}, boot.Scopes)

	tok, err := sdk.ClientCredentialsGrant(ctx, boot.ClientID, boot.ClientSecret, []string{"client.create"})
	require.NoError(t, err)

	reg, err := sdk.Register(ctx, tok.AccessToken, authsdk.ClientRegistration{
		ClientName:   authsdk.String("web"),
		RedirectURIs: []string{"https://web.example.com/callback"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.RegistrationAccessToken)
	require.Equal(t, "http://registrar.test/connect/register?client_id="+reg.ClientID, reg.RegistrationClientURI)

	got, err := sdk.GetClientConfiguration(ctx, reg.RegistrationAccessToken, reg.ClientID)
	require.NoError(t, err)
	require.Equal(t, reg.ClientSecret, got.ClientSecret)
	require.Empty(t, got.RegistrationAccessToken)
}

func TestApplication_PersistentKeysSurviveRestart(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.ClientStore = StoreSQLite
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "registrar.db")
	cfg.KeyStorageMode = KeyStoragePersistent
	cfg.MasterKey = "app-test-master-key"

	kids := func() []string {
		application, err := New(ctx, cfg)
		require.NoError(t, err)
		defer func() { require.NoError(t, application.db.Close()) }()
		require.NotNil(t, application.housekeepingService)

		var out []string
		for _, k := range application.keyManager.KeySet.PublicJWKS().Keys {
			out = append(out, k.Kid)
		}
		return out
	}

	first := kids()
	require.Len(t, first, 1)
	require.Equal(t, first, kids())
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ClientStore = "postgres"

	_, err := New(context.Background(), cfg)
	require.ErrorContains(t, err, "unknown client store")
}
