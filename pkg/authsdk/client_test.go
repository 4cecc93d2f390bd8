package authsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *authsdk.SDKClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return authsdk.NewSDKClient(srv.URL + "/")
}

func TestClientCredentialsGrant_UsesBasicAuth(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth2/token", r.URL.Path)
		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "id%3Aone", id)
		require.Equal(t, "s3cr%2Bt", secret)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "client.create", r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(authsdk.TokenResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 900})
	})

	resp, err := client.ClientCredentialsGrant(context.Background(), "id:one", "s3cr+t", []string{"client.create"})
	require.NoError(t, err)
	require.Equal(t, "tok", resp.AccessToken)
	require.Equal(t, 900, resp.ExpiresIn)
}

func TestRegister_ReturnsTypedErrors(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		authsdk.ErrInvalidRedirectURI.WriteError(w)
	})

	_, err := client.Register(context.Background(), "tok", authsdk.ClientRegistration{RedirectURIs: []string{"/relative"}})
	var oerr *authsdk.OAuth2Error
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, http.StatusBadRequest, oerr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeInvalidRedirectURI, oerr.Code)
}

func TestRegisterAndReadConfiguration(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, authsdk.DefaultRegistrationPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodPost:
			var in authsdk.ClientRegistration
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			in.ClientID = "c1"
			in.ClientSecret = "s1"
			in.RegistrationAccessToken = "rat"
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(in)
		case http.MethodGet:
			require.Equal(t, "c1", r.URL.Query().Get("client_id"))
			require.Equal(t, "Bearer rat", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(authsdk.ClientRegistration{ClientID: "c1", ClientSecret: "s1"})
		}
	})

	reg, err := client.Register(context.Background(), "tok", authsdk.ClientRegistration{
		ClientName:   authsdk.String("svc"),
		RedirectURIs: []string{"https://svc.example.com/cb"},
		Scope:        authsdk.ScopeList{"openid"},
	})
	require.NoError(t, err)
	require.Equal(t, "rat", reg.RegistrationAccessToken)
	require.Equal(t, authsdk.ScopeList{"openid"}, reg.Scope)

	cfg, err := client.GetClientConfiguration(context.Background(), reg.RegistrationAccessToken, reg.ClientID)
	require.NoError(t, err)
	require.Equal(t, "s1", cfg.ClientSecret)
	require.Empty(t, cfg.RegistrationAccessToken)
}

func TestBootstrap_SendsToken(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/bootstrap", r.URL.Path)
		if r.Header.Get(authsdk.BootstrapTokenHeader) != "boot" {
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(authsdk.BootstrapResponse{ClientID: "admin", ClientSecret: "x"})
	})

	_, err := client.Bootstrap(context.Background(), "wrong", authsdk.BootstrapRequest{ClientName: "admin"})
	require.Error(t, err)

	resp, err := client.Bootstrap(context.Background(), "boot", authsdk.BootstrapRequest{ClientName: "admin"})
	require.NoError(t, err)
	require.Equal(t, "admin", resp.ClientID)
}

func TestParseErrorResponse_Fallback(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream gone"))
	})

	_, err := client.GetLiveness(context.Background())
	var oerr *authsdk.OAuth2Error
	require.True(t, errors.As(err, &oerr))
	require.Equal(t, http.StatusBadGateway, oerr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeServerError, oerr.Code)
}

func TestGetReadiness_ReportsDegradedChecks(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/readyz", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(authsdk.HealthResponse{
			Status: "degraded",
			Checks: &authsdk.HealthChecks{Store: "error: connection refused", Signer: "ok"},
		})
	})

	health, err := client.GetReadiness(context.Background())
	require.ErrorIs(t, err, authsdk.ErrNotReady)
	require.NotNil(t, health)
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "error: connection refused", health.Checks.Store)
}

func TestVerifier_UsesPublishedKeys(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmEdDSA,
		Issuer:    "http://issuer.test",
		NumKeys:   1,
	})
	require.NoError(t, err)

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/.well-known/jwks.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(km.KeySet.PublicJWKS())
	})

	claims := jwtx.NewAccessClaims("client-1", []string{"client.read"}, time.Minute, "http://issuer.test", []string{"client-1"}, time.Now().UTC())
	token, err := km.GetSigner().Sign(claims)
	require.NoError(t, err)

	v, err := client.Verifier(context.Background(), "http://issuer.test")
	require.NoError(t, err)
	parsed, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "client-1", parsed.AZP)

	other, err := client.Verifier(context.Background(), "http://elsewhere.test")
	require.NoError(t, err)
	_, err = other.Verify(token)
	require.Error(t, err)
}
