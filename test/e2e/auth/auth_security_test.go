package auth_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func rawRequest(t *testing.T, method, target, bearer string, body io.Reader) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, target, body)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// TestConfigurationFailuresAreIndistinguishable verifies a caller cannot
// tell an unknown client from a token bound to someone else.
func TestConfigurationFailuresAreIndistinguishable(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	token := registrarToken(t, client)
	first := registerWebClient(t, client, token)
	second := registerWebClient(t, client, token)

	configURL := func(id string) string {
		return baseURL + "/connect/register?" + url.Values{"client_id": {id}}.Encode()
	}

	cases := map[string]struct {
		bearer string
		target string
	}{
		"foreign client": {first.RegistrationAccessToken, configURL(second.ClientID)},
		"unknown client": {first.RegistrationAccessToken, configURL("no-such-client")},
		"wrong scope":    {token, configURL(first.ClientID)},
		"garbage token":  {"garbage", configURL(first.ClientID)},
		"no client_id":   {first.RegistrationAccessToken, baseURL + "/connect/register"},
	}

	var reference []byte
	for name, tc := range cases {
		resp, body := rawRequest(t, http.MethodGet, tc.target, tc.bearer, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
		require.Equal(t, `Bearer error="invalid_token"`, resp.Header.Get("WWW-Authenticate"), name)
		require.Equal(t, "no-store", resp.Header.Get("Cache-Control"), name)

		if reference == nil {
			reference = body
			continue
		}
		require.Equal(t, string(reference), string(body), "%s should return the same body", name)
	}
}

// TestRegistrationAuthorizedBeforeParsing verifies an anonymous caller gets
// 401 even when the body is malformed.
func TestRegistrationAuthorizedBeforeParsing(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	resp, _ := rawRequest(t, http.MethodPost, baseURL+"/connect/register", "", strings.NewReader("{not json"))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestRegistrationRejectsOversizedBody verifies the body size limit.
func TestRegistrationRejectsOversizedBody(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	token := registrarToken(t, client)

	huge := `{"client_name":"` + strings.Repeat("a", 128<<10) + `","redirect_uris":["https://a.example.com/cb"]}`
	resp, _ := rawRequest(t, http.MethodPost, baseURL+"/connect/register", token, bytes.NewReader([]byte(huge)))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestRegistrationResponsesAreNotCached verifies credentials never land in
// shared caches.
func TestRegistrationResponsesAreNotCached(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	token := registrarToken(t, client)

	body := `{"redirect_uris":["https://a.example.com/cb"]}`
	resp, _ := rawRequest(t, http.MethodPost, baseURL+"/connect/register", token, strings.NewReader(body))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	require.Equal(t, "no-cache", resp.Header.Get("Pragma"))
}
