package authsdk_test

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestScopeList_DecodesStringOrArray(t *testing.T) {
	cases := map[string]authsdk.ScopeList{
		`{"scope":"openid  profile"}`:      {"openid", "profile"},
		`{"scope":["openid","profile"]}`:   {"openid", "profile"},
		`{"scope":""}`:                     {},
		`{"scope":null}`:                   nil,
		`{"client_name":"no scope field"}`: nil,
	}

	for in, want := range cases {
		var reg authsdk.ClientRegistration
		require.NoError(t, json.Unmarshal([]byte(in), &reg), in)
		require.Len(t, reg.Scope, len(want), in)
		if len(want) > 0 {
			require.Equal(t, want, reg.Scope, in)
		}
	}

	var reg authsdk.ClientRegistration
	require.Error(t, json.Unmarshal([]byte(`{"scope":42}`), &reg))
}

func TestClientRegistration_Encoding(t *testing.T) {
	reg := authsdk.ClientRegistration{
		ClientID:      "abc",
		ClientName:    authsdk.String("svc"),
		RedirectURIs:  []string{"https://svc.example.com/cb"},
		ResponseTypes: []string{"code"},
		Scope:         authsdk.ScopeList{"openid", "profile"},
	}

	raw, err := json.Marshal(reg)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	require.Equal(t, "openid profile", m["scope"])
	require.NotContains(t, m, "client_secret_expires_at")
	require.NotContains(t, m, "registration_access_token")

	exp := int64(0)
	reg.ClientSecretExpiresAt = &exp
	raw, err = json.Marshal(reg)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"client_secret_expires_at":0`)
}

func TestBootstrapRequest_Validate(t *testing.T) {
	require.Nil(t, authsdk.BootstrapRequest{ClientName: "registrar-admin"}.Validate())
	require.Nil(t, authsdk.BootstrapRequest{ClientName: "admin", Scopes: []string{"client.create", "client.read"}}.Validate())

	errs := authsdk.BootstrapRequest{}.Validate()
	require.Equal(t, "required", errs["client_name"])

	errs = authsdk.BootstrapRequest{ClientName: "bad name"}.Validate()
	require.Contains(t, errs, "client_name")

	errs = authsdk.BootstrapRequest{ClientName: "admin", Scopes: []string{"client.create", "client.create"}}.Validate()
	require.Equal(t, "duplicate scopes", errs["scopes"])

	errs = authsdk.BootstrapRequest{ClientName: "admin", Scopes: []string{"Client Create"}}.Validate()
	require.Contains(t, errs["scopes"], "invalid scope")
}
