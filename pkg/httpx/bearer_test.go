package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/registrar/pkg/httpx"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc.def", "abc.def", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"missing header", "", "", false},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", false},
		{"empty token", "Bearer   ", "", false},
		{"no separator", "Bearer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := httpx.BearerToken(req)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAuthnMiddleware(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmEdDSA,
		Issuer:    "test-issuer",
		NumKeys:   1,
	})
	require.NoError(t, err)

	var seen jwtx.Claims
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}), httpx.AuthnMiddleware(km.Verifier))

	t.Run("valid token", func(t *testing.T) {
		token, err := km.GetSigner().Sign(jwtx.NewAccessClaims("client-1", []string{"x"}, time.Minute, "test-issuer", nil, time.Now().UTC()))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "client-1", seen.ClientID)
	})

	for _, header := range []string{"", "Bearer nope"} {
		t.Run("rejects "+header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
			require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}
