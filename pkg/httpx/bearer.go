package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

type ctxKey string

const ctxKeyClaims ctxKey = "claims"

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BearerChallenge sets the RFC 6750 invalid_token challenge header.
func BearerChallenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
}

// AuthnMiddleware rejects requests without a verifiable bearer token and
// stores the claims in the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				writeUnauthorized(w)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(r.Context()).Debug("bearer verification failed", "err", err)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func ContextWithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, c)
}

func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	BearerChallenge(w)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
}
