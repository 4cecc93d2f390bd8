package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/httpx"
)

// IntrospectHandler serves POST /oauth2/introspect following RFC7662.
// The caller must itself present a valid bearer token.
type IntrospectHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Introspection Endpoint
//	@Description	Introspects a token and returns metadata about it (RFC 7662)
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Security		BearerAuth
//	@Param			token			formData	string							true	"The token to introspect"
//	@Param			token_type_hint	formData	string							false	"Hint about token type (only 'access_token' is supported)"	Enums(access_token)
//	@Success		200				{object}	authsdk.IntrospectionResponse	"Token introspection result"
//	@Failure		400				{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401				{object}	authsdk.ErrorResponse			"error, error_description"
//	@Header			200				{string}	Cache-Control					"no-store"
//	@Header			200				{string}	Pragma							"no-cache"
//	@Router			/oauth2/introspect [post].
func (h *IntrospectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	// 2. Parse the form body
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	token := r.PostForm.Get("token")
	if token == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// 3. Only access tokens (JWTs) are issued here
	if hint := r.PostForm.Get("token_type_hint"); hint != "" && hint != "access_token" {
		writeInactiveResponse(w)
		return
	}

	p, active := h.TokenService.Introspect(r.Context(), token)
	if !active {
		writeInactiveResponse(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.IntrospectionResponse{
		Active:    true,
		Scope:     strings.Join(p.Scopes, " "),
		ClientID:  p.ClientID,
		TokenType: "Bearer",
		Exp:       p.ExpiresAt.Unix(),
		Iat:       p.IssuedAt.Unix(),
		Sub:       p.Subject,
		AZP:       p.AuthorizedParty,
		Aud:       p.Audience,
		Iss:       p.Issuer,
		Jti:       p.JTI,
	})
}

// writeInactiveResponse returns the minimal RFC7662 response. The reason a
// token is inactive is never revealed.
func writeInactiveResponse(w http.ResponseWriter) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.IntrospectionResponse{Active: false})
}
