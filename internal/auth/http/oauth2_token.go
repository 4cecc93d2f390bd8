package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/httpx"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

// TokenHandler serves POST /oauth2/token
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Endpoint
//	@Description	Issues access tokens for the client_credentials grant. Clients authenticate with HTTP Basic (client_secret_basic) or form fields (client_secret_post).
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type		formData	string					true	"Grant type"	Enums(client_credentials)
//	@Param			client_id		formData	string					false	"Client identifier (when not using HTTP Basic)"
//	@Param			client_secret	formData	string					false	"Client secret (when not using HTTP Basic)"
//	@Param			scope			formData	string					false	"Space-delimited list of scopes"
//	@Success		200				{object}	authsdk.TokenResponse	"access_token, token_type, expires_in, scope"
//	@Failure		400				{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401				{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500				{object}	authsdk.ErrorResponse	"error, error_description"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Header			200				{string}	Pragma					"no-cache"
//	@Router			/oauth2/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	// 3. Handle the grant type
	switch r.PostForm.Get("grant_type") {
	case "client_credentials":
		h.handleClientCredentialsGrant(w, r)
	case "":
		authsdk.ErrInvalidRequest.WriteError(w)
	default:
		authsdk.ErrUnsupportedGrantType.WriteError(w)
	}
}

func (h *TokenHandler) handleClientCredentialsGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	clientID, clientSecret, basic, err := clientCredentials(r)
	if err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if clientID == "" || clientSecret == "" {
		authsdk.ErrInvalidClient.WriteError(w)
		return
	}

	requested := httpx.ParseSpaceDelimitedFields(strings.TrimSpace(r.PostForm.Get("scope")))

	tok, err := h.TokenService.ExchangeClientCredentials(ctx, clientID, clientSecret, requested)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClient):
			if basic {
				w.Header().Set("WWW-Authenticate", `Basic realm="registrar"`)
			}
			authsdk.ErrInvalidClient.WriteError(w)
		case errors.Is(err, service.ErrUnauthorizedClient):
			authsdk.ErrUnauthorizedClient.WriteError(w)
		case errors.Is(err, service.ErrInvalidScope):
			authsdk.ErrInvalidScope.WriteError(w)
		default:
			log.Error("client_credentials grant failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   int(tok.ExpiresIn.Seconds()),
		Scope:       tok.Scope,
	})
}

// clientCredentials reads client authentication from HTTP Basic, whose
// credentials are form-urlencoded per RFC 6749 section 2.3.1, or from the
// client_id and client_secret form fields. Using both is an error.
func clientCredentials(r *http.Request) (id, secret string, basic bool, err error) {
	user, pass, ok := r.BasicAuth()
	formID := strings.TrimSpace(r.PostForm.Get("client_id"))
	formSecret := r.PostForm.Get("client_secret")

	if !ok {
		return formID, formSecret, false, nil
	}
	if formSecret != "" {
		return "", "", true, errors.New("multiple client authentication methods")
	}

	if id, err = url.QueryUnescape(user); err != nil {
		return "", "", true, err
	}
	if secret, err = url.QueryUnescape(pass); err != nil {
		return "", "", true, err
	}
	if formID != "" && formID != id {
		return "", "", true, errors.New("client_id mismatch")
	}
	return id, secret, true, nil
}
