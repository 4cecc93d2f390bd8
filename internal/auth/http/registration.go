package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/httpx"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

// maxRegistrationBody caps the size of a registration request body.
const maxRegistrationBody = 64 << 10

// RegistrationHandler serves the OIDC dynamic client registration endpoint
// and its client configuration counterpart on the same path.
type RegistrationHandler struct {
	RegistrationService *service.RegistrationService

	// Issuer and Path build registration_client_uri.
	Issuer string
	Path   string
}

// HandleRegister godoc
//
//	@Summary		Register a client
//	@Description	OpenID Connect Dynamic Client Registration. Requires a bearer token carrying the registration scope.
//	@Description	The response includes the client secret and a registration access token bound to the new client. Both are shown once.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.ClientRegistration	true	"Client metadata"
//	@Success		201		{object}	authsdk.ClientRegistration	"Registered client"
//	@Failure		400		{object}	authsdk.ErrorResponse		"invalid_request, invalid_redirect_uri or invalid_client_metadata"
//	@Failure		401		{object}	authsdk.ErrorResponse		"invalid_token"
//	@Failure		500		{object}	authsdk.ErrorResponse		"server_error"
//	@Header			201		{string}	Cache-Control				"no-store"
//	@Header			201		{string}	Pragma						"no-cache"
//	@Router			/connect/register [post].
func (h *RegistrationHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bearer, _ := httpx.BearerToken(r)

	// 1. Authorize before looking at the body
	if _, err := h.RegistrationService.AuthorizeRegistration(ctx, bearer); err != nil {
		h.writeError(w, r, err)
		return
	}

	// 2. Decode the metadata
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}
	var req authsdk.ClientRegistration
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRegistrationBody)).Decode(&req); err != nil {
		authsdk.NewOAuth2Error(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "request body must be a JSON object").WriteError(w)
		return
	}

	// 3. Validate, persist and mint the registration access token
	reg, err := h.RegistrationService.RegisterClient(ctx, metadataFromWire(req))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated,
		clientToWire(reg.Client, h.configurationURI(reg.Client.ClientID), reg.RegistrationAccessToken))
}

// HandleConfiguration godoc
//
//	@Summary		Read a client registration
//	@Description	Returns the registration of the client the registration access token is bound to.
//	@Description	Any authorization failure, including an unknown client, is reported as invalid_token.
//	@Tags			Registration
//	@Produce		json
//	@Security		BearerAuth
//	@Param			client_id	query		string						true	"Client identifier"
//	@Success		200			{object}	authsdk.ClientRegistration	"Registered client"
//	@Failure		401			{object}	authsdk.ErrorResponse		"invalid_token"
//	@Failure		500			{object}	authsdk.ErrorResponse		"server_error"
//	@Header			200			{string}	Cache-Control				"no-store"
//	@Header			200			{string}	Pragma						"no-cache"
//	@Router			/connect/register [get].
func (h *RegistrationHandler) HandleConfiguration(w http.ResponseWriter, r *http.Request) {
	bearer, _ := httpx.BearerToken(r)
	clientID := r.URL.Query().Get("client_id")

	client, err := h.RegistrationService.ReadConfiguration(r.Context(), bearer, clientID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, clientToWire(client, h.configurationURI(client.ClientID), ""))
}

func (h *RegistrationHandler) configurationURI(clientID string) string {
	return strings.TrimRight(h.Issuer, "/") + h.Path + "?client_id=" + url.QueryEscape(clientID)
}

func (h *RegistrationHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		log.Debug("registration request unauthorized", "err", err)
		httpx.BearerChallenge(w)
		authsdk.ErrInvalidToken.WriteError(w)
	case errors.As(err, &verr):
		code := authsdk.ErrorCodeInvalidClientMetadata
		if errors.Is(verr, service.ErrInvalidRedirectURI) {
			code = authsdk.ErrorCodeInvalidRedirectURI
		}
		authsdk.NewOAuth2Error(http.StatusBadRequest, code, verr.Description).WriteError(w)
	default:
		log.Error("registration request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
