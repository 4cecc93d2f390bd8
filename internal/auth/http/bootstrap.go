package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/httpx"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the registrar
//	@Description	Creates the first client, which holds the registration scope and can mint tokens for POST /connect/register. Only available when a bootstrap token is configured and no client exists yet.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token for authorization"
//	@Param			request				body		authsdk.BootstrapRequest		true	"Bootstrap configuration"
//	@Success		201					{object}	authsdk.BootstrapResponse		"Client credentials, shown once"
//	@Failure		400					{object}	authsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401					{object}	authsdk.ErrorResponse			"Missing or invalid bootstrap token, or system already bootstrapped"
//	@Failure		404					{object}	authsdk.ErrorResponse			"Bootstrap not enabled (no token configured)"
//	@Failure		500					{object}	authsdk.ErrorResponse			"Failed to create the client"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteJSON(w, http.StatusNotFound, authsdk.ErrorResponse{
			Error:            "not_found",
			ErrorDescription: "Bootstrap endpoint is not enabled",
		})
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get(authsdk.BootstrapTokenHeader)
	if token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Bootstrap token is required in X-Bootstrap-Token header",
		})
		return
	}

	// 3. Parse request body and validate
	var req authsdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Request body must be valid JSON",
		})
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ValidationErrorResponse{
			Code:    "validation_error",
			Message: "validation failed for some fields",
			Details: errs,
		})
		return
	}

	// 4. Perform bootstrap
	res, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		ClientName: strings.TrimSpace(req.ClientName),
		Scopes:     req.Scopes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
				Error:            "unauthorized",
				ErrorDescription: "System has already been bootstrapped",
			})
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteJSON(w, http.StatusUnauthorized, authsdk.ErrorResponse{
				Error:            "unauthorized",
				ErrorDescription: "Invalid bootstrap token",
			})
		default:
			l.Error("bootstrap failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, authsdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "An internal error occurred",
			})
		}
		return
	}

	// 5. Respond with the client credentials (only shown once)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.BootstrapResponse{
		ClientID:     res.ClientID,
		ClientSecret: res.ClientSecret,
		Scopes:       res.Scopes,
	})
}
