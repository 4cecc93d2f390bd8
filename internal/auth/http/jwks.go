package http

import (
	"net/http"

	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/httpx"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
)

// JWKSHandler publishes the verification keys for tokens issued here,
// including retired keys still inside their grace period.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify access and registration access tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		httpx.WriteJSON(w, http.StatusOK, authsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
