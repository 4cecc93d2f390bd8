package authsdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/registrar/pkg/jwtx"
)

// GetJWKS retrieves the JSON Web Key Set for token verification.
func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	if err != nil {
		return nil, err
	}

	var jwks JWKSResponse
	if err := decodeJSON(resp, &jwks, http.StatusOK); err != nil {
		return nil, err
	}

	return &jwks, nil
}

// Verifier fetches the published keys and returns a verifier for tokens
// issued by issuer, such as registration access tokens.
func (c *SDKClient) Verifier(ctx context.Context, issuer string) (jwtx.Verifier, error) {
	jwks, err := c.GetJWKS(ctx)
	if err != nil {
		return nil, err
	}

	keys := jwtx.NewKeySet()
	for _, k := range jwks.Keys {
		if err := keys.AddJWK(k); err != nil {
			return nil, fmt.Errorf("load jwk %q: %w", k.Kid, err)
		}
	}
	return jwtx.NewVerifier(keys, jwtx.VerifyOptions{Issuer: issuer}), nil
}
