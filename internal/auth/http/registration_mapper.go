package http

import (
	"strings"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/pkg/authsdk"
)

// metadataFromWire extracts the client-supplied fields of a registration
// request. Server-assigned fields in the payload are ignored.
func metadataFromWire(req authsdk.ClientRegistration) domain.ClientMetadata {
	return domain.ClientMetadata{
		ClientName:               req.ClientName,
		RedirectURIs:             req.RedirectURIs,
		GrantTypes:               req.GrantTypes,
		ResponseTypes:            req.ResponseTypes,
		Scopes:                   []string(req.Scope),
		TokenEndpointAuthMethod:  strings.TrimSpace(req.TokenEndpointAuthMethod),
		IDTokenSignedResponseAlg: strings.TrimSpace(req.IDTokenSignedResponseAlg),
	}
}

// clientToWire projects a client onto the wire model. registrationToken is
// empty for configuration reads.
func clientToWire(c domain.RegisteredClient, configurationURI, registrationToken string) authsdk.ClientRegistration {
	out := authsdk.ClientRegistration{
		ClientID:                 c.ClientID,
		ClientIDIssuedAt:         c.ClientIDIssuedAt.Unix(),
		ClientSecret:             c.ClientSecret,
		RedirectURIs:             c.RedirectURIs,
		GrantTypes:               c.GrantTypes,
		ResponseTypes:            c.ResponseTypes,
		Scope:                    authsdk.ScopeList(c.Scopes),
		TokenEndpointAuthMethod:  c.TokenEndpointAuthMethod,
		IDTokenSignedResponseAlg: c.IDTokenSignedResponseAlg,
		RegistrationClientURI:    configurationURI,
		RegistrationAccessToken:  registrationToken,
	}
	if c.ClientName != "" {
		out.ClientName = &c.ClientName
	}
	if c.ClientSecretExpiresAt != nil {
		exp := c.ClientSecretExpiresAt.Unix()
		out.ClientSecretExpiresAt = &exp
	}
	return out
}
