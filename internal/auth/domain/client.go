package domain

import (
	"slices"
	"time"
)

// Grant types a client may register.
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeClientCredentials = "client_credentials"
	GrantTypeRefreshToken      = "refresh_token"
)

// Token endpoint authentication methods.
const (
	AuthMethodClientSecretBasic = "client_secret_basic"
	AuthMethodClientSecretPost  = "client_secret_post"
	AuthMethodNone              = "none"
)

// ResponseTypeCode is the only response type issued to registered clients.
const ResponseTypeCode = "code"

// Registration request limits.
const (
	MaxRedirectURIs     = 10
	MaxClientNameLength = 256
)

// SupportedGrantTypes lists the grant types accepted at registration.
var SupportedGrantTypes = []string{
	GrantTypeAuthorizationCode,
	GrantTypeClientCredentials,
	GrantTypeRefreshToken,
}

// SupportedAuthMethods lists the token endpoint auth methods accepted at registration.
var SupportedAuthMethods = []string{
	AuthMethodClientSecretBasic,
	AuthMethodClientSecretPost,
	AuthMethodNone,
}

// RegisteredClient is a client known to the authorization server.
//
// ClientSecret only ever holds plaintext in memory, right after generation or
// after unsealing for the configuration endpoint. Stores persist SecretHash
// (for authentication) and SecretSealed (for readback) instead.
type RegisteredClient struct {
	ID                       string // ULID
	ClientID                 string
	ClientIDIssuedAt         time.Time
	ClientSecret             string
	SecretHash               string
	SecretSealed             string
	ClientSecretExpiresAt    *time.Time // nil = never expires
	ClientName               string
	RedirectURIs             []string
	GrantTypes               []string
	ResponseTypes            []string
	Scopes                   []string
	TokenEndpointAuthMethod  string
	IDTokenSignedResponseAlg string
	Protected                bool // bootstrap client
	CreatedAt                time.Time
}

// HasGrantType reports whether the client registered the given grant type.
func (c *RegisteredClient) HasGrantType(gt string) bool {
	return slices.Contains(c.GrantTypes, gt)
}

// IsConfidential reports whether the client authenticates with a secret.
func (c *RegisteredClient) IsConfidential() bool {
	return c.TokenEndpointAuthMethod != AuthMethodNone && c.SecretHash != ""
}

// SecretExpired reports whether the client's secret has expired at now.
func (c *RegisteredClient) SecretExpired(now time.Time) bool {
	return c.ClientSecretExpiresAt != nil && !now.Before(*c.ClientSecretExpiresAt)
}
