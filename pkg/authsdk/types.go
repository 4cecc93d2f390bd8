package authsdk

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/registrar/pkg/jwtx"
)

// ============================================================================
// Internal Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse represents a standard OAuth2 error response per RFC 6749.
// Client code should use the OAuth2Error type from errors.go instead.
type ErrorResponse struct {
	// Error is the OAuth2 error code (e.g., "invalid_request", "invalid_grant")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when request validation fails,
// typically from the bootstrap endpoint.
type ValidationErrorResponse struct {
	// Code is the error code (e.g., "validation_error")
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific validation errors (field name: error message)
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Registration Types
// ============================================================================

// ScopeList is a set of scope names. It is encoded as a space-delimited
// string and decodes from either a string or a JSON array of strings.
type ScopeList []string

// MarshalJSON implements json.Marshaler.
func (s ScopeList) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(s, " "))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ScopeList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = strings.Fields(str)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("scope must be a string or an array of strings")
	}
	*s = list
	return nil
}

// ClientRegistration is the RFC 7591 client metadata document. It is the body
// of a registration request and of both registration and configuration responses.
type ClientRegistration struct {
	ClientID         string `json:"client_id,omitempty"`
	ClientIDIssuedAt int64  `json:"client_id_issued_at,omitempty"` // epoch seconds
	ClientSecret     string `json:"client_secret,omitempty"`

	// ClientSecretExpiresAt is omitted for secrets that never expire.
	ClientSecretExpiresAt *int64 `json:"client_secret_expires_at,omitempty"`

	// ClientName is nil when omitted. A present but blank name is rejected
	// by the server.
	ClientName *string `json:"client_name,omitempty"`

	RedirectURIs             []string  `json:"redirect_uris,omitempty"`
	GrantTypes               []string  `json:"grant_types,omitempty"`
	ResponseTypes            []string  `json:"response_types,omitempty"`
	Scope                    ScopeList `json:"scope,omitempty"`
	TokenEndpointAuthMethod  string    `json:"token_endpoint_auth_method,omitempty"`
	IDTokenSignedResponseAlg string    `json:"id_token_signed_response_alg,omitempty"`

	RegistrationClientURI string `json:"registration_client_uri,omitempty"`

	// RegistrationAccessToken is present only in the registration response.
	RegistrationAccessToken string `json:"registration_access_token,omitempty"`
}

// String returns a pointer to s, for optional metadata such as ClientName.
func String(s string) *string { return &s }

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse represents the OAuth2 token endpoint response per RFC 6749.
type TokenResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`

	// Scope is the space-delimited list of scopes granted to this token
	Scope string `json:"scope,omitempty"`
}

// IntrospectionResponse represents the RFC 7662 token introspection response.
// When a token is inactive, only the Active field is set.
type IntrospectionResponse struct {
	Active bool `json:"active"`

	Scope     string   `json:"scope,omitempty"`
	ClientID  string   `json:"client_id,omitempty"`
	TokenType string   `json:"token_type,omitempty"`
	Exp       int64    `json:"exp,omitempty"`
	Iat       int64    `json:"iat,omitempty"`
	Nbf       int64    `json:"nbf,omitempty"`
	Sub       string   `json:"sub,omitempty"`
	AZP       string   `json:"azp,omitempty"`
	Aud       []string `json:"aud,omitempty"`
	Iss       string   `json:"iss,omitempty"`
	Jti       string   `json:"jti,omitempty"`
}

// ============================================================================
// Bootstrap Types
// ============================================================================

// BootstrapRequest creates the initial registrar client.
type BootstrapRequest struct {
	// ClientName is the name for the initial client (max 100 chars, alphanumeric with _ or -)
	ClientName string `json:"client_name"`

	// Scopes granted to the client. Defaults to the server's registration scope.
	Scopes []string `json:"scopes,omitempty"`
}

// BootstrapResponse carries the credentials of the bootstrapped client.
type BootstrapResponse struct {
	ClientID string `json:"client_id"`

	// ClientSecret is returned here once; the configuration endpoint is the only other source.
	ClientSecret string `json:"client_secret"`

	Scopes []string `json:"scopes"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is used by both /livez and /readyz (readyz includes Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of the critical dependencies.
type HealthChecks struct {
	// Store indicates the client store connection status
	Store string `json:"store"`

	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`
}

// ============================================================================
// JWKS Types
// ============================================================================

// JWKSResponse contains the public keys used to verify JWT signatures.
type JWKSResponse jwtx.JWKS
