package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the default lifetime for access tokens.
const DefaultAccessTokenTTL = 15 * time.Minute

// Claims are the access-token claims issued by the registrar. Layout follows
// RFC 9068: a space-delimited "scope", the requesting "client_id" and the
// OIDC "azp" authorized party.
type Claims struct {
	jwt.RegisteredClaims

	// Space-delimited scope string, e.g. "client.create client.read"
	Scope string `json:"scope,omitempty"`

	// Client the token was issued to
	ClientID string `json:"client_id,omitempty"`

	// Authorized party. For client tokens this equals ClientID.
	AZP string `json:"azp,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for a token issued to clientID.
// The client is both the subject and the authorized party.
func NewAccessClaims(
	clientID string,
	scopes []string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Scope:    strings.Join(scopes, " "),
		ClientID: clientID,
		AZP:      clientID,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// Scopes splits the scope claim into its individual values.
func (c *Claims) Scopes() []string {
	return strings.Fields(c.Scope)
}

// HasScope reports whether scope is granted by the token.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes(), scope)
}

// AuthorizedParty returns azp, falling back to the subject for tokens that
// omit it.
func (c *Claims) AuthorizedParty() string {
	if c.AZP != "" {
		return c.AZP
	}
	return c.Subject
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
