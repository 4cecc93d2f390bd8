package domain

import "time"

// TokenResponse is what the token endpoint returns for the client_credentials grant.
type TokenResponse struct {
	AccessToken string
	TokenType   string // "Bearer"
	ExpiresIn   time.Duration
	Scope       string // space-delimited
}

// Principal holds the claims of a validated bearer token.
type Principal struct {
	Subject         string
	AuthorizedParty string // azp, falls back to Subject when absent
	ClientID        string
	Scopes          []string
	Audience        []string
	Issuer          string
	IssuedAt        time.Time
	ExpiresAt       time.Time
	JTI             string
}

// HasScope reports whether the principal was granted scope.
func (p Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
