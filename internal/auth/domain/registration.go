package domain

import "slices"

// ClientMetadata is the client-supplied part of a registration request.
type ClientMetadata struct {
	// ClientName is nil when the request omitted client_name.
	ClientName               *string
	RedirectURIs             []string
	GrantTypes               []string
	ResponseTypes            []string
	Scopes                   []string
	TokenEndpointAuthMethod  string
	IDTokenSignedResponseAlg string
}

// RegistrationDefaults are the server-side values substituted for omitted metadata.
type RegistrationDefaults struct {
	TokenEndpointAuthMethod  string
	IDTokenSignedResponseAlg string
}

// ApplyRegistrationDefaults returns a copy of m with defaults filled in.
// response_types is always forced to ["code"].
func ApplyRegistrationDefaults(m ClientMetadata, d RegistrationDefaults) ClientMetadata {
	out := m
	out.RedirectURIs = slices.Clone(m.RedirectURIs)
	out.Scopes = slices.Clone(m.Scopes)
	out.ResponseTypes = []string{ResponseTypeCode}

	if len(m.GrantTypes) == 0 {
		out.GrantTypes = []string{GrantTypeAuthorizationCode}
	} else {
		out.GrantTypes = dedupe(m.GrantTypes)
	}
	if out.TokenEndpointAuthMethod == "" {
		out.TokenEndpointAuthMethod = d.TokenEndpointAuthMethod
	}
	if out.IDTokenSignedResponseAlg == "" {
		out.IDTokenSignedResponseAlg = d.IDTokenSignedResponseAlg
	}
	return out
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
