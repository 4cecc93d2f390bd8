package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ClientCredentialsGrant requests an access token using the OAuth2 client_credentials grant.
// Credentials are sent with HTTP Basic authentication, form-encoded per RFC 6749 section 2.3.1.
//
// Note: This grant does NOT return a refresh token, clients re-authenticate when the
// access token expires.
func (c *SDKClient) ClientCredentialsGrant(
	ctx context.Context,
	clientID, clientSecret string,
	scopes []string,
) (*TokenResponse, error) {
	data := url.Values{"grant_type": {"client_credentials"}}
	if len(scopes) > 0 {
		data.Set("scope", strings.Join(scopes, " "))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/oauth2/token"), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(clientID), url.QueryEscape(clientSecret))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

// Introspect asks the server whether token is active (RFC 7662). The caller
// authenticates with its own bearer token.
func (c *SDKClient) Introspect(ctx context.Context, bearer, token string) (*IntrospectionResponse, error) {
	headers := bearerHeaders(bearer)
	headers["Content-Type"] = "application/x-www-form-urlencoded"

	body := url.Values{"token": {token}}.Encode()
	resp, err := c.doRequest(ctx, http.MethodPost, "/oauth2/introspect", strings.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var out IntrospectionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
