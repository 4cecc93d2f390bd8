package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Register creates a new client at the registration endpoint. The token must
// carry the server's registration scope. On success the response includes the
// one-time registration access token.
func (c *SDKClient) Register(
	ctx context.Context,
	token string,
	metadata ClientRegistration,
) (*ClientRegistration, error) {
	body, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := bearerHeaders(token)
	headers["Content-Type"] = "application/json"

	resp, err := c.doRequest(ctx, http.MethodPost, c.RegistrationPath, bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var out ClientRegistration
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClientConfiguration reads the registration of clientID. The token must
// be bound to clientID, typically the registration access token returned by
// Register.
func (c *SDKClient) GetClientConfiguration(
	ctx context.Context,
	token, clientID string,
) (*ClientRegistration, error) {
	path := c.RegistrationPath + "?" + url.Values{"client_id": {clientID}}.Encode()

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, bearerHeaders(token))
	if err != nil {
		return nil, err
	}

	var out ClientRegistration
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClientConfigurationURI follows a registration_client_uri as returned by
// the server. The URI must be absolute.
func (c *SDKClient) GetClientConfigurationURI(
	ctx context.Context,
	token, registrationClientURI string,
) (*ClientRegistration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, registrationClientURI, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var out ClientRegistration
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
