package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// BootstrapTokenHeader carries the one-time bootstrap secret.
const BootstrapTokenHeader = "X-Bootstrap-Token"

// Bootstrap creates the initial registrar client on an empty server.
func (c *SDKClient) Bootstrap(
	ctx context.Context,
	token string,
	req BootstrapRequest,
) (*BootstrapResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", bytes.NewReader(body), map[string]string{
		"Content-Type":       "application/json",
		BootstrapTokenHeader: token,
	})
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
