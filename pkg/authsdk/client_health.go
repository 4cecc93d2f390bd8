package authsdk

import (
	"context"
	"errors"
	"net/http"
)

// ErrNotReady is returned by GetReadiness together with the report when the
// server answers 503. The report's Checks name the failing dependency.
var ErrNotReady = errors.New("authsdk: service not ready")

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/livez", false)
}

// GetReadiness checks that the client store and the signing keys are usable.
// A degraded server yields both the report and ErrNotReady.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/readyz", true)
}

func (c *SDKClient) getHealth(ctx context.Context, path string, reportDegraded bool) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	if reportDegraded && resp.StatusCode == http.StatusServiceUnavailable {
		var health HealthResponse
		if err := decodeJSON(resp, &health, http.StatusServiceUnavailable); err != nil {
			return nil, err
		}
		return &health, ErrNotReady
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
