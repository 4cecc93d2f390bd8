package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultRegistrationPath is where the server mounts the registration and
// configuration endpoints unless configured otherwise.
const DefaultRegistrationPath = "/connect/register"

// SDKClient is a client for the registrar service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// RegistrationPath is the path of the registration endpoint. It must
	// match the server's AUTH_REGISTRATION_PATH.
	RegistrationPath string
}

// NewSDKClient creates a new registrar client using the default registration path.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		RegistrationPath: DefaultRegistrationPath,
	}
}
