package domain

// BootstrapData describes the initial registrar client.
type BootstrapData struct {
	ClientName string
	Scopes     []string
}

// BootstrapResult carries the generated credentials of the bootstrap client.
type BootstrapResult struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
}
