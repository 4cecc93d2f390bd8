package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/cryptox"
	"github.com/aussiebroadwan/registrar/pkg/idx"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

var (
	ErrInvalidRedirectURI    = errors.New("invalid redirect uri")
	ErrInvalidClientMetadata = errors.New("invalid client metadata")
)

// Default scope names guarding the two registration endpoints.
const (
	DefaultRegistrationScope  = "client.create"
	DefaultConfigurationScope = "client.read"
)

// ValidationError describes why registration metadata was rejected. Kind is
// ErrInvalidRedirectURI or ErrInvalidClientMetadata.
type ValidationError struct {
	Kind        error
	Description string
}

func (e *ValidationError) Error() string { return e.Kind.Error() + ": " + e.Description }
func (e *ValidationError) Unwrap() error { return e.Kind }

func invalidRedirect(format string, args ...any) error {
	return &ValidationError{Kind: ErrInvalidRedirectURI, Description: fmt.Sprintf(format, args...)}
}

func invalidMetadata(format string, args ...any) error {
	return &ValidationError{Kind: ErrInvalidClientMetadata, Description: fmt.Sprintf(format, args...)}
}

type RegistrationConfig struct {
	RegistrationScope  string
	ConfigurationScope string
	Defaults           domain.RegistrationDefaults
}

// Registration is the outcome of a successful registration. Client carries
// the plaintext secret, which is never available from the store again except
// through ReadConfiguration.
type Registration struct {
	Client                  domain.RegisteredClient
	RegistrationAccessToken string
}

type RegistrationService struct {
	Clients     store.Clients
	Tokens      TokenValidator
	Issuer      BoundTokenIssuer
	Credentials CredentialGenerator
	Hasher      *cryptox.SecretHasher
	Sealer      *cryptox.Sealer
	Config      RegistrationConfig

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *RegistrationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// authorize validates the bearer and checks it carries scope.
func (s *RegistrationService) authorize(ctx context.Context, bearer, scope string) (domain.Principal, error) {
	p, err := s.Tokens.Validate(ctx, bearer)
	if err != nil {
		return domain.Principal{}, err
	}
	if !p.HasScope(scope) {
		slogx.FromContext(ctx).Debug("token lacks required scope",
			slog.String("scope", scope),
			slog.String("azp", p.AuthorizedParty),
		)
		return domain.Principal{}, fmt.Errorf("%w: missing scope %q", ErrUnauthorized, scope)
	}
	return p, nil
}

// AuthorizeRegistration checks that bearer may register new clients.
func (s *RegistrationService) AuthorizeRegistration(ctx context.Context, bearer string) (domain.Principal, error) {
	return s.authorize(ctx, bearer, s.Config.RegistrationScope)
}

// Register creates a new client from md on behalf of the bearer, which must
// carry the registration scope.
func (s *RegistrationService) Register(ctx context.Context, bearer string, md domain.ClientMetadata) (*Registration, error) {
	if _, err := s.AuthorizeRegistration(ctx, bearer); err != nil {
		return nil, err
	}
	return s.RegisterClient(ctx, md)
}

// RegisterClient validates md and persists a new client. Callers must have
// authorized the request already. The returned client holds its plaintext
// secret and a registration access token bound to the new client_id.
func (s *RegistrationService) RegisterClient(ctx context.Context, md domain.ClientMetadata) (*Registration, error) {
	l := slogx.FromContext(ctx)

	md = domain.ApplyRegistrationDefaults(md, s.Config.Defaults)
	if err := s.validate(md); err != nil {
		l.Info("registration rejected", slog.Any("err", err))
		return nil, err
	}

	now := s.now()
	client := domain.RegisteredClient{
		ID:                       idx.NewAt(now).String(),
		ClientIDIssuedAt:         now,
		ClientName:               clientName(md),
		RedirectURIs:             md.RedirectURIs,
		GrantTypes:               md.GrantTypes,
		ResponseTypes:            md.ResponseTypes,
		Scopes:                   md.Scopes,
		TokenEndpointAuthMethod:  md.TokenEndpointAuthMethod,
		IDTokenSignedResponseAlg: md.IDTokenSignedResponseAlg,
		CreatedAt:                now,
	}

	if md.TokenEndpointAuthMethod != domain.AuthMethodNone {
		secret, err := newSecret(s.Credentials, s.Hasher, s.Sealer)
		if err != nil {
			return nil, err
		}
		client.ClientSecret = secret.Plain
		client.SecretHash = secret.Hash
		client.SecretSealed = secret.Sealed
	}

	client, err := createWithFreshClientID(ctx, s.Clients, s.Credentials, client)
	if err != nil {
		return nil, err
	}

	token, err := s.Issuer.IssueBound(ctx, client.ClientID, []string{s.Config.ConfigurationScope})
	if err != nil {
		if derr := s.Clients.DeleteClient(ctx, client.ClientID); derr != nil {
			l.Error("failed to remove client after token issue failure",
				slog.String("client_id", client.ClientID),
				slog.Any("err", derr),
			)
		}
		return nil, fmt.Errorf("issue registration access token: %w", err)
	}

	l.Info("client registered",
		slog.String("client_id", client.ClientID),
		slog.String("client_name", client.ClientName),
		slog.Any("grant_types", client.GrantTypes),
	)
	return &Registration{Client: client, RegistrationAccessToken: token}, nil
}

// ReadConfiguration returns the stored registration for clientID. The
// bearer must carry the configuration scope and be bound to clientID.
// Unknown clients are reported as ErrUnauthorized, the same as a mismatch.
func (s *RegistrationService) ReadConfiguration(ctx context.Context, bearer, clientID string) (domain.RegisteredClient, error) {
	l := slogx.FromContext(ctx)

	p, err := s.authorize(ctx, bearer, s.Config.ConfigurationScope)
	if err != nil {
		return domain.RegisteredClient{}, err
	}

	if clientID == "" || subtle.ConstantTimeCompare([]byte(p.AuthorizedParty), []byte(clientID)) != 1 {
		l.Debug("registration access token bound to another client")
		return domain.RegisteredClient{}, fmt.Errorf("%w: token not bound to client", ErrUnauthorized)
	}

	client, err := s.Clients.GetClientByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Debug("configuration read for unknown client")
			return domain.RegisteredClient{}, fmt.Errorf("%w: unknown client", ErrUnauthorized)
		}
		return domain.RegisteredClient{}, fmt.Errorf("load client: %w", err)
	}

	if client.SecretSealed != "" {
		secret, err := s.Sealer.OpenString(client.SecretSealed)
		if err != nil {
			return domain.RegisteredClient{}, fmt.Errorf("open client secret: %w", err)
		}
		client.ClientSecret = secret
	}

	l.Info("client configuration read", slog.String("client_id", clientID))
	return client, nil
}

// validate applies ValidateClientMetadata and keeps the registration scope
// out of self-registered clients. Only bootstrap grants it.
func (s *RegistrationService) validate(md domain.ClientMetadata) error {
	if err := ValidateClientMetadata(md); err != nil {
		return err
	}
	if slices.Contains(md.Scopes, s.Config.RegistrationScope) {
		return invalidMetadata("scope %q cannot be requested at registration", s.Config.RegistrationScope)
	}
	return nil
}

func clientName(md domain.ClientMetadata) string {
	if md.ClientName == nil {
		return ""
	}
	return strings.TrimSpace(*md.ClientName)
}

// ValidateClientMetadata checks metadata that has already had defaults
// applied.
func ValidateClientMetadata(md domain.ClientMetadata) error {
	if err := validateRedirectURIs(md.RedirectURIs); err != nil {
		return err
	}

	if md.ClientName != nil {
		name := clientName(md)
		if name == "" {
			return invalidMetadata("client_name must not be empty")
		}
		if len(name) > domain.MaxClientNameLength {
			return invalidMetadata("client_name must be at most %d characters", domain.MaxClientNameLength)
		}
	}

	if len(md.GrantTypes) == 0 {
		return invalidMetadata("grant_types must not be empty")
	}
	for _, gt := range md.GrantTypes {
		if !slices.Contains(domain.SupportedGrantTypes, gt) {
			return invalidMetadata("unsupported grant_type %q", gt)
		}
	}

	if !slices.Contains(domain.SupportedAuthMethods, md.TokenEndpointAuthMethod) {
		return invalidMetadata("unsupported token_endpoint_auth_method %q", md.TokenEndpointAuthMethod)
	}
	if !slices.Contains(jwtx.SupportedAlgorithms, md.IDTokenSignedResponseAlg) {
		return invalidMetadata("unsupported id_token_signed_response_alg %q", md.IDTokenSignedResponseAlg)
	}

	for _, scope := range md.Scopes {
		if scope == "" || strings.ContainsAny(scope, " \t\r\n\"\\") {
			return invalidMetadata("invalid scope %q", scope)
		}
	}
	return nil
}

func validateRedirectURIs(uris []string) error {
	if len(uris) == 0 {
		return invalidRedirect("at least one redirect_uri is required")
	}
	if len(uris) > domain.MaxRedirectURIs {
		return invalidRedirect("at most %d redirect_uris are allowed", domain.MaxRedirectURIs)
	}

	for _, raw := range uris {
		if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
			return invalidRedirect("redirect_uri %q is malformed", raw)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return invalidRedirect("redirect_uri %q is malformed", raw)
		}
		if !u.IsAbs() {
			return invalidRedirect("redirect_uri %q must be absolute", raw)
		}
		if u.Fragment != "" || strings.Contains(raw, "#") {
			return invalidRedirect("redirect_uri %q must not contain a fragment", raw)
		}
	}
	return nil
}
