package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/cryptox"
	"github.com/aussiebroadwan/registrar/pkg/idx"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("invalid bootstrap token")
	ErrBootstrapDisabled     = errors.New("bootstrap is disabled")
)

// BootstrapService seeds the first client, the one that holds the
// registration scope and therefore lets everyone else register.
type BootstrapService struct {
	Clients     store.Clients
	Credentials CredentialGenerator
	Hasher      *cryptox.SecretHasher
	Sealer      *cryptox.Sealer

	// Token guards the HTTP bootstrap endpoint. Empty disables it.
	Token string

	// DefaultScopes are granted when the request names none.
	DefaultScopes []string
}

// IsBootstrapped reports whether any client exists yet.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Clients.IsEmpty(ctx)
	if err != nil {
		return false, fmt.Errorf("check bootstrap state: %w", err)
	}
	return !empty, nil
}

// Bootstrap checks the presented token and creates the initial client.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, data domain.BootstrapData) (*domain.BootstrapResult, error) {
	if s.Token == "" {
		return nil, ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		slogx.FromContext(ctx).Warn("bootstrap attempted with invalid token")
		return nil, ErrBootstrapUnauthorized
	}
	return s.CreateInitialClient(ctx, data)
}

// CreateInitialClient creates the bootstrap client without a token check.
// It still refuses once any client exists.
func (s *BootstrapService) CreateInitialClient(ctx context.Context, data domain.BootstrapData) (*domain.BootstrapResult, error) {
	l := slogx.FromContext(ctx)

	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return nil, err
	}
	if bootstrapped {
		return nil, ErrBootstrapAlready
	}

	scopes := slices.Clone(data.Scopes)
	if len(scopes) == 0 {
		scopes = slices.Clone(s.DefaultScopes)
	}

	secret, err := newSecret(s.Credentials, s.Hasher, s.Sealer)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	client := domain.RegisteredClient{
		ID:                       idx.NewAt(now).String(),
		ClientIDIssuedAt:         now,
		ClientSecret:             secret.Plain,
		SecretHash:               secret.Hash,
		SecretSealed:             secret.Sealed,
		ClientName:               data.ClientName,
		GrantTypes:               []string{domain.GrantTypeClientCredentials},
		ResponseTypes:            []string{domain.ResponseTypeCode},
		Scopes:                   scopes,
		TokenEndpointAuthMethod:  domain.AuthMethodClientSecretBasic,
		IDTokenSignedResponseAlg: jwtx.AlgorithmRS256,
		Protected:                true,
		CreatedAt:                now,
	}

	client, err = createWithFreshClientID(ctx, s.Clients, s.Credentials, client)
	if err != nil {
		return nil, err
	}

	l.Info("bootstrap client created",
		slog.String("client_id", client.ClientID),
		slog.String("client_name", client.ClientName),
		slog.Any("scopes", scopes),
	)
	return &domain.BootstrapResult{
		ClientID:     client.ClientID,
		ClientSecret: secret.Plain,
		Scopes:       scopes,
	}, nil
}
