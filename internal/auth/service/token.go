package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/cryptox"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidClient      = errors.New("invalid client")
	ErrInvalidScope       = errors.New("invalid scope")
	ErrUnauthorizedClient = errors.New("unauthorized client")
	ErrNoSigningKey       = errors.New("no signing key available")
)

// TokenValidator turns a raw bearer token into the principal it carries.
type TokenValidator interface {
	Validate(ctx context.Context, raw string) (domain.Principal, error)
}

// BoundTokenIssuer mints tokens usable only against one client's registration.
type BoundTokenIssuer interface {
	IssueBound(ctx context.Context, clientID string, scopes []string) (string, error)
}

type TokenService struct {
	KeyManager *jwtx.KeyManager
	Clients    store.Clients
	Hasher     *cryptox.SecretHasher

	Issuer          string
	AccessTTL       time.Duration
	RegistrationTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Validate verifies signature, expiry and issuer. Every failure is reported
// as ErrUnauthorized wrapping the underlying jwtx error.
func (s *TokenService) Validate(ctx context.Context, raw string) (domain.Principal, error) {
	if raw == "" {
		return domain.Principal{}, fmt.Errorf("%w: %w", ErrUnauthorized, jwtx.ErrMalformed)
	}

	claims, err := s.KeyManager.Verifier.Verify(raw)
	if err != nil {
		slogx.FromContext(ctx).Debug("token verification failed", slog.Any("err", err))
		return domain.Principal{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return principalFromClaims(claims), nil
}

// IssueBound signs a token whose subject, authorized party and audience are
// all clientID.
func (s *TokenService) IssueBound(ctx context.Context, clientID string, scopes []string) (string, error) {
	token, _, err := s.sign(clientID, scopes, s.RegistrationTTL)
	if err != nil {
		return "", err
	}
	slogx.FromContext(ctx).Debug("registration access token issued", slog.String("client_id", clientID))
	return token, nil
}

// ExchangeClientCredentials authenticates the client by secret and issues an
// access token for the requested scopes. An empty request yields every scope
// the client holds.
func (s *TokenService) ExchangeClientCredentials(
	ctx context.Context,
	clientID, clientSecret string,
	requestedScopes []string,
) (*domain.TokenResponse, error) {
	l := slogx.FromContext(ctx).With(slog.String("client_id", clientID))

	if clientID == "" || clientSecret == "" {
		return nil, ErrInvalidClient
	}

	client, err := s.Clients.GetClientByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("token request for unknown client")
			return nil, ErrInvalidClient
		}
		return nil, fmt.Errorf("load client: %w", err)
	}

	if !client.IsConfidential() {
		l.Info("token request for public client")
		return nil, ErrInvalidClient
	}
	if client.SecretExpired(s.now()) {
		l.Info("token request with expired secret")
		return nil, ErrInvalidClient
	}
	if err := s.Hasher.Verify(clientSecret, client.SecretHash); err != nil {
		l.Info("client secret mismatch")
		return nil, ErrInvalidClient
	}

	if !client.HasGrantType(domain.GrantTypeClientCredentials) {
		return nil, ErrUnauthorizedClient
	}

	scopes := client.Scopes
	if len(requestedScopes) > 0 {
		scopes = intersectScopes(requestedScopes, client.Scopes)
	}
	if len(scopes) == 0 {
		return nil, ErrInvalidScope
	}

	token, claims, err := s.sign(client.ClientID, scopes, s.AccessTTL)
	if err != nil {
		return nil, err
	}

	l.Info("access token issued", slog.String("jti", claims.ID))
	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.AccessTTL,
		Scope:       claims.Scope,
	}, nil
}

// Introspect reports whether raw is a live token issued here.
func (s *TokenService) Introspect(ctx context.Context, raw string) (domain.Principal, bool) {
	p, err := s.Validate(ctx, raw)
	if err != nil {
		return domain.Principal{}, false
	}
	return p, true
}

func (s *TokenService) sign(clientID string, scopes []string, ttl time.Duration) (string, jwtx.Claims, error) {
	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return "", jwtx.Claims{}, ErrNoSigningKey
	}

	claims := jwtx.NewAccessClaims(clientID, scopes, ttl, s.Issuer, []string{clientID}, s.now())
	token, err := signer.Sign(claims)
	if err != nil {
		return "", jwtx.Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return token, claims, nil
}

func principalFromClaims(c jwtx.Claims) domain.Principal {
	p := domain.Principal{
		Subject:         c.Subject,
		AuthorizedParty: c.AuthorizedParty(),
		ClientID:        c.ClientID,
		Scopes:          c.Scopes(),
		Audience:        []string(c.Audience),
		Issuer:          c.Issuer,
		JTI:             c.ID,
	}
	if c.IssuedAt != nil {
		p.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p
}

// intersectScopes keeps the requested scopes the client holds, in request
// order and without duplicates.
func intersectScopes(requested, allowed []string) []string {
	out := make([]string, 0, len(requested))
	for _, s := range requested {
		if slices.Contains(allowed, s) && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
