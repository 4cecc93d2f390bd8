package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrClientProtected   = errors.New("client is protected")
	ErrKeyNotFound       = errors.New("signing key not found")
	ErrKeyAlreadyRetired = errors.New("signing key already retired")
)

// ClientAdminService backs the operator CLI. Registered clients cannot
// delete themselves over HTTP; an operator can.
type ClientAdminService struct {
	Clients store.Clients
}

func (s *ClientAdminService) ListClients(ctx context.Context) ([]domain.RegisteredClient, error) {
	clients, err := s.Clients.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// DeleteClient removes a client. The bootstrap client is refused.
func (s *ClientAdminService) DeleteClient(ctx context.Context, clientID string) error {
	client, err := s.Clients.GetClientByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("load client: %w", err)
	}
	if client.Protected {
		return ErrClientProtected
	}

	if err := s.Clients.DeleteClient(ctx, clientID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	slogx.FromContext(ctx).Info("client deleted", slog.String("client_id", clientID))
	return nil
}

// KeyAdminService inspects and retires persisted signing keys. A retired key
// keeps verifying until it expires; the next start tops active keys back up.
type KeyAdminService struct {
	Keys store.SigningKeys
}

func (s *KeyAdminService) ListSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	keys, err := s.Keys.ListAllSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list signing keys: %w", err)
	}
	return keys, nil
}

func (s *KeyAdminService) RetireKey(ctx context.Context, kid string) error {
	key, err := s.Keys.GetSigningKeyByKid(ctx, kid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("load signing key: %w", err)
	}
	if !key.IsActive(time.Now()) {
		return ErrKeyAlreadyRetired
	}

	if err := s.Keys.RetireSigningKey(ctx, kid); err != nil {
		return fmt.Errorf("retire signing key: %w", err)
	}
	slogx.FromContext(ctx).Info("signing key retired", slog.String("kid", kid))
	return nil
}
