package sqlite

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/internal/auth/store/drivers/sqlite/gen"
)

type clientsRepo struct {
	q *gen.Queries
}

func (r *clientsRepo) GetClientByClientID(ctx context.Context, clientID string) (domain.RegisteredClient, error) {
	row, err := r.q.GetClientByClientID(ctx, clientID)
	if err != nil {
		return domain.RegisteredClient{}, mapNotFound(err)
	}
	return mapClient(row)
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.RegisteredClient, error) {
	rows, err := r.q.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	clients := make([]domain.RegisteredClient, len(rows))
	for i, row := range rows {
		if clients[i], err = mapClient(row); err != nil {
			return nil, err
		}
	}
	return clients, nil
}

// CreateClient relies on the PRIMARY KEY and UNIQUE(client_id) constraints
// with ON CONFLICT DO NOTHING, so a collision shows up as zero rows affected.
func (r *clientsRepo) CreateClient(ctx context.Context, c domain.RegisteredClient) error {
	redirectURIs, err := json.Marshal(nonNil(c.RedirectURIs))
	if err != nil {
		return err
	}

	n, err := r.q.CreateClient(ctx, gen.CreateClientParams{
		ID:                       c.ID,
		ClientID:                 c.ClientID,
		ClientIDIssuedAt:         c.ClientIDIssuedAt.Unix(),
		SecretHash:               mapStringNull(c.SecretHash),
		SecretSealed:             mapStringNull(c.SecretSealed),
		ClientSecretExpiresAt:    mapOptionalUnix(c.ClientSecretExpiresAt),
		ClientName:               c.ClientName,
		RedirectUris:             string(redirectURIs),
		GrantTypes:               strings.Join(c.GrantTypes, " "),
		ResponseTypes:            strings.Join(c.ResponseTypes, " "),
		Scopes:                   strings.Join(c.Scopes, " "),
		TokenEndpointAuthMethod:  c.TokenEndpointAuthMethod,
		IDTokenSignedResponseAlg: c.IDTokenSignedResponseAlg,
		Protected:                c.Protected,
		CreatedAt:                c.CreatedAt.Unix(),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *clientsRepo) DeleteClient(ctx context.Context, clientID string) error {
	return r.q.DeleteClient(ctx, clientID)
}

func (r *clientsRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountClients(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
