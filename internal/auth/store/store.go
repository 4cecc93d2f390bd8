package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, redis,
// memory) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Clients() Clients
	SigningKeys() SigningKeys

	// ApplyMigrations brings the backing schema up to date. Drivers without
	// a schema return nil.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing connection is still alive.
	Ping(ctx context.Context) error
}

type Clients interface {
	// GetClientByClientID returns ErrNotFound when no client has that id.
	GetClientByClientID(ctx context.Context, clientID string) (domain.RegisteredClient, error)

	// ListClients returns all clients ordered by creation date (newest first).
	ListClients(ctx context.Context) ([]domain.RegisteredClient, error)

	// CreateClient inserts c only if no client holds c.ClientID, returning
	// ErrAlreadyExists otherwise. Existing records are never overwritten.
	CreateClient(ctx context.Context, c domain.RegisteredClient) error

	DeleteClient(ctx context.Context, clientID string) error

	// IsEmpty returns true if there are no clients.
	IsEmpty(ctx context.Context) (bool, error)
}

type SigningKeys interface {
	// CreateSigningKey stores a new signing key with encrypted private key material.
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error

	// GetSigningKeyByKid fetches a signing key by its key identifier.
	GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error)

	// ListActiveSigningKeys returns all non-retired, non-expired signing keys
	// ordered by creation date (newest first).
	ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// ListAllSigningKeys returns all unexpired signing keys, retired or not,
	// ordered by creation date (newest first). Used for verification during
	// the grace period.
	ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// RetireSigningKey marks a key as retired. Retired keys still verify but
	// no longer sign.
	RetireSigningKey(ctx context.Context, kid string) error

	// DeleteExpiredSigningKeys removes all keys past their expires_at and
	// returns how many were removed.
	DeleteExpiredSigningKeys(ctx context.Context) (int64, error)
}
