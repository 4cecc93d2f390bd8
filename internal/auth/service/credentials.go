package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/cryptox"
	"github.com/aussiebroadwan/registrar/pkg/slogx"
)

// MaxCredentialAttempts bounds how many client_id values are tried before
// giving up on a registration.
const MaxCredentialAttempts = 5

var ErrCredentialsExhausted = errors.New("client credential generation exhausted")

// CredentialGenerator produces client identifiers and secrets.
type CredentialGenerator interface {
	NewClientID() (string, error)
	NewClientSecret() (string, error)
}

// RandomCredentials draws credentials from crypto/rand: 128-bit client ids
// and 256-bit secrets, both base64url encoded.
type RandomCredentials struct{}

func (RandomCredentials) NewClientID() (string, error) {
	return cryptox.GenerateToken(cryptox.TokenSize128)
}

func (RandomCredentials) NewClientSecret() (string, error) {
	return cryptox.GenerateToken(cryptox.TokenSize256)
}

// secretMaterial is a freshly generated secret in its three forms.
type secretMaterial struct {
	Plain  string
	Hash   string
	Sealed string
}

func newSecret(gen CredentialGenerator, hasher *cryptox.SecretHasher, sealer *cryptox.Sealer) (secretMaterial, error) {
	plain, err := gen.NewClientSecret()
	if err != nil {
		return secretMaterial{}, fmt.Errorf("generate client secret: %w", err)
	}
	hash, err := hasher.Hash(plain)
	if err != nil {
		return secretMaterial{}, fmt.Errorf("hash client secret: %w", err)
	}
	sealed, err := sealer.SealString(plain)
	if err != nil {
		return secretMaterial{}, fmt.Errorf("seal client secret: %w", err)
	}
	return secretMaterial{Plain: plain, Hash: hash, Sealed: sealed}, nil
}

// createWithFreshClientID assigns a new client_id to c and stores it,
// drawing another id whenever the store reports a collision.
func createWithFreshClientID(
	ctx context.Context,
	clients store.Clients,
	gen CredentialGenerator,
	c domain.RegisteredClient,
) (domain.RegisteredClient, error) {
	l := slogx.FromContext(ctx)

	for attempt := 1; attempt <= MaxCredentialAttempts; attempt++ {
		clientID, err := gen.NewClientID()
		if err != nil {
			return domain.RegisteredClient{}, fmt.Errorf("generate client id: %w", err)
		}
		c.ClientID = clientID

		err = clients.CreateClient(ctx, c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return domain.RegisteredClient{}, fmt.Errorf("create client: %w", err)
		}
		l.Warn("client_id collision, regenerating", slog.Int("attempt", attempt))
	}
	return domain.RegisteredClient{}, ErrCredentialsExhausted
}
