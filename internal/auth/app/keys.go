package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/pkg/cryptox"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
)

// Secrets holds the key material used for client secrets and sealed keys.
type Secrets struct {
	Sealer *cryptox.Sealer
	Hasher *cryptox.SecretHasher
}

// LoadSecrets builds the sealer from the master key and the secret hasher
// from the pepper file, creating the pepper on first start.
func LoadSecrets(cfg Config, logger *slog.Logger) (Secrets, error) {
	sealer, ephemeral, err := cryptox.LoadSealer(cfg.MasterKeyPath, cfg.MasterKey)
	if err != nil {
		return Secrets{}, fmt.Errorf("failed to load master key: %w", err)
	}
	if ephemeral {
		logger.Warn("no master key configured, using an ephemeral one",
			"effect", "stored client secrets and signing keys cannot be opened after restart",
		)
	} else if cfg.MasterKeyPath != "" {
		logger.Info("master key loaded", "path", cfg.MasterKeyPath)
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return Secrets{}, fmt.Errorf("failed to load pepper: %w", err)
	}

	return Secrets{Sealer: sealer, Hasher: cryptox.NewSecretHasher(pepper)}, nil
}

// InitAuthKeys creates a new KeyManager with the configured algorithm and storage mode.
//
// Storage modes:
//   - "ephemeral": Keys are generated on startup and stored only in memory.
//     All existing tokens become invalid when the service restarts.
//   - "persistent": Keys are sealed and stored in the client store.
//     Tokens survive service restarts.
//
// Tokens carry the client id as audience, so the verifier checks none.
func InitAuthKeys(ctx context.Context, cfg Config, db store.Store, sealer *cryptox.Sealer, logger *slog.Logger) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
		RSABits:   cfg.RSABits,
		NumKeys:   cfg.NumKeys,
	}

	switch cfg.KeyStorageMode {
	case KeyStoragePersistent:
		logger.Info("initializing persistent key manager",
			"algorithm", cfg.Algorithm,
			"num_keys", cfg.NumKeys,
			"grace_period", cfg.KeyGracePeriod,
		)

		km, err := jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
			KeyManagerOptions: opts,
			Store:             store.NewKeyStore(db.SigningKeys()),
			Sealer:            sealer,
			GracePeriod:       cfg.KeyGracePeriod,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize persistent key manager: %w", err)
		}

		logger.Info("persistent signing keys loaded",
			"algorithm", km.Algorithm(),
			"num_keys", km.NumSigners(),
			"issuer", cfg.Issuer,
		)
		return km, nil

	default:
		km, err := jwtx.NewEphemeralKeyManager(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
		}

		logger.Info("generated ephemeral signing keys",
			"algorithm", km.Algorithm(),
			"num_keys", km.NumSigners(),
			"issuer", cfg.Issuer,
		)
		logger.Warn("tokens issued before this start are no longer valid")
		return km, nil
	}
}
