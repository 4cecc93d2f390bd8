package store

import (
	"context"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
)

// KeyStore exposes a SigningKeys repository as a jwtx.KeyStore, so jwtx can
// persist keys without importing the domain or store packages.
type KeyStore struct {
	keys SigningKeys
}

var _ jwtx.KeyStore = (*KeyStore)(nil)

func NewKeyStore(keys SigningKeys) *KeyStore {
	return &KeyStore{keys: keys}
}

func (k *KeyStore) ListAllSigningKeys(ctx context.Context) ([]jwtx.SigningKeyRecord, error) {
	return toRecords(k.keys.ListAllSigningKeys(ctx))
}

func (k *KeyStore) ListActiveSigningKeys(ctx context.Context) ([]jwtx.SigningKeyRecord, error) {
	return toRecords(k.keys.ListActiveSigningKeys(ctx))
}

func (k *KeyStore) CreateSigningKey(ctx context.Context, rec jwtx.SigningKeyRecord) error {
	return k.keys.CreateSigningKey(ctx, domain.SigningKey(rec))
}

func toRecords(keys []domain.SigningKey, err error) ([]jwtx.SigningKeyRecord, error) {
	if err != nil {
		return nil, err
	}
	out := make([]jwtx.SigningKeyRecord, len(keys))
	for i, key := range keys {
		out[i] = jwtx.SigningKeyRecord(key)
	}
	return out, nil
}
