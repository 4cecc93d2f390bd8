package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store/drivers/sqlite/gen"
)

type signingKeysRepo struct {
	q *gen.Queries
}

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, key domain.SigningKey) error {
	return r.q.CreateSigningKey(ctx, gen.CreateSigningKeyParams{
		ID:                  key.ID,
		Kid:                 key.Kid,
		Algorithm:           key.Algorithm,
		PrivateKeyEncrypted: key.PrivateKeyEncrypted,
		CreatedAt:           key.CreatedAt.Unix(),
		ExpiresAt:           key.ExpiresAt.Unix(),
	})
}

func (r *signingKeysRepo) GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error) {
	row, err := r.q.GetSigningKeyByKid(ctx, kid)
	if err != nil {
		return domain.SigningKey{}, mapNotFound(err)
	}
	return mapSigningKey(row), nil
}

func (r *signingKeysRepo) ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	rows, err := r.q.ListActiveSigningKeys(ctx, time.Now().Unix())
	if err != nil {
		return nil, err
	}
	return mapSigningKeys(rows), nil
}

func (r *signingKeysRepo) ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	rows, err := r.q.ListAllSigningKeys(ctx, time.Now().Unix())
	if err != nil {
		return nil, err
	}
	return mapSigningKeys(rows), nil
}

func (r *signingKeysRepo) RetireSigningKey(ctx context.Context, kid string) error {
	return r.q.RetireSigningKey(ctx, gen.RetireSigningKeyParams{
		RetiredAt: sql.NullInt64{Int64: time.Now().Unix(), Valid: true},
		Kid:       kid,
	})
}

func (r *signingKeysRepo) DeleteExpiredSigningKeys(ctx context.Context) (int64, error) {
	return r.q.DeleteExpiredSigningKeys(ctx, time.Now().Unix())
}

func mapSigningKeys(rows []gen.SigningKey) []domain.SigningKey {
	keys := make([]domain.SigningKey, len(rows))
	for i, row := range rows {
		keys[i] = mapSigningKey(row)
	}
	return keys
}
