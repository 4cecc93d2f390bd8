package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/store"
	"github.com/aussiebroadwan/registrar/internal/auth/store/drivers/sqlite/gen"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

var _ store.Store = (*Store)(nil)

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Clients() store.Clients         { return &clientsRepo{q: s.q} }
func (s *Store) SigningKeys() store.SigningKeys { return &signingKeysRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullUnixPtr(n sql.NullInt64) *time.Time {
	if n.Valid {
		val := time.Unix(n.Int64, 0).UTC()
		return &val
	}
	return nil
}

func mapOptionalUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func fromUnix(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func mapClient(row gen.Client) (domain.RegisteredClient, error) {
	var redirectURIs []string
	if err := json.Unmarshal([]byte(row.RedirectUris), &redirectURIs); err != nil {
		return domain.RegisteredClient{}, err
	}

	return domain.RegisteredClient{
		ID:                       row.ID,
		ClientID:                 row.ClientID,
		ClientIDIssuedAt:         fromUnix(row.ClientIDIssuedAt),
		SecretHash:               mapNullString(row.SecretHash),
		SecretSealed:             mapNullString(row.SecretSealed),
		ClientSecretExpiresAt:    mapNullUnixPtr(row.ClientSecretExpiresAt),
		ClientName:               row.ClientName,
		RedirectURIs:             redirectURIs,
		GrantTypes:               splitAndFilter(row.GrantTypes),
		ResponseTypes:            splitAndFilter(row.ResponseTypes),
		Scopes:                   splitAndFilter(row.Scopes),
		TokenEndpointAuthMethod:  row.TokenEndpointAuthMethod,
		IDTokenSignedResponseAlg: row.IDTokenSignedResponseAlg,
		Protected:                row.Protected,
		CreatedAt:                fromUnix(row.CreatedAt),
	}, nil
}

func splitAndFilter(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Fields(s)
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

func mapSigningKey(row gen.SigningKey) domain.SigningKey {
	return domain.SigningKey{
		ID:                  row.ID,
		Kid:                 row.Kid,
		Algorithm:           row.Algorithm,
		PrivateKeyEncrypted: row.PrivateKeyEncrypted,
		CreatedAt:           fromUnix(row.CreatedAt),
		RetiredAt:           mapNullUnixPtr(row.RetiredAt),
		ExpiresAt:           fromUnix(row.ExpiresAt),
	}
}
