package domain

import "time"

// SigningKey is a persisted JWT signing key. The private key PEM is sealed
// with the master key. A retired key no longer signs but keeps verifying
// until ExpiresAt, after which housekeeping removes it.
type SigningKey struct {
	ID                  string // ULID
	Kid                 string // JWKS key id, "registrar-<random>"
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	RetiredAt           *time.Time
	ExpiresAt           time.Time
}

// IsActive reports whether the key may sign at now.
func (k SigningKey) IsActive(now time.Time) bool {
	return k.RetiredAt == nil && !k.IsExpired(now)
}

// IsExpired reports whether the key is past its hard expiry.
func (k SigningKey) IsExpired(now time.Time) bool {
	return !now.Before(k.ExpiresAt)
}
