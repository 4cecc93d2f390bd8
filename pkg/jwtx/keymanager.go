package jwtx

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/aussiebroadwan/registrar/pkg/cryptox"
	"github.com/aussiebroadwan/registrar/pkg/idx"
)

// KeyManager owns the signing keys for an instance, the KeySet used to
// publish them, and the Verifier that checks tokens against them.
// Keys are selected randomly for signing operations.
type KeyManager struct {
	Verifier  Verifier
	KeySet    *KeySet
	algorithm string

	signers []Signer
	mu      sync.RWMutex
}

// KeyManagerOptions configures the KeyManager for a specific use case.
type KeyManagerOptions struct {
	// Algorithm specifies which signing algorithm to use for new keys.
	// Supported values: "RS256", "ES256", "EdDSA"
	Algorithm string

	// Issuer is the issuer claim (iss) that will be validated in tokens.
	Issuer string

	// Audience is the list of audience values (aud) that will be validated.
	// Empty slice means no audience validation.
	Audience []string

	// RSABits specifies the RSA key size for RS256. Defaults to 4096; must be at least 2048.
	RSABits int

	// NumKeys specifies how many signing keys to keep active.
	// Defaults to 3. Minimum is 1, maximum is 10.
	NumKeys int

	// Leeway tolerated on exp/nbf during verification.
	Leeway time.Duration
}

func (o *KeyManagerOptions) normalize() error {
	if o.Issuer == "" {
		return fmt.Errorf("jwtx: Issuer is required")
	}
	if !slices.Contains(SupportedAlgorithms, o.Algorithm) {
		return fmt.Errorf("jwtx: unsupported algorithm %q (supported: RS256, ES256, EdDSA)", o.Algorithm)
	}
	if o.NumKeys <= 0 {
		o.NumKeys = 3
	}
	if o.NumKeys > 10 {
		o.NumKeys = 10
	}
	if o.RSABits == 0 {
		o.RSABits = 4096
	}
	return nil
}

func newKeyManager(opts KeyManagerOptions, keyset *KeySet, signers []Signer) *KeyManager {
	return &KeyManager{
		Verifier: NewVerifier(keyset, VerifyOptions{
			Issuer:   opts.Issuer,
			Audience: opts.Audience,
			Leeway:   opts.Leeway,
		}),
		KeySet:    keyset,
		algorithm: opts.Algorithm,
		signers:   signers,
	}
}

// NewEphemeralKeyManager creates a KeyManager whose keys only exist in
// memory. All tokens become invalid when the process restarts.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	keyset := NewKeySet()
	signers := make([]Signer, 0, opts.NumKeys)

	for i := range opts.NumKeys {
		kid, err := generateRandomKeyID()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
		}

		_, signer, err := generateKeyAndSigner(opts.Algorithm, kid, opts.RSABits)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate signer %d: %w", i+1, err)
		}

		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add signer %d to keyset: %w", i+1, err)
		}
		signers = append(signers, signer)
	}

	return newKeyManager(opts, keyset, signers), nil
}

// SigningKeyRecord is a signing key as persisted by a KeyStore.
type SigningKeyRecord struct {
	ID                  string
	Kid                 string
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	RetiredAt           *time.Time
	ExpiresAt           time.Time
}

// KeyStore is the storage needed for persistent key management. It is kept
// here so jwtx does not depend on the store package.
type KeyStore interface {
	// ListAllSigningKeys returns every unexpired key, retired or not, for verification.
	ListAllSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)

	// ListActiveSigningKeys returns keys usable for signing.
	ListActiveSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)

	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error
}

// KeySealer encrypts private key material at rest.
type KeySealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// PersistentKeyManagerOptions configures a KeyManager backed by a KeyStore.
type PersistentKeyManagerOptions struct {
	KeyManagerOptions

	Store  KeyStore
	Sealer KeySealer

	// GracePeriod is how long a key remains valid for verification after
	// creation. Defaults to 30 days.
	GracePeriod time.Duration
}

// NewPersistentKeyManager loads keys from store so they survive restarts.
//
// All stored keys are published for verification, active keys are used for
// signing, and new keys are generated and stored until NumKeys are active.
func NewPersistentKeyManager(ctx context.Context, opts PersistentKeyManagerOptions) (*KeyManager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("jwtx: Store is required for persistent key manager")
	}
	if opts.Sealer == nil {
		return nil, fmt.Errorf("jwtx: Sealer is required for persistent key manager")
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = 30 * 24 * time.Hour
	}

	allKeys, err := opts.Store.ListAllSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load keys from database: %w", err)
	}
	activeKeys, err := opts.Store.ListActiveSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load active keys: %w", err)
	}

	keyset := NewKeySet()
	loaded := make(map[string]Signer, len(allKeys))
	for _, rec := range allKeys {
		signer, err := openSigner(opts.Sealer, rec)
		if err != nil {
			return nil, err
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add key %s to keyset: %w", rec.Kid, err)
		}
		loaded[rec.Kid] = signer
	}

	signers := make([]Signer, 0, opts.NumKeys)
	for _, rec := range activeKeys {
		signer, ok := loaded[rec.Kid]
		if !ok {
			if signer, err = openSigner(opts.Sealer, rec); err != nil {
				return nil, err
			}
			if err := keyset.AddSigner(signer); err != nil {
				return nil, fmt.Errorf("jwtx: failed to add key %s to keyset: %w", rec.Kid, err)
			}
		}
		signers = append(signers, signer)
	}

	now := time.Now().UTC()
	for len(signers) < opts.NumKeys {
		kid, err := generateRandomKeyID()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
		}

		pemData, signer, err := generateKeyAndSigner(opts.Algorithm, kid, opts.RSABits)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate new key: %w", err)
		}

		sealed, err := opts.Sealer.Seal(pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to encrypt new key: %w", err)
		}

		rec := SigningKeyRecord{
			ID:                  idx.New().String(),
			Kid:                 kid,
			Algorithm:           opts.Algorithm,
			PrivateKeyEncrypted: sealed,
			CreatedAt:           now,
			ExpiresAt:           now.Add(opts.GracePeriod),
		}
		if err := opts.Store.CreateSigningKey(ctx, rec); err != nil {
			return nil, fmt.Errorf("jwtx: failed to store new key: %w", err)
		}

		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add new key to keyset: %w", err)
		}
		signers = append(signers, signer)
	}

	return newKeyManager(opts.KeyManagerOptions, keyset, signers), nil
}

func openSigner(sealer KeySealer, rec SigningKeyRecord) (Signer, error) {
	pemData, err := sealer.Open(rec.PrivateKeyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to decrypt key %s: %w", rec.Kid, err)
	}
	signer, err := NewSigner(rec.Algorithm, rec.Kid, pemData)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to create signer for key %s: %w", rec.Kid, err)
	}
	return signer, nil
}

func generateKeyAndSigner(algorithm, kid string, rsaBits int) ([]byte, Signer, error) {
	var pemData []byte
	var err error

	switch algorithm {
	case AlgorithmRS256:
		pemData, err = cryptox.GenerateRSAKey(rsaBits)
	case AlgorithmES256:
		pemData, err = cryptox.GenerateES256Key()
	case AlgorithmEdDSA:
		pemData, err = cryptox.GenerateEd25519Key()
	default:
		return nil, nil, fmt.Errorf("unsupported algorithm %q", algorithm)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate %s key: %w", algorithm, err)
	}

	signer, err := NewSigner(algorithm, kid, pemData)
	if err != nil {
		return nil, nil, err
	}
	return pemData, signer, nil
}

// Algorithm returns the signing algorithm used for new keys.
func (km *KeyManager) Algorithm() string {
	return km.algorithm
}

// IsReady returns true if the KeyManager has verification keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner returns a randomly selected active signer, or nil if none exist.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// generateRandomKeyID returns "registrar-{128-bit token}".
func generateRandomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("failed to generate random key ID: %w", err)
	}
	return "registrar-" + token, nil
}
