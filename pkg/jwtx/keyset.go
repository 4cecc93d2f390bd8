package jwtx

import (
	"errors"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds all public verification keys in memory. Safe for concurrent
// use by the JWKS handler and the verifier.
type KeySet struct {
	mu  sync.RWMutex
	jks JWKS
	pub map[string]any // kid: *rsa.PublicKey | ed25519.PublicKey | *ecdsa.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{
		pub: make(map[string]any),
	}
}

// AddSigner registers a Signer's public JWK into the KeySet.
func (k *KeySet) AddSigner(s Signer) error {
	return k.AddJWK(s.PublicJWK())
}

// AddJWK adds a JWK to the KeySet and parses it into a usable crypto key.
// Adding a kid twice is a no-op.
func (k *KeySet) AddJWK(j JWK) error {
	key, err := j.PublicKey()
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if _, exists := k.pub[j.Kid]; exists {
		return nil
	}
	k.pub[j.Kid] = key
	k.jks.Keys = append(k.jks.Keys, j)
	return nil
}

// Get returns the public key for the given kid.
func (k *KeySet) Get(kid string) (any, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// PublicJWKS returns a snapshot of the KeySet's JWKS for HTTP serving.
func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()

	keys := make([]JWK, len(k.jks.Keys))
	copy(keys, k.jks.Keys)
	return JWKS{Keys: keys}
}

// IsReady returns true if the KeySet has at least one key loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub) > 0
}
