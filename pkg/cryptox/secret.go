package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

var (
	ErrSecretMismatch = errors.New("secret does not match")
	ErrInvalidHash    = errors.New("invalid hash format")
)

// SecretHasher hashes client secrets with Argon2id and a server-side pepper.
type SecretHasher struct {
	pepper string
}

func NewSecretHasher(pepper string) *SecretHasher {
	return &SecretHasher{pepper: pepper}
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *SecretHasher) Hash(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(secret+h.pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify compares a plaintext secret against a PHC-style Argon2id hash.
func (h *SecretHasher) Verify(secret, encodedHash string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return fmt.Errorf("%w: expected 6 parts", ErrInvalidHash)
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("%w: not argon2id", ErrInvalidHash)
	}
	if parts[2] != "v=19" {
		return fmt.Errorf("%w: wrong version", ErrInvalidHash)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: failed to parse parameters: %v", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: failed to decode salt: %v", ErrInvalidHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: failed to decode hash: %v", ErrInvalidHash, err)
	}

	computed := argon2.IDKey(
		[]byte(secret+h.pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - If this overflows we have bigger problems
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrSecretMismatch
}

// LoadOrCreatePepper reads the pepper stored at path, generating and
// persisting a new one when the file does not exist yet.
func LoadOrCreatePepper(path string) (string, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	pepper := base64.RawURLEncoding.EncodeToString(buf)
	if err := os.WriteFile(path, []byte(pepper), 0600); err != nil {
		return "", err
	}
	return pepper, nil
}
