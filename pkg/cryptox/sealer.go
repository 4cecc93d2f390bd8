package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrCiphertextTooShort is returned when sealed data cannot hold a nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Sealer performs authenticated encryption of secrets at rest using AES-256-GCM.
// Output format is: [12-byte nonce][encrypted data][16-byte auth tag]
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a 32-byte key from keyMaterial with SHA-256 and returns a Sealer.
func NewSealer(keyMaterial []byte) (*Sealer, error) {
	if len(keyMaterial) == 0 {
		return nil, errors.New("cryptox: empty master key material")
	}

	key := sha256.Sum256(keyMaterial)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Sealer{aead: gcm}, nil
}

// LoadSealer builds a Sealer from, in order of preference:
//  1. the file at path (if path is non-empty)
//  2. the literal envValue (typically AUTH_MASTER_KEY)
//  3. a random key that only lives for this process
//
// The returned bool reports whether the key is ephemeral.
func LoadSealer(path, envValue string) (*Sealer, bool, error) {
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read master key file: %w", err)
		}
		s, err := NewSealer(data)
		return s, false, err

	case envValue != "":
		s, err := NewSealer([]byte(envValue))
		return s, false, err

	default:
		material := make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, false, fmt.Errorf("failed to generate ephemeral master key: %w", err)
		}
		s, err := NewSealer(material)
		return s, true, err
	}
}

// Seal encrypts and authenticates plaintext with a fresh random nonce.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts data produced by Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

// SealString seals a string and returns it base64 encoded, suitable for text columns.
func (s *Sealer) SealString(plaintext string) (string, error) {
	sealed, err := s.Seal([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenString reverses SealString.
func (s *Sealer) OpenString(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	plaintext, err := s.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
