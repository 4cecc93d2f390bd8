package cryptox

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// GenerateRSAKey generates a new RSA private key with the specified bit size.
// Returns the private key in PEM format (PKCS1).
func GenerateRSAKey(bits int) ([]byte, error) {
	if bits < 2048 {
		return nil, fmt.Errorf("cryptox: RSA key size must be at least 2048 bits")
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate RSA key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}), nil
}

// GenerateES256Key generates a new ECDSA P-256 private key in PEM format (PKCS8).
func GenerateES256Key() ([]byte, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate ECDSA key: %w", err)
	}
	return encodePKCS8(privateKey)
}

// GenerateEd25519Key generates a new Ed25519 private key in PEM format (PKCS8).
func GenerateEd25519Key() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate Ed25519 key: %w", err)
	}
	return encodePKCS8(privateKey)
}

func encodePKCS8(key any) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
