package cryptox_test

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/aussiebroadwan/registrar/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateRSAKey(t *testing.T) {
	pemBytes, err := cryptox.GenerateRSAKey(2048)
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "RSA PRIVATE KEY", block.Type)

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	require.NoError(t, err)
	require.Equal(t, 2048, key.N.BitLen())
}

func TestGenerateRSAKeyRejectsTooSmall(t *testing.T) {
	_, err := cryptox.GenerateRSAKey(1024)
	require.Error(t, err)
	require.Contains(t, err.Error(), "at least 2048 bits")
}

func TestGenerateES256Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateES256Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)

	ec, ok := key.(*ecdsa.PrivateKey)
	require.True(t, ok)
	require.Equal(t, elliptic.P256(), ec.Curve)
}

func TestGenerateEd25519Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)

	_, ok := key.(ed25519.PrivateKey)
	require.True(t, ok)
}
