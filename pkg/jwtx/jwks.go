package jwtx

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
)

// JWK represents a public key in JSON Web Key format (RFC 7517).
type JWK struct {
	Kty string `json:"kty"`           // key type: "RSA", "OKP", "EC"
	Use string `json:"use,omitempty"` // "sig"
	Alg string `json:"alg,omitempty"` // "RS256", "ES256", "EdDSA"
	Kid string `json:"kid,omitempty"`

	// RSA
	N string `json:"n,omitempty"` // modulus (base64url)
	E string `json:"e,omitempty"` // exponent (base64url)

	// OKP / EC
	Crv string `json:"crv,omitempty"` // "Ed25519", "P-256"
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"` // EC only
}

// JWKS is a JSON Web Key Set (RFC 7517).
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// NewRSAJWK builds a JWK for an RSA public key.
func NewRSAJWK(kid, use, alg string, pub *rsa.PublicKey) JWK {
	return JWK{
		Kty: "RSA",
		Use: use,
		Alg: alg,
		Kid: kid,
		N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

// NewEd25519JWK builds an OKP JWK for an Ed25519 public key.
func NewEd25519JWK(kid, use, alg string, pub ed25519.PublicKey) JWK {
	return JWK{
		Kty: "OKP",
		Use: use,
		Alg: alg,
		Kid: kid,
		Crv: "Ed25519",
		X:   base64.RawURLEncoding.EncodeToString(pub),
	}
}

// NewES256JWK builds an EC JWK for a P-256 public key. Coordinates are
// left-padded to the 32 byte field size.
func NewES256JWK(kid, use, alg string, pub *ecdsa.PublicKey) JWK {
	x := make([]byte, 32)
	y := make([]byte, 32)
	pub.X.FillBytes(x)
	pub.Y.FillBytes(y)

	return JWK{
		Kty: "EC",
		Use: use,
		Alg: alg,
		Kid: kid,
		Crv: "P-256",
		X:   base64.RawURLEncoding.EncodeToString(x),
		Y:   base64.RawURLEncoding.EncodeToString(y),
	}
}

// PublicKey decodes the JWK into *rsa.PublicKey, ed25519.PublicKey or *ecdsa.PublicKey.
func (j JWK) PublicKey() (any, error) {
	switch j.Kty {
	case "RSA":
		nb, err := base64.RawURLEncoding.DecodeString(j.N)
		if err != nil {
			return nil, err
		}
		eb, err := base64.RawURLEncoding.DecodeString(j.E)
		if err != nil {
			return nil, err
		}
		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(nb),
			E: int(new(big.Int).SetBytes(eb).Int64()),
		}, nil

	case "OKP":
		if j.Crv != "Ed25519" {
			return nil, errors.New("jwtx: unsupported OKP curve " + j.Crv)
		}
		xb, err := base64.RawURLEncoding.DecodeString(j.X)
		if err != nil {
			return nil, err
		}
		if len(xb) != ed25519.PublicKeySize {
			return nil, errors.New("jwtx: invalid Ed25519 public key size")
		}
		return ed25519.PublicKey(xb), nil

	case "EC":
		if j.Crv != "P-256" {
			return nil, errors.New("jwtx: unsupported EC curve " + j.Crv)
		}
		xb, err := base64.RawURLEncoding.DecodeString(j.X)
		if err != nil {
			return nil, err
		}
		yb, err := base64.RawURLEncoding.DecodeString(j.Y)
		if err != nil {
			return nil, err
		}
		return &ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(xb),
			Y:     new(big.Int).SetBytes(yb),
		}, nil

	default:
		return nil, errors.New("jwtx: unsupported kty " + j.Kty)
	}
}
