package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Supported JWT signing algorithms
const (
	AlgorithmRS256 = "RS256"
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

// SupportedAlgorithms lists every algorithm NewSigner accepts.
var SupportedAlgorithms = []string{AlgorithmRS256, AlgorithmES256, AlgorithmEdDSA}

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
}

type keySigner struct {
	kid    string
	method jwt.SigningMethod
	key    crypto.Signer
	jwk    JWK
}

// NewSigner loads a PEM private key for the given algorithm. RS256 accepts
// PKCS1 or PKCS8; ES256 and EdDSA require PKCS8.
func NewSigner(alg, kid string, pemKey []byte) (Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM private key")
	}

	var parsed any
	var err error
	switch block.Type {
	case "RSA PRIVATE KEY":
		parsed, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("jwtx: unsupported PEM type %q", block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse private key: %w", err)
	}

	switch alg {
	case AlgorithmRS256:
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("jwtx: not RSA private key")
		}
		return &keySigner{
			kid:    kid,
			method: jwt.SigningMethodRS256,
			key:    key,
			jwk:    NewRSAJWK(kid, "sig", alg, &key.PublicKey),
		}, nil

	case AlgorithmES256:
		key, ok := parsed.(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.New("jwtx: not ECDSA private key")
		}
		if key.Curve.Params().Name != "P-256" {
			return nil, fmt.Errorf("jwtx: expected P-256 curve, got %s", key.Curve.Params().Name)
		}
		return &keySigner{
			kid:    kid,
			method: jwt.SigningMethodES256,
			key:    key,
			jwk:    NewES256JWK(kid, "sig", alg, &key.PublicKey),
		}, nil

	case AlgorithmEdDSA:
		key, ok := parsed.(ed25519.PrivateKey)
		if !ok {
			return nil, errors.New("jwtx: not Ed25519 private key")
		}
		return &keySigner{
			kid:    kid,
			method: jwt.SigningMethodEdDSA,
			key:    key,
			jwk:    NewEd25519JWK(kid, "sig", alg, key.Public().(ed25519.PublicKey)),
		}, nil

	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", alg)
	}
}

func (s *keySigner) Alg() string    { return s.method.Alg() }
func (s *keySigner) KID() string    { return s.kid }
func (s *keySigner) PublicJWK() JWK { return s.jwk }

// Sign takes your claims and turns them into a signed JWT string.
func (s *keySigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
