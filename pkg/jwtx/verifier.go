package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Algorithms accepted in the "alg" header. Empty means all supported algorithms.
	Algorithms []string

	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience values the token must contain (claims.aud). Empty means "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

type keySetVerifier struct {
	keys *KeySet
	opts VerifyOptions
}

// NewVerifier returns a Verifier that resolves keys by kid from keys.
func NewVerifier(keys *KeySet, opts VerifyOptions) Verifier {
	if len(opts.Algorithms) == 0 {
		opts.Algorithms = SupportedAlgorithms
	}
	return &keySetVerifier{keys: keys, opts: opts}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *keySetVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods(v.opts.Algorithms),
		jwt.WithLeeway(v.opts.Leeway),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: missing kid", ErrMalformed)
		}

		pub, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryWithLeeway(v.opts.Leeway); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// mapParseError folds golang-jwt errors into the jwtx sentinels.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKID), errors.Is(err, ErrMalformed):
		return err
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrAlgMismatch, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
