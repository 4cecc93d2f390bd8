package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
	// TokenSize512 provides 512 bits of entropy (86 chars base64url).
	TokenSize512 = 64
)

// GenerateToken creates a cryptographically secure random token of the specified byte length.
// The token is returned as a base64url-encoded string (URL-safe, no padding).
//
// Common sizes:
//   - TokenSize128 (16 bytes): client identifiers, key ids
//   - TokenSize256 (32 bytes): client secrets, bootstrap tokens (recommended)
//   - TokenSize512 (64 bytes): High-security tokens
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
