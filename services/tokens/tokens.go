// Package tokens implements bearer token issuance, verification and
// revocation against a cache-aside pair of stores: a Redis token cache
// (non-authoritative hint) and the user document store (source of truth).
package tokens

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// cacheKeyPrefix namespaces token entries in the shared cache
const cacheKeyPrefix = "token:"

// tokenBytes is the token entropy in bytes (256 bits)
const tokenBytes = 32

// CacheKey returns the cache key for a bearer token
func CacheKey(token string) string {
	return cacheKeyPrefix + token
}

// GenerateToken returns a new full-entropy bearer token as lowercase hex.
// Collision probability across 256 bits is negligible, so uniqueness is not
// re-checked against the store.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
