// Package dedupe suppresses repeated submissions of the same request within a TTL window.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Store reserves keys for a TTL. Reserve reports false when the key is already held.
type Store interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Key builds a stable reservation key from a caller, a route and the raw request body.
func Key(caller, route string, body []byte) string {
	sum := sha256.Sum256(body)
	return strings.Join([]string{"dedupe", strings.TrimSpace(caller), route, hex.EncodeToString(sum[:16])}, ":")
}
