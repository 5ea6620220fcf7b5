// Package cache provides the small memoization layer used by the scoring
// models. Probability lookups during chart filling hit the same
// (expansion, category) pairs over and over; caching them keeps the hot
// per-cell loop away from the model's table walks.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Cache defines the interface for memoizing computed values.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Clear()
}

// Key builds a cache key from its parts. Parts are hashed so arbitrary
// category labels and words cannot collide with the separator.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "cadenza:v1:" + hex.EncodeToString(hash[:])
}
