// Package cache memoizes the model and Wikipedia lookups so repeated
// questions against the same passage never reach the upstream twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"
)

// Cache stores string values under string keys with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Stats is a snapshot of hit/miss counters.
type Stats struct {
	Backend string `json:"backend"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Size    int    `json:"size"`
}

// StatsProvider is implemented by caches that keep counters.
type StatsProvider interface {
	Stats() Stats
}

// Key joins parts with NUL and hashes them under prefix, e.g. "qa:3f2a...".
func Key(prefix string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Remember returns the cached value for key or computes it with fn and
// stores it. fn errors are never cached. A failing cache degrades to
// calling fn directly.
func Remember(ctx context.Context, c Cache, key string, ttl time.Duration, fn func() (string, error)) (string, error) {
	if c == nil {
		return fn()
	}
	if v, ok, err := c.Get(ctx, key); err != nil {
		log.Printf("[Cache] get %s failed: %v", key, err)
	} else if ok {
		return v, nil
	}

	v, err := fn()
	if err != nil {
		return "", err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		log.Printf("[Cache] set %s failed: %v", key, err)
	}
	return v, nil
}
