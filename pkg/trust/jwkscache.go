package trust

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

const (
	// DefaultJWKSCacheTTL is used when a caller passes a negative ttl to
	// NewJWKSCache; ttl == 0 disables caching instead.
	DefaultJWKSCacheTTL = 5 * time.Minute

	// MaxJWKSCacheTTL bounds how stale a cached JWKS document is ever
	// allowed to be, regardless of configuration.
	MaxJWKSCacheTTL = 1 * time.Hour
)

// JWKSCache caches parsed JWKS documents keyed by JKU URL, so that
// validating many handshakes against the same attestation endpoint costs
// one HTTP fetch per TTL window rather than one per handshake. A zero TTL
// disables caching: every Get call misses and every Set call is a no-op.
type JWKSCache struct {
	ttl   time.Duration
	cache *ttlcache.Cache[string, jwk.Set]
}

// NewJWKSCache builds a cache with the given TTL. ttl == 0 disables
// caching; a negative ttl is treated as DefaultJWKSCacheTTL.
func NewJWKSCache(ttl time.Duration) *JWKSCache {
	if ttl == 0 {
		return &JWKSCache{ttl: 0}
	}
	if ttl < 0 {
		ttl = DefaultJWKSCacheTTL
	}
	if ttl > MaxJWKSCacheTTL {
		ttl = MaxJWKSCacheTTL
	}

	cache := ttlcache.New(
		ttlcache.WithTTL[string, jwk.Set](ttl),
	)
	go cache.Start()

	return &JWKSCache{ttl: ttl, cache: cache}
}

// Disabled reports whether this cache was constructed with ttl == 0.
func (c *JWKSCache) Disabled() bool {
	return c.cache == nil
}

// Get returns the cached JWKS document for jku, if present and unexpired.
func (c *JWKSCache) Get(jku string) (jwk.Set, bool) {
	if c.Disabled() {
		return nil, false
	}
	item := c.cache.Get(jku)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Set stores set under jku for the cache's configured TTL.
func (c *JWKSCache) Set(jku string, set jwk.Set) {
	if c.Disabled() {
		return
	}
	c.cache.Set(jku, set, ttlcache.DefaultTTL)
}

// Stop halts the cache's background expiration goroutine. Safe to call on
// a disabled cache.
func (c *JWKSCache) Stop() {
	if c.cache != nil {
		c.cache.Stop()
	}
}
