package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/metrics"
)

// CachingVerifier remembers successful token verifications for up to ttl,
// and never past the token's own expiry. Failures are not cached.
type CachingVerifier struct {
	next TokenVerifier
	lru  *expirable.LRU[string, domain.Claims]
	now  func() time.Time
}

func NewCachingVerifier(next TokenVerifier, size int, ttl time.Duration) *CachingVerifier {
	return &CachingVerifier{
		next: next,
		lru:  expirable.NewLRU[string, domain.Claims](size, nil, ttl),
		now:  time.Now,
	}
}

func (c *CachingVerifier) VerifyToken(ctx context.Context, token string) (domain.Claims, error) {
	key := cacheKey(token)
	if claims, ok := c.lru.Get(key); ok {
		if c.now().Before(claims.ExpiresAt) {
			metrics.TokenCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
			return claims, nil
		}
		c.lru.Remove(key)
	}
	metrics.TokenCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()

	claims, err := c.next.VerifyToken(ctx, token)
	if err != nil {
		return domain.Claims{}, err
	}
	c.lru.Add(key, claims)
	return claims, nil
}

// InvalidateUser drops every cached verification belonging to uid.
func (c *CachingVerifier) InvalidateUser(uid string) {
	for _, key := range c.lru.Keys() {
		if claims, ok := c.lru.Peek(key); ok && claims.UID == uid {
			c.lru.Remove(key)
		}
	}
}

// Len returns the number of cached verifications.
func (c *CachingVerifier) Len() int {
	return c.lru.Len()
}

// Tokens are bearer secrets, so only their digests are kept.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
