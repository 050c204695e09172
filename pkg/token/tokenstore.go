package tokenstore

import (
	"time"

	"NeuraFlow/pkg/cache"
)

// RevocationList remembers revoked token ids until the tokens would have
// expired anyway.
type RevocationList struct {
	c *cache.Cache
}

func NewRevocationList() *RevocationList {
	return &RevocationList{c: cache.New(0)}
}

// Revoke marks jti as revoked for ttl.
func (r *RevocationList) Revoke(jti string, ttl time.Duration) {
	if jti == "" {
		return
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	r.c.Set(jti, struct{}{}, ttl)
}

func (r *RevocationList) IsRevoked(jti string) bool {
	if jti == "" {
		return false
	}
	_, ok := r.c.Get(jti)
	return ok
}

// Janitor drops expired revocations periodically until stop is closed.
func (r *RevocationList) Janitor(interval time.Duration, stop <-chan struct{}) {
	r.c.Janitor(interval, stop)
}
