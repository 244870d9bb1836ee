package session

import (
	"context"
	"time"

	"petlove-admin/internal/core/cache"
)

// Credentials keeps the upstream bearer tokens server-side, keyed by session
// id. The browser only ever holds the gateway token.
type Credentials struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewCredentials(c *cache.Cache, ttl time.Duration) *Credentials {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Credentials{cache: c, ttl: ttl}
}

func credKey(sid string) string { return "cred:" + sid }

func (c *Credentials) Save(ctx context.Context, sid, token string) error {
	return c.cache.Set(ctx, credKey(sid), []byte(token), c.ttl)
}

func (c *Credentials) Get(ctx context.Context, sid string) string {
	b, err := c.cache.Get(ctx, credKey(sid))
	if err != nil {
		return ""
	}
	return string(b)
}

func (c *Credentials) Delete(ctx context.Context, sid string) {
	_ = c.cache.Delete(ctx, credKey(sid))
}
