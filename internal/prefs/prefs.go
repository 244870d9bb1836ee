// Package prefs keeps small per-session UI state (preferences, cart draft)
// in redis. It is opportunistic convenience storage, never a source of truth;
// a lost key only resets cosmetics.
package prefs

import (
	"context"
	"encoding/json"
	"time"

	"petlove-admin/internal/core/cache"
)

const defaultTTL = 30 * 24 * time.Hour

type Preferences struct {
	PageSize  int    `json:"pageSize,omitempty"`
	Theme     string `json:"theme,omitempty"`
	Language  string `json:"language,omitempty"`
	LastRoute string `json:"lastRoute,omitempty"`
}

type CartLine struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Cart struct {
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewStore(c *cache.Cache) *Store {
	return &Store{cache: c, ttl: defaultTTL}
}

func prefsKey(sid string) string { return "prefs:" + sid }
func cartKey(sid string) string  { return "cart:" + sid }

func (s *Store) GetPreferences(ctx context.Context, sid string) Preferences {
	var p Preferences
	if b, err := s.cache.Get(ctx, prefsKey(sid)); err == nil {
		_ = json.Unmarshal(b, &p)
	}
	return p
}

func (s *Store) SetPreferences(ctx context.Context, sid string, p Preferences) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, prefsKey(sid), b, s.ttl)
}

func (s *Store) GetCart(ctx context.Context, sid string) Cart {
	var c Cart
	if b, err := s.cache.Get(ctx, cartKey(sid)); err == nil {
		_ = json.Unmarshal(b, &c)
	}
	return c
}

func (s *Store) SetCart(ctx context.Context, sid string, c Cart) error {
	c.UpdatedAt = time.Now()
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cartKey(sid), b, s.ttl)
}

func (s *Store) ClearCart(ctx context.Context, sid string) error {
	return s.cache.Delete(ctx, cartKey(sid))
}
