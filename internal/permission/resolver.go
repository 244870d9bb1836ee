// Package permission resolves role capabilities against the upstream backend
// and caches them per role.
package permission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"petlove-admin/internal/upstream"
)

const (
	// RoleAdministrator bypasses capability checks entirely. Policy, not a bug.
	RoleAdministrator = "Administrator"
	// RoleVisitor is the fixed anonymous identity; it never has capabilities.
	RoleVisitor = "Visitor"
)

// Set is a collection of capability names.
type Set map[string]struct{}

func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s Set) HasAll(names ...string) bool {
	for _, n := range names {
		if !s.Has(n) {
			return false
		}
	}
	return true
}

func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	return out
}

// Source fetches the raw capability list for a role.
type Source interface {
	FetchCapabilities(ctx context.Context, roleID int) ([]string, error)
}

// Cache is the subset of the redis cache the resolver needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Resolver struct {
	src   Source
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
	sf    singleflight.Group
}

func NewResolver(src Source, cache Cache, ttl time.Duration, log *zap.Logger) *Resolver {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Resolver{src: src, cache: cache, ttl: ttl, log: log}
}

func cacheKey(roleID int) string { return fmt.Sprintf("caps:role:%d", roleID) }

// Resolve returns the capability set for a role. It fails soft: any error
// yields an empty set, never an error to the caller.
func (r *Resolver) Resolve(ctx context.Context, roleID int) Set {
	if roleID <= 0 {
		return Set{}
	}
	key := cacheKey(roleID)
	if b, err := r.cache.Get(ctx, key); err == nil {
		var names []string
		if json.Unmarshal(b, &names) == nil {
			return NewSet(names...)
		}
	}

	v, err, _ := r.sf.Do(key, func() (any, error) {
		names, err := r.src.FetchCapabilities(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if b, merr := json.Marshal(names); merr == nil {
			if cerr := r.cache.Set(ctx, key, b, r.ttl); cerr != nil {
				r.log.Warn("capability cache write failed", zap.Error(cerr))
			}
		}
		return names, nil
	})
	if err != nil {
		r.log.Warn("capability fetch failed", zap.Int("roleId", roleID), zap.Error(err))
		return Set{}
	}
	return NewSet(v.([]string)...)
}

// Invalidate drops the cached set for a role.
func (r *Resolver) Invalidate(ctx context.Context, roleID int) {
	if err := r.cache.Delete(ctx, cacheKey(roleID)); err != nil {
		r.log.Warn("capability cache delete failed", zap.Error(err))
	}
}

// Ensure reports whether the role holds every required capability. A miss
// triggers one invalidate-and-refetch before the final answer, which heals a
// capability granted after the cache was first filled.
func (r *Resolver) Ensure(ctx context.Context, role string, roleID int, required ...string) bool {
	if role == RoleAdministrator {
		return true
	}
	if len(required) == 0 {
		return true
	}
	if r.Resolve(ctx, roleID).HasAll(required...) {
		return true
	}
	r.Invalidate(ctx, roleID)
	return r.Resolve(ctx, roleID).HasAll(required...)
}

// UpstreamSource reads capabilities from the backend. Payloads may be bare
// string arrays or objects with a name field; both are accepted.
type UpstreamSource struct {
	API *upstream.Client
}

func (s *UpstreamSource) FetchCapabilities(ctx context.Context, roleID int) ([]string, error) {
	res, err := s.API.Get(ctx, fmt.Sprintf("/roles/%d/permissions", roleID), "")
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("permissions fetch: status %d", res.Status)
	}

	var names []string
	if err := json.Unmarshal(res.Data, &names); err == nil {
		return names, nil
	}
	type perm struct {
		Name string `json:"name"`
	}
	items, derr := upstream.DecodeList[perm](res.Data)
	if derr != nil {
		return nil, derr
	}
	names = make([]string, 0, len(items))
	for _, p := range items {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names, nil
}
