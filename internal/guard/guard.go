// Package guard decides whether a caller may reach a protected view and
// redirects everyone else.
package guard

import (
	"strings"
	"sync"
	"time"

	"petlove-admin/internal/permission"
)

type Outcome int

const (
	// Pending means capability data is still loading; commit to nothing yet.
	Pending Outcome = iota
	Allow
	RedirectLogin
	RedirectFallback
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "login"
	case RedirectFallback:
		return "fallback"
	default:
		return "pending"
	}
}

type Input struct {
	Authenticated bool
	Role          string
	Capabilities  permission.Set
	CapsLoading   bool
	RequiredRoles []string
	RequiredCaps  []string
}

// Decide implements the guard decision table. The administrator role renders
// regardless of everything else.
func Decide(in Input) Outcome {
	if !in.Authenticated {
		return RedirectLogin
	}
	if in.Role == permission.RoleAdministrator {
		return Allow
	}
	if in.CapsLoading {
		return Pending
	}

	if len(in.RequiredRoles) > 0 {
		matched := false
		for _, r := range in.RequiredRoles {
			if r == in.Role {
				matched = true
				break
			}
		}
		if !matched {
			return RedirectFallback
		}
	}
	if len(in.RequiredCaps) > 0 && !in.Capabilities.HasAll(in.RequiredCaps...) {
		return RedirectFallback
	}
	return Allow
}

// Notices deduplicates the user-visible alert: exactly one per guard mount.
// A mount in the gateway is a (session, route) pair; entries age out so a
// fresh visit behaves like a fresh mount.
type Notices struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func NewNotices(ttl time.Duration) *Notices {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Notices{seen: map[string]time.Time{}, ttl: ttl}
}

// FirstTime reports whether this key has not alerted within the TTL, and
// marks it.
func (n *Notices) FirstTime(key string) bool {
	now := time.Now()
	n.mu.Lock()
	defer n.mu.Unlock()
	if t, ok := n.seen[key]; ok && now.Sub(t) < n.ttl {
		return false
	}
	// opportunistic sweep
	for k, t := range n.seen {
		if now.Sub(t) >= n.ttl {
			delete(n.seen, k)
		}
	}
	n.seen[key] = now
	return true
}

// Reset clears the flag for a key, e.g. after a fresh login.
func (n *Notices) Reset(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.seen, key)
}

// ResetSession clears every flag recorded for one session. Keys are
// "session|route", so logout drops the whole family at once.
func (n *Notices) ResetSession(sid string) {
	prefix := sid + "|"
	n.mu.Lock()
	defer n.mu.Unlock()
	for k := range n.seen {
		if strings.HasPrefix(k, prefix) {
			delete(n.seen, k)
		}
	}
}
