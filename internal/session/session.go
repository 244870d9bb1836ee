// Package session owns the authenticated identity lifecycle: who the caller
// is, which upstream credential backs them, and the transitions between
// anonymous and authenticated.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"petlove-admin/internal/permission"
	"petlove-admin/internal/upstream"
)

type State int

const (
	StateAnonymous State = iota
	StateChecking
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Identity is never nil-valued: an unauthenticated caller carries the fixed
// Visitor identity, which keeps every downstream check total.
type Identity struct {
	UserID       string         `json:"userId"`
	DisplayName  string         `json:"displayName"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	RoleID       int            `json:"roleId"`
	Capabilities permission.Set `json:"-"`
}

func Visitor() Identity {
	return Identity{Role: permission.RoleVisitor, Capabilities: permission.Set{}}
}

func (i Identity) Authenticated() bool {
	return i.Role != permission.RoleVisitor && i.UserID != ""
}

var ErrLoginRejected = errors.New("login rejected")

// Service performs the upstream auth calls. It is stateless; Store layers the
// lifecycle on top.
type Service struct {
	api      *upstream.Client
	resolver *permission.Resolver
	log      *zap.Logger
}

func NewService(api *upstream.Client, resolver *permission.Resolver, log *zap.Logger) *Service {
	return &Service{api: api, resolver: resolver, log: log}
}

type profilePayload struct {
	ID     json.Number `json:"id"`
	UserID json.Number `json:"userId"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   string      `json:"role"`
	RoleID int         `json:"roleId"`
}

func (p *profilePayload) identity() (Identity, error) {
	id := p.UserID.String()
	if id == "" || id == "0" {
		id = p.ID.String()
	}
	if id == "" || id == "0" || p.Role == "" {
		return Visitor(), errors.New("profile payload missing required fields")
	}
	return Identity{
		UserID:      id,
		DisplayName: p.Name,
		Email:       p.Email,
		Role:        p.Role,
		RoleID:      p.RoleID,
	}, nil
}

type loginPayload struct {
	Token string         `json:"token"`
	User  profilePayload `json:"user"`
}

// Login authenticates against the backend and immediately resolves the
// capability set for the returned role.
func (s *Service) Login(ctx context.Context, email, password string) (Identity, string, error) {
	res, err := s.api.Post(ctx, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Visitor(), "", err
	}
	if !res.OK() {
		msg := res.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", res.Status)
		}
		return Visitor(), "", fmt.Errorf("%w: %s", ErrLoginRejected, msg)
	}
	payload, derr := upstream.DecodeOne[loginPayload](res.Data)
	if derr != nil || payload == nil || payload.Token == "" {
		return Visitor(), "", fmt.Errorf("%w: malformed payload", ErrLoginRejected)
	}
	ident, ierr := payload.User.identity()
	if ierr != nil {
		return Visitor(), "", fmt.Errorf("%w: %v", ErrLoginRejected, ierr)
	}
	ident.Capabilities = s.resolver.Resolve(ctx, ident.RoleID)
	return ident, payload.Token, nil
}

// Probe refreshes the credential and fetches the current profile. Any failure
// along the way means anonymous.
func (s *Service) Probe(ctx context.Context, credential string) (Identity, string, error) {
	cred := credential
	if res, err := s.api.Post(ctx, "/auth/refresh", credential, nil); err == nil && res.OK() {
		if p, derr := upstream.DecodeOne[loginPayload](res.Data); derr == nil && p != nil && p.Token != "" {
			cred = p.Token
		}
	}
	// profile is requested regardless of the refresh outcome
	res, err := s.api.Get(ctx, "/auth/profile", cred)
	if err != nil {
		return Visitor(), "", err
	}
	if !res.OK() {
		return Visitor(), "", fmt.Errorf("profile: status %d", res.Status)
	}
	payload, derr := upstream.DecodeOne[profilePayload](res.Data)
	if derr != nil || payload == nil {
		return Visitor(), "", errors.New("profile: malformed payload")
	}
	ident, ierr := payload.identity()
	if ierr != nil {
		return Visitor(), "", ierr
	}
	ident.Capabilities = s.resolver.Resolve(ctx, ident.RoleID)
	return ident, cred, nil
}

// Revoke tells the backend to drop the server-side session material. Errors
// are logged, never surfaced: local logout does not depend on it.
func (s *Service) Revoke(ctx context.Context, credential string) {
	if credential == "" {
		return
	}
	if _, err := s.api.Post(ctx, "/auth/logout", credential, nil); err != nil {
		s.log.Debug("logout revoke failed", zap.Error(err))
	}
}

// Store is the stateful identity holder: Anonymous → Checking → Authenticated,
// and back to Anonymous on logout. Concurrent logins are not coordinated; the
// last write wins. The mutex only protects memory, not ordering.
type Store struct {
	svc *Service
	log *zap.Logger

	mu         sync.Mutex
	state      State
	identity   Identity
	credential string
}

func NewStore(svc *Service, log *zap.Logger) *Store {
	return &Store{svc: svc, log: log, state: StateAnonymous, identity: Visitor()}
}

func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

func (st *Store) Current() Identity {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.identity
}

func (st *Store) Credential() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.credential
}

// Restore seeds a persisted credential before Bootstrap probes it.
func (st *Store) Restore(cred string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.credential = cred
}

// Bootstrap runs the startup probe. Whatever happens, the store ends in a
// definite state; failure means the Visitor identity, not an error.
func (st *Store) Bootstrap(ctx context.Context) {
	st.mu.Lock()
	st.state = StateChecking
	cred := st.credential
	st.mu.Unlock()

	ident, newCred, err := st.svc.Probe(ctx, cred)
	st.mu.Lock()
	defer st.mu.Unlock()
	if err != nil {
		st.state = StateAnonymous
		st.identity = Visitor()
		st.credential = ""
		return
	}
	st.state = StateAuthenticated
	st.identity = ident
	st.credential = newCred
}

func (st *Store) Login(ctx context.Context, email, password string) (Identity, error) {
	ident, cred, err := st.svc.Login(ctx, email, password)
	if err != nil {
		return Visitor(), err
	}
	st.mu.Lock()
	st.state = StateAuthenticated
	st.identity = ident
	st.credential = cred
	st.mu.Unlock()
	return ident, nil
}

// Logout resets local state synchronously and notifies the backend on a
// best-effort detached call.
func (st *Store) Logout() {
	st.mu.Lock()
	cred := st.credential
	st.state = StateAnonymous
	st.identity = Visitor()
	st.credential = ""
	st.mu.Unlock()

	if cred == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		st.svc.Revoke(ctx, cred)
	}()
}
