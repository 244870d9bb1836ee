package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petlove-admin/internal/core/auth"
	"petlove-admin/internal/guard"
	"petlove-admin/internal/permission"
)

type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return b, nil
}

func (c *memCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = val
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.m, k)
	}
	return nil
}

type capsSource struct{ byRole map[int][]string }

func (s *capsSource) FetchCapabilities(_ context.Context, roleID int) ([]string, error) {
	return s.byRole[roleID], nil
}

func guardedEngine(t *testing.T, requiredRoles, requiredCaps []string) (*gin.Engine, *auth.JWTer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	resolver := permission.NewResolver(
		&capsSource{byRole: map[int][]string{3: {"products"}}},
		&memCache{m: map[string][]byte{}},
		time.Minute, zap.NewNop(),
	)

	r := gin.New()
	r.Use(Session(jwter))
	grp := r.Group("/products", Guard(resolver, guard.NewNotices(time.Hour), "/", requiredRoles, requiredCaps))
	grp.GET("", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"code": 0}) })
	return r, jwter
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doGet(t *testing.T, r *gin.Engine, token string) envelope {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body %q: %v", w.Body.String(), err)
	}
	return env
}

func TestGuardAnonymousRedirectsToLogin(t *testing.T) {
	r, _ := guardedEngine(t, nil, []string{"products"})

	env := doGet(t, r, "")
	if env.Code != 401 {
		t.Fatalf("code = %d, want 401", env.Code)
	}
	var data map[string]string
	_ = json.Unmarshal(env.Data, &data)
	if data["redirect"] != LoginRoute {
		t.Fatalf("redirect = %q, want %q", data["redirect"], LoginRoute)
	}
	if env.Msg == "" {
		t.Fatal("first hit should carry the notice")
	}

	if env = doGet(t, r, ""); env.Msg != "" {
		t.Fatalf("second hit notice = %q, want silent", env.Msg)
	}
}

func TestGuardCapabilityAllows(t *testing.T) {
	r, jwter := guardedEngine(t, nil, []string{"products"})
	tok, err := jwter.Issue(auth.Claims{UID: "7", Role: "Seller", RoleID: 3, SID: "s1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if env := doGet(t, r, tok); env.Code != 0 {
		t.Fatalf("code = %d, want 0 (allowed)", env.Code)
	}
}

func TestGuardMissingCapabilityFallsBack(t *testing.T) {
	r, jwter := guardedEngine(t, nil, []string{"users"})
	tok, _ := jwter.Issue(auth.Claims{UID: "7", Role: "Seller", RoleID: 3, SID: "s1"})

	env := doGet(t, r, tok)
	if env.Code != 403 {
		t.Fatalf("code = %d, want 403", env.Code)
	}
	var data map[string]string
	_ = json.Unmarshal(env.Data, &data)
	if data["redirect"] != "/" {
		t.Fatalf("redirect = %q, want fallback /", data["redirect"])
	}
}

func TestGuardAdministratorBypasses(t *testing.T) {
	r, jwter := guardedEngine(t, []string{"Nobody"}, []string{"nonexistent"})
	tok, _ := jwter.Issue(auth.Claims{UID: "1", Role: permission.RoleAdministrator, RoleID: 1, SID: "s9"})

	if env := doGet(t, r, tok); env.Code != 0 {
		t.Fatalf("code = %d, want 0 for administrator", env.Code)
	}
}

func TestGuardInvalidTokenIsAnonymous(t *testing.T) {
	r, _ := guardedEngine(t, nil, []string{"products"})

	if env := doGet(t, r, "garbage.token.here"); env.Code != 401 {
		t.Fatalf("code = %d, want 401 for an unparseable token", env.Code)
	}
}
