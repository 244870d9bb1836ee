package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petlove-admin/internal/core/auth"
	"petlove-admin/internal/permission"
	"petlove-admin/internal/session"
	httpez "petlove-admin/internal/transport/http/ez"
	mdw "petlove-admin/internal/transport/http/middleware"
	"petlove-admin/pkg/utils"
)

// authModule owns the session lifecycle over HTTP: login, refresh, profile
// and logout. The upstream bearer never leaves the gateway; the browser only
// ever sees the gateway token.
type authModule struct{ d Deps }

func (m *authModule) Priority() int { return 10 }

type userOut struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	RoleID       int      `json:"roleId"`
	Capabilities []string `json:"capabilities"`
}

type sessionOut struct {
	Token string  `json:"token"`
	User  userOut `json:"user"`
}

func identityOut(ident session.Identity) userOut {
	return userOut{
		ID:           ident.UserID,
		Name:         ident.DisplayName,
		Email:        ident.Email,
		Role:         ident.Role,
		RoleID:       ident.RoleID,
		Capabilities: ident.Capabilities.Names(),
	}
}

func (m *authModule) issue(ident session.Identity, sid string) (string, error) {
	return m.d.JWT.Issue(auth.Claims{
		UID:    ident.UserID,
		Name:   ident.DisplayName,
		Email:  ident.Email,
		Role:   ident.Role,
		RoleID: ident.RoleID,
		SID:    sid,
	})
}

func (m *authModule) MountAPI(api *gin.RouterGroup) {
	d := m.d
	// per-IP budget on the auth family blunts credential stuffing
	grp := api.Group("/auth", mdw.RateLimitPerIP(5, 10))
	ez := httpez.New(grp)

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[loginIn, sessionOut](ez, httpez.Action[loginIn, sessionOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (sessionOut, error) {
			ident, bearer, err := d.Sessions.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				if errors.Is(err, session.ErrLoginRejected) {
					return sessionOut{}, httpez.Unauthorized(err.Error())
				}
				return sessionOut{}, httpez.Internal("login failed", err)
			}
			sid := utils.NewID()
			if err := d.Creds.Save(c.Request.Context(), sid, bearer); err != nil {
				return sessionOut{}, httpez.Internal("session store failed", err)
			}
			tok, err := m.issue(ident, sid)
			if err != nil {
				return sessionOut{}, httpez.Internal("issue token failed", err)
			}
			return sessionOut{Token: tok, User: identityOut(ident)}, nil
		},
	})

	// Refresh re-probes the upstream with the stored bearer and reissues the
	// gateway token. A failed probe drops the stored bearer: the caller falls
	// back to anonymous instead of limping on a dead credential.
	httpez.RegisterAction[struct{}, sessionOut](ez, httpez.Action[struct{}, sessionOut]{
		Method: http.MethodPost,
		Path:   "/refresh",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (sessionOut, error) {
			claims := mdw.Claims(c)
			if claims == nil {
				return sessionOut{}, httpez.Unauthorized("no session")
			}
			bearer := d.Creds.Get(c.Request.Context(), claims.SID)
			if bearer == "" {
				return sessionOut{}, httpez.Unauthorized("session expired")
			}
			ident, fresh, err := d.Sessions.Probe(c.Request.Context(), bearer)
			if err != nil {
				d.Creds.Delete(c.Request.Context(), claims.SID)
				return sessionOut{}, httpez.Unauthorized("session expired")
			}
			if err := d.Creds.Save(c.Request.Context(), claims.SID, fresh); err != nil {
				return sessionOut{}, httpez.Internal("session store failed", err)
			}
			tok, err := m.issue(ident, claims.SID)
			if err != nil {
				return sessionOut{}, httpez.Internal("issue token failed", err)
			}
			return sessionOut{Token: tok, User: identityOut(ident)}, nil
		},
	})

	ez.GET("/profile", func(c *gin.Context) (any, error) {
		claims := mdw.Claims(c)
		if claims == nil {
			return nil, httpez.Unauthorized("no session")
		}
		caps := permission.Set{}
		if claims.Role != permission.RoleAdministrator {
			caps = d.Resolver.Resolve(c.Request.Context(), claims.RoleID)
		}
		return userOut{
			ID:           claims.UID,
			Name:         claims.Name,
			Email:        claims.Email,
			Role:         claims.Role,
			RoleID:       claims.RoleID,
			Capabilities: caps.Names(),
		}, nil
	})

	// Logout resets locally first; the upstream revoke runs detached so a
	// slow backend cannot delay it.
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			claims := mdw.Claims(c)
			if claims == nil {
				return gin.H{"ok": 1}, nil
			}
			bearer := d.Creds.Get(c.Request.Context(), claims.SID)
			d.Creds.Delete(c.Request.Context(), claims.SID)
			d.Notices.ResetSession(claims.SID)
			if bearer != "" {
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
					defer cancel()
					d.Sessions.Revoke(ctx, bearer)
				}()
			}
			d.Log.Info("session revoked", zap.String("sid", claims.SID))
			return gin.H{"ok": 1}, nil
		},
	})
}
