package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"petlove-admin/internal/core/server"
	"petlove-admin/internal/permission"
	httpez "petlove-admin/internal/transport/http/ez"
	mdw "petlove-admin/internal/transport/http/middleware"
)

// NewAdminEngine is the ops surface: metrics plus a few administrative
// actions. It listens on its own port and requires the administrator role
// for everything under /admin/v1. Logging and recovery come from the ginzap
// base router; the belt here is the low-traffic subset.
func NewAdminEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
		mdw.ConcurrencyLimit(50),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Session(d.JWT),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.Guard(d.Resolver, d.Notices, "/", []string{permission.RoleAdministrator}, nil))

	reg := &Registry{}
	reg.Register(&opsModule{d: d})
	reg.MountAdmin(admin)

	return r
}

// opsModule carries the manual maintenance knobs.
type opsModule struct{ d Deps }

func (m *opsModule) MountAdmin(admin *gin.RouterGroup) {
	d := m.d
	ez := httpez.New(admin)

	// Drops the cached capability set so the next resolve refetches. Needed
	// after editing a role's permissions upstream.
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/permissions/:roleId/invalidate",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			roleID, err := strconv.Atoi(c.Param("roleId"))
			if err != nil || roleID <= 0 {
				return nil, httpez.BadRequest("invalid role id")
			}
			d.Resolver.Invalidate(c.Request.Context(), roleID)
			return gin.H{"roleId": roleID}, nil
		},
	})

	// Force-terminates one session by discarding its stored upstream bearer.
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/sessions/:sid",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			sid := c.Param("sid")
			if sid == "" {
				return nil, httpez.BadRequest("missing session id")
			}
			d.Creds.Delete(c.Request.Context(), sid)
			d.Notices.ResetSession(sid)
			return gin.H{"sid": sid}, nil
		},
	})
}
