package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petlove-admin/internal/catalog"
	"petlove-admin/internal/core/auth"
	"petlove-admin/internal/core/cache"
	"petlove-admin/internal/gallery"
	"petlove-admin/internal/guard"
	"petlove-admin/internal/permission"
	"petlove-admin/internal/prefs"
	"petlove-admin/internal/session"
	"petlove-admin/internal/transport/http/crudhttp"
	mdw "petlove-admin/internal/transport/http/middleware"
)

// Deps is everything the route modules need. Wiring happens in main; the
// router only arranges it.
type Deps struct {
	Log      *zap.Logger
	Cache    *cache.Cache
	JWT      *auth.JWTer
	Catalog  *catalog.Set
	Creds    *session.Credentials
	Sessions *session.Service
	Resolver *permission.Resolver
	Notices  *guard.Notices
	Gallery  *gallery.Aggregator
	Prefs    *prefs.Store
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
		mdw.Session(d.JWT),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")

	reg := &Registry{}
	reg.Register(&authModule{d: d})
	reg.Register(&catalogModule{d: d})
	reg.Register(&galleryModule{agg: d.Gallery, rdb: d.Cache})
	reg.Register(&prefsModule{store: d.Prefs})
	reg.MountAPI(api)

	return r
}

// catalogModule mounts one guarded route family per managed collection. The
// guard capability is the collection name; users and roles additionally
// require the administrator role.
type catalogModule struct{ d Deps }

func (m *catalogModule) Priority() int { return 20 }

func (m *catalogModule) MountAPI(api *gin.RouterGroup) {
	d := m.d
	caps := func(base string, ctrlMount func(*gin.RouterGroup)) {
		g := api.Group("/"+base, mdw.Guard(d.Resolver, d.Notices, "/", nil, []string{base}))
		ctrlMount(g)
	}
	adminOnly := func(base string, ctrlMount func(*gin.RouterGroup)) {
		g := api.Group("/"+base, mdw.Guard(d.Resolver, d.Notices, "/", []string{permission.RoleAdministrator}, nil))
		ctrlMount(g)
	}

	caps("categories", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Categories, d.Creds) })
	caps("colors", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Colors, d.Creds) })
	caps("brands", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Brands, d.Creds) })
	caps("measurements", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Measurements, d.Creds) })
	caps("sizes", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Sizes, d.Creds) })
	caps("providers", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Providers, d.Creds) })
	caps("clients", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Clients, d.Creds) })
	caps("products", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Products, d.Creds) })
	caps("purchases", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Purchases, d.Creds) })
	caps("sales", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Sales, d.Creds) })
	adminOnly("users", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Users, d.Creds) })
	adminOnly("roles", func(g *gin.RouterGroup) { crudhttp.Mount(g, d.Catalog.Roles, d.Creds) })
}
