package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"petlove-admin/internal/core/cache"
	"petlove-admin/internal/gallery"
	"petlove-admin/internal/prefs"
	httpez "petlove-admin/internal/transport/http/ez"
	mdw "petlove-admin/internal/transport/http/middleware"
)

// galleryModule serves the decorative image feed. It is public: the images
// are cosmetics for the login and dashboard screens, shown before any
// session exists. Category feeds are near-static, so they sit in redis for a
// while and spare the provider quotas.
type galleryModule struct {
	agg *gallery.Aggregator
	rdb *cache.Cache
}

const categoryFeedTTL = 10 * time.Minute

func (m *galleryModule) Priority() int { return 30 }

func (m *galleryModule) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	type searchQ struct {
		Q       string `form:"q" binding:"required"`
		Per     int    `form:"per,default=0"`
		Shuffle bool   `form:"shuffle"`
	}
	type imagesOut struct {
		Images []gallery.Image `json:"images"`
	}
	httpez.RegisterAction[searchQ, imagesOut](ez, httpez.Action[searchQ, imagesOut]{
		Method: http.MethodGet,
		Path:   "/gallery/search",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *searchQ) (imagesOut, error) {
			q := strings.TrimSpace(in.Q)
			if q == "" {
				return imagesOut{}, httpez.BadRequest("empty query")
			}
			imgs := m.agg.Search(c.Request.Context(), q, gallery.Options{
				PerSource: in.Per,
				Shuffle:   in.Shuffle,
			})
			return imagesOut{Images: imgs}, nil
		},
	})

	ez.GET("/gallery/category/:name", func(c *gin.Context) (any, error) {
		name := c.Param("name")
		imgs, err := cache.GetOrLoadJSON[[]gallery.Image](m.rdb, c.Request.Context(),
			"gallery:cat:"+strings.ToLower(name), categoryFeedTTL,
			func(ctx context.Context) (*[]gallery.Image, error) {
				out := m.agg.ByCategory(ctx, name, gallery.Options{Shuffle: true})
				return &out, nil
			})
		if err != nil || imgs == nil {
			// cache trouble degrades to a direct fan-out
			out := m.agg.ByCategory(c.Request.Context(), name, gallery.Options{Shuffle: true})
			return gin.H{"images": out}, nil
		}
		return gin.H{"images": *imgs}, nil
	})

	ez.GET("/gallery/category/:name/random", func(c *gin.Context) (any, error) {
		img, ok := m.agg.RandomOne(c.Request.Context(), c.Param("name"))
		if !ok {
			return nil, httpez.NotFound("no image available")
		}
		return img, nil
	})
}

// prefsModule stores per-session UI state. It only needs a session, not a
// capability: the key is the caller's own session id.
type prefsModule struct{ store *prefs.Store }

func (m *prefsModule) Priority() int { return 40 }

func (m *prefsModule) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	sid := func(c *gin.Context) (string, error) {
		claims := mdw.Claims(c)
		if claims == nil {
			return "", httpez.Unauthorized("no session")
		}
		return claims.SID, nil
	}

	ez.GET("/prefs", func(c *gin.Context) (any, error) {
		s, err := sid(c)
		if err != nil {
			return nil, err
		}
		return m.store.GetPreferences(c.Request.Context(), s), nil
	})

	httpez.RegisterAction[prefs.Preferences, prefs.Preferences](ez, httpez.Action[prefs.Preferences, prefs.Preferences]{
		Method: http.MethodPut,
		Path:   "/prefs",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *prefs.Preferences) (prefs.Preferences, error) {
			s, err := sid(c)
			if err != nil {
				return prefs.Preferences{}, err
			}
			if err := m.store.SetPreferences(c.Request.Context(), s, *in); err != nil {
				return prefs.Preferences{}, httpez.Internal("save preferences failed", err)
			}
			return *in, nil
		},
	})

	ez.GET("/cart", func(c *gin.Context) (any, error) {
		s, err := sid(c)
		if err != nil {
			return nil, err
		}
		return m.store.GetCart(c.Request.Context(), s), nil
	})

	httpez.RegisterAction[prefs.Cart, prefs.Cart](ez, httpez.Action[prefs.Cart, prefs.Cart]{
		Method: http.MethodPut,
		Path:   "/cart",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *prefs.Cart) (prefs.Cart, error) {
			s, err := sid(c)
			if err != nil {
				return prefs.Cart{}, err
			}
			if err := m.store.SetCart(c.Request.Context(), s, *in); err != nil {
				return prefs.Cart{}, httpez.Internal("save cart failed", err)
			}
			return *in, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/cart",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			s, err := sid(c)
			if err != nil {
				return nil, err
			}
			if err := m.store.ClearCart(c.Request.Context(), s); err != nil {
				return nil, httpez.Internal("clear cart failed", err)
			}
			return gin.H{"ok": 1}, nil
		},
	})
}
