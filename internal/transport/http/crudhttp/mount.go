// Package crudhttp exposes one collection controller as a route family. What
// used to be a hand-written handler set per entity is a single Mount call.
package crudhttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"petlove-admin/internal/crud"
	"petlove-admin/internal/session"
	"petlove-admin/internal/transport/http/middleware"
	resp "petlove-admin/internal/transport/http/response"
)

type listQ struct {
	Q      string `form:"q"`
	Page   int    `form:"page,default=0"`
	Size   int    `form:"size,default=0"`
	Reload bool   `form:"reload"`
}

type statusIn struct {
	Active bool `json:"active"`
}

// Mount registers the route family for one entity on an already-guarded
// group: list, detail, create, update, delete and status toggle.
func Mount[T any](g *gin.RouterGroup, ctrl *crud.Controller[T], creds *session.Credentials) {
	bearer := func(c *gin.Context) string {
		claims := middleware.Claims(c)
		if claims == nil {
			return ""
		}
		return creds.Get(c.Request.Context(), claims.SID)
	}

	fail := func(c *gin.Context, op string, err error) {
		var rerr *crud.RemoteError
		if errors.As(err, &rerr) {
			middleware.CountUpstreamFailure(ctrl.Name(), op)
		}
		writeCrudErr(c, err)
	}

	g.GET("", func(c *gin.Context) {
		var in listQ
		if err := c.ShouldBindQuery(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		if !ctrl.Loaded() || in.Reload {
			if err := ctrl.Load(c.Request.Context(), bearer(c)); err != nil && !errors.Is(err, crud.ErrCancelled) {
				// previous records are kept; the client shows a non-blocking error
				fail(c, "list", err)
				return
			}
			// a superseded load means a fresher one committed; serve that
		}
		c.JSON(http.StatusOK, resp.OK(ctrl.View(in.Q, in.Page, in.Size)))
	})

	g.GET("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		rec, err := ctrl.Get(id)
		if err != nil {
			writeCrudErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(rec))
	})

	g.POST("", func(c *gin.Context) {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		created, err := ctrl.Create(c.Request.Context(), bearer(c), &in)
		if err != nil {
			fail(c, "create", err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(created))
	})

	g.PUT("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		updated, err := ctrl.Update(c.Request.Context(), bearer(c), id, &in)
		if err != nil {
			fail(c, "update", err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(updated))
	})

	if !ctrl.Mutable() {
		return
	}

	g.DELETE("/:id", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		confirmed := c.Query("confirm") == "true"
		if err := ctrl.Remove(c.Request.Context(), bearer(c), id, confirmed); err != nil {
			fail(c, "delete", err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
	})

	g.PATCH("/:id/status", func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var in statusIn
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		confirmed := c.Query("confirm") == "true"
		if err := ctrl.ToggleStatus(c.Request.Context(), bearer(c), id, in.Active, confirmed); err != nil {
			fail(c, "status", err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": id, "active": in.Active}))
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "invalid id"))
		return 0, false
	}
	return id, true
}

func writeCrudErr(c *gin.Context, err error) {
	var verr *crud.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusOK, resp.New(resp.CodeBadRequest, "validation failed", gin.H{"fields": verr.Fields}))
		return
	}

	var rerr *crud.RemoteError
	if errors.As(err, &rerr) {
		switch {
		case errors.Is(rerr.Kind, crud.ErrConflictOnDelete):
			msg := rerr.Message
			if msg == "" {
				msg = "record is referenced elsewhere"
			}
			c.JSON(http.StatusOK, resp.Warning(resp.CodeConflict, msg))
		case errors.Is(rerr.Kind, crud.ErrLoadFailed):
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, rerr.Error()))
		default:
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, rerr.Error()))
		}
		return
	}

	switch {
	case errors.Is(err, crud.ErrNotFound):
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
	case errors.Is(err, crud.ErrInactiveEdit):
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "record is inactive; reactivate it before editing"))
	case errors.Is(err, crud.ErrConfirmRequired):
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "confirmation required"))
	case errors.Is(err, crud.ErrRowBusy):
		c.JSON(http.StatusOK, resp.Error(resp.CodeConflict, "operation already in progress for this record"))
	case errors.Is(err, crud.ErrCancelled):
		// superseded request: swallowed, never surfaced
		c.JSON(http.StatusOK, resp.OK(gin.H{}))
	default:
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
	}
}
