package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petlove-admin/internal/core/auth"
	"petlove-admin/internal/guard"
	"petlove-admin/internal/permission"
	resp "petlove-admin/internal/transport/http/response"
)

const LoginRoute = "/login"

// Guard gates a route group on roles and capabilities. The decision itself is
// pure (guard.Decide); this wrapper feeds it the session claims and resolved
// capabilities, and turns the outcome into a redirect payload. The
// access-denied notice fires once per (session, route); later hits redirect
// silently.
func Guard(res *permission.Resolver, notices *guard.Notices, fallback string, requiredRoles, requiredCaps []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)

		in := guard.Input{
			RequiredRoles: requiredRoles,
			RequiredCaps:  requiredCaps,
		}
		if claims != nil {
			in.Authenticated = true
			in.Role = claims.Role
			if claims.Role != permission.RoleAdministrator && len(requiredCaps) > 0 {
				// Ensure does the self-healing refetch when a required
				// capability looks missing for the current role
				_ = res.Ensure(c.Request.Context(), claims.Role, claims.RoleID, requiredCaps...)
				in.Capabilities = res.Resolve(c.Request.Context(), claims.RoleID)
			}
		}

		switch guard.Decide(in) {
		case guard.Allow:
			c.Next()
		case guard.RedirectLogin:
			notice := ""
			if notices.FirstTime(noticeKey(claims, c.FullPath())) {
				notice = "session required"
			}
			c.AbortWithStatusJSON(http.StatusOK, resp.New(resp.CodeUnauthorized, notice, gin.H{
				"redirect": LoginRoute,
			}))
		case guard.RedirectFallback:
			notice := ""
			if notices.FirstTime(noticeKey(claims, c.FullPath())) {
				notice = "access denied"
			}
			c.AbortWithStatusJSON(http.StatusOK, resp.New(resp.CodeForbidden, notice, gin.H{
				"redirect": fallback,
			}))
		default: // guard.Pending never escapes: capabilities resolve synchronously here
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, "authorization pending"))
		}
	}
}

func noticeKey(claims *auth.Claims, path string) string {
	if claims == nil {
		return "anon|" + path
	}
	return claims.SID + "|" + path
}
