package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"petlove-admin/internal/core/auth"
)

const KeyClaims = "claims"

// Session parses the gateway token when present and stashes the claims. It
// never aborts: an anonymous caller simply carries no claims and the guard
// decides what that means per route.
func Session(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if strings.HasPrefix(ah, "Bearer ") {
			if claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer ")); err == nil {
				c.Set(KeyClaims, claims)
			}
		}
		c.Next()
	}
}

// Claims extracts the parsed session claims, nil when anonymous.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
