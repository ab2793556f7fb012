// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides optional Bearer-token authentication. Identity is loose
// by design: unauthenticated requests fall through to the X-User-ID header or
// the demo fallback in the handlers, while a presented token must verify.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ctxKeyUserID is the Gin context key under which the authenticated user id is
// stored. Handlers read it through their own requester helpers.
const ctxKeyUserID = "userID"

// Auth returns a middleware that resolves the caller's identity.
//
// Behavior:
//   - Empty secret disables token verification entirely; the middleware is a
//     no-op and identity falls back to X-User-ID downstream.
//   - No Authorization header: request proceeds unauthenticated.
//   - "Bearer <token>": the token must be a valid HS256 JWT signed with the
//     secret; its subject claim becomes the user id. Invalid or expired
//     tokens are rejected with 401 rather than silently downgraded.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if len(key) == 0 {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "invalid authorization format",
			})
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(ctxKeyUserID, claims.Subject)
		c.Next()
	}
}
