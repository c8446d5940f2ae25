package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pictora/server/internal/shared/response"
	"github.com/pictora/server/internal/utils/requestctx"
)

// Claims are the JWT claims issued to clients.
type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func parseToken(c *gin.Context, secret string) (*Claims, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		response.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		c.Abort()
		return nil, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
	if err != nil || !token.Valid {
		response.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
		c.Abort()
		return nil, false
	}
	return claims, true
}

// Auth validates the bearer token and stores the caller's UID on the
// request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c, secret)
		if !ok {
			return
		}
		c.Request = c.Request.WithContext(requestctx.WithUserID(c.Request.Context(), claims.UID))
		c.Next()
	}
}

// AdminAuth additionally requires the admin role.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c, secret)
		if !ok {
			return
		}
		if claims.Role != "admin" {
			response.Fail(c, http.StatusForbidden, "FORBIDDEN", "admin access required")
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(requestctx.WithUserID(c.Request.Context(), claims.UID))
		c.Next()
	}
}
