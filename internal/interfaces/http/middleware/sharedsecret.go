package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"unimarket/internal/shared/logger"
	"unimarket/internal/shared/utils"
)

// SharedSecret guards a route group with a static bearer token. The
// renewal trigger endpoints are called by the cron runner and by
// operators, each with its own secret so they rotate independently.
type SharedSecret struct {
	secret string
	name   string
	logger logger.Interface
}

func NewSharedSecret(secret, name string, log logger.Interface) *SharedSecret {
	return &SharedSecret{
		secret: secret,
		name:   name,
		logger: log,
	}
}

func (m *SharedSecret) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.secret == "" {
			m.logger.Errorw("shared secret not configured, rejecting request",
				"secret_name", m.name, "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusUnauthorized, "endpoint not configured")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.secret)) != 1 {
			m.logger.Warnw("rejected request with invalid secret",
				"secret_name", m.name, "path", c.Request.URL.Path, "ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Next()
	}
}
