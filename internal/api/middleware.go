package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/axellelanca/coursecatalog/internal/errors"
)

// RequestLogger logs one line per request. The query string is left out so
// the admin token never reaches the logs.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			log.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		log.Info("request", fields...)
	}
}

// AdminAuth rejects the request with 403 unless the "token" query or form
// field equals secret exactly. An empty secret rejects everything.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = c.PostForm("token")
		}

		if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": apperrors.ErrInvalidToken.Error()})
				return
			}
			c.String(http.StatusForbidden, "Forbidden")
			c.Abort()
			return
		}

		c.Set(adminTokenKey, token)
		c.Next()
	}
}

const adminTokenKey = "admin_token"
