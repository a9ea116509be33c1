package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/panaderia/registros/backend/pkg/logger"
	"github.com/panaderia/registros/backend/pkg/metrics"
)

// APIKeyHeader carries the shared secret.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware returns a Gin middleware that requires the X-API-Key header
// to equal key. An empty key leaves the gate open (local development).
func APIKeyMiddleware(key string) gin.HandlerFunc {
	if key == "" {
		return func(c *gin.Context) { c.Next() }
	}
	want := []byte(key)
	return func(c *gin.Context) {
		got := c.GetHeader(APIKeyHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			metrics.APIKeyRejected.Inc()
			logger.FromContext(c.Request.Context()).Warnf("rejected request to %s from %s: bad api key", c.FullPath(), c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key inválida"})
			return
		}
		c.Next()
	}
}
