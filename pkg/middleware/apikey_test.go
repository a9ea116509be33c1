package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/panaderia/registros/backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newGatedRouter(key string) *gin.Engine {
	g := gin.New()
	g.GET("/", APIKeyMiddleware(key), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return g
}

func TestAPIKeyMiddleware_NoHeader(t *testing.T) {
	g := newGatedRouter("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Equal(t, "API key inválida", got["error"])
}

func TestAPIKeyMiddleware_WrongKey(t *testing.T) {
	g := newGatedRouter("s3cret")
	before := testutil.ToFloat64(metrics.APIKeyRejected)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "guess")
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.APIKeyRejected))
}

func TestAPIKeyMiddleware_ValidKey(t *testing.T) {
	g := newGatedRouter("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "s3cret")
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
}

func TestAPIKeyMiddleware_EmptyKeyIsOpen(t *testing.T) {
	g := newGatedRouter("")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
}
