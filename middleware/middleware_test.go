package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/songquanpeng/image-studio/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRelayPanicRecover(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestId())
	engine.GET("/panic", RelayPanicRecover(), func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "Internal server error", payload["error"])
	assert.NotEmpty(t, w.Header().Get(logger.RequestIdKey))
}

func TestRequestIdKeepsClientValue(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestId())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestIdFromContext(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(logger.RequestIdKey, "client-id")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "client-id", w.Body.String())
	assert.Equal(t, "client-id", w.Header().Get(logger.RequestIdKey))
}

func TestMemoryRateLimit(t *testing.T) {
	engine := gin.New()
	engine.GET("/limited", rateLimitFactory(2, 60, "TEST"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	engine := gin.New()
	engine.GET("/open", rateLimitFactory(0, 60, "OFF"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
