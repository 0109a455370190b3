package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupRateLimitRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Handler())
	router.GET("/api/deals", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func requestFrom(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/deals", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{RequestsPerSecond: 0.1, Burst: 2, IdleTTL: time.Minute, Logger: zap.NewNop()})
	router := setupRateLimitRouter(rl)

	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1").Code)

	w := requestFrom(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"errorCode":"requete.limite.atteinte","params":[],"status":429}`, w.Body.String())

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.2").Code)
	assert.Equal(t, 2, rl.Size())
}

func TestRateLimit_RejectedRequestDoesNotConsumeToken(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{RequestsPerSecond: 1000, Burst: 1, IdleTTL: time.Minute, Logger: zap.NewNop()})
	router := setupRateLimitRouter(rl)

	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1").Code)
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1").Code)
}

func TestRateLimit_Cleanup(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute, Logger: zap.NewNop()})
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.getLimiter("ip:a")
	now = now.Add(30 * time.Second)
	rl.getLimiter("ip:b")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 1, rl.Size())
}

func TestPrincipalOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.0.2.1:1000"

	assert.Equal(t, "ip:192.0.2.1", principalOrIP(c))

	c.Set(PrincipalKey, &Principal{Subject: "kc-1"})
	assert.Equal(t, "user:kc-1", principalOrIP(c))
}
