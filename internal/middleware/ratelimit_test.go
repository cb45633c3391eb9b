package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRateLimitRouter(t *testing.T, limit int, window time.Duration) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.POST("/projects", RateLimit(rdb, limit, window, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r, mr
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	r, _ := setupRateLimitRouter(t, 2, time.Minute)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", nil))
		require.Equal(t, http.StatusCreated, w.Code, "request %d should pass", i+1)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_WindowResets(t *testing.T) {
	r, mr := setupRateLimitRouter(t, 1, time.Minute)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	mr.FastForward(time.Minute + time.Second)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	r, _ := setupRateLimitRouter(t, 0, time.Minute)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", nil))
		require.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestRateLimit_CounterWithoutTTLRecovers(t *testing.T) {
	r, mr := setupRateLimitRouter(t, 1, time.Minute)

	// a counter that lost its TTL must not throttle the caller forever
	key := "ratelimit:create:ip:192.0.2.1"
	require.NoError(t, mr.Set(key, "5"))
	require.False(t, mr.TTL(key) > 0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Greater(t, mr.TTL(key), time.Duration(0), "the request must attach an expiry")

	mr.FastForward(time.Minute + time.Second)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	r, mr := setupRateLimitRouter(t, 1, time.Minute)
	mr.Close()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}
