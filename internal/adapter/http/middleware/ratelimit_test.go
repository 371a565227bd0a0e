package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/internal/adapter/http/middleware"
	redisStore "wallet-ledger/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newRateLimitStore(t *testing.T) *redisStore.RateLimitStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisStore.NewRateLimitStore(client)
}

func setupRateLimitRouter(store *redisStore.RateLimitStore, limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	rule := middleware.RateLimitRule{Limit: limit, Window: time.Minute}
	log := zerolog.Nop()

	r.POST("/webhooks/:provider", middleware.RateLimiter(store, middleware.GroupWebhooks, rule, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/ops", func(c *gin.Context) {
		c.Set(middleware.CtxSubject, c.GetHeader("X-Test-Subject"))
		c.Next()
	}, middleware.RateLimiter(store, middleware.GroupOps, rule, log), func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return r
}

func hit(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	router := setupRateLimitRouter(newRateLimitStore(t), 3)

	for i := 0; i < 3; i++ {
		w := hit(router, http.MethodPost, "/webhooks/anchor", nil)
		assert.Equal(t, 200, w.Code, "request %d should succeed", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	router := setupRateLimitRouter(newRateLimitStore(t), 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 200, hit(router, http.MethodPost, "/webhooks/anchor", nil).Code)
	}

	w := hit(router, http.MethodPost, "/webhooks/anchor", nil)
	assert.Equal(t, 429, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_ProvidersCountedSeparately(t *testing.T) {
	router := setupRateLimitRouter(newRateLimitStore(t), 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, 200, hit(router, http.MethodPost, "/webhooks/anchor", nil).Code)
	}
	assert.Equal(t, 429, hit(router, http.MethodPost, "/webhooks/anchor", nil).Code)
	assert.Equal(t, 200, hit(router, http.MethodPost, "/webhooks/mono", nil).Code)
}

func TestRateLimiter_KeysOpsBySubject(t *testing.T) {
	router := setupRateLimitRouter(newRateLimitStore(t), 2)

	alice := map[string]string{"X-Test-Subject": "alice"}
	for i := 0; i < 2; i++ {
		assert.Equal(t, 200, hit(router, http.MethodGet, "/ops", alice).Code)
	}
	assert.Equal(t, 429, hit(router, http.MethodGet, "/ops", alice).Code)

	assert.Equal(t, 200, hit(router, http.MethodGet, "/ops", map[string]string{"X-Test-Subject": "bob"}).Code)
}

func TestRateLimiter_DisabledRule(t *testing.T) {
	router := setupRateLimitRouter(newRateLimitStore(t), 0)

	for i := 0; i < 5; i++ {
		w := hit(router, http.MethodPost, "/webhooks/anchor", nil)
		assert.Equal(t, 200, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiter_DegradedModeAllows(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	router := setupRateLimitRouter(redisStore.NewRateLimitStore(client), 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, 200, hit(router, http.MethodPost, "/webhooks/anchor", nil).Code)
	}
}

func TestRateLimitRules(t *testing.T) {
	rules := middleware.RateLimitRules(600, 120)
	assert.Equal(t, int64(600), rules[middleware.GroupWebhooks].Limit)
	assert.Equal(t, int64(120), rules[middleware.GroupOps].Limit)
	assert.Equal(t, time.Minute, rules[middleware.GroupOps].Window)
}
