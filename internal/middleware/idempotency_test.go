package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/srihar-15/EMS/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func newIdempotentRouter(mw gin.HandlerFunc, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user-1")
		c.Next()
	})
	r.POST("/leaves", mw, func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r
}

func TestIdempotency(t *testing.T) {
	cacheKey := middleware.IdempotencyKey("/leaves", "user-1", "abc")
	lockKey := cacheKey + ":lock"

	t.Run("first request is stored", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		r := newIdempotentRouter(middleware.Idempotency(rdb), &calls)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.Regexp().ExpectSet(cacheKey, `.*`, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat is replayed without calling the handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		r := newIdempotentRouter(middleware.Idempotency(rdb), &calls)

		mock.ExpectGet(cacheKey).SetVal(`{"ok":true}`)

		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative concurrent duplicate is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		r := newIdempotentRouter(middleware.Idempotency(rdb), &calls)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without key passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		r := newIdempotentRouter(middleware.Idempotency(rdb), &calls)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RateLimitByIP(1, 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
