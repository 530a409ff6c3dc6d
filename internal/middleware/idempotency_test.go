package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(rdbMiddleware gin.HandlerFunc) *gin.Engine {
		r := gin.New()
		r.POST("/pto/requests", func(c *gin.Context) {
			c.Set("employee_id", "emp-1")
			c.Next()
		}, rdbMiddleware, func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})
		return r
	}

	t.Run("success first attempt locks and passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		r := setup(Idempotency(rdb))

		cacheKey := "idemp:/pto/requests:emp-1:abc"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", idempotencyLockTTL).SetVal(true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/pto/requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success cached response replayed", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		r := setup(Idempotency(rdb))

		cacheKey := "idemp:/pto/requests:emp-1:abc"
		mock.ExpectGet(cacheKey).SetVal(`{"id":"req-1"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/pto/requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "req-1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative concurrent duplicate rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		r := setup(Idempotency(rdb))

		cacheKey := "idemp:/pto/requests:emp-1:abc"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", idempotencyLockTTL).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/pto/requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success no key skips redis entirely", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		r := setup(Idempotency(rdb))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/pto/requests", strings.NewReader(`{}`))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
