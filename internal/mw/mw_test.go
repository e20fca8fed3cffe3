package mw

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter(t *testing.T) {
	router := gin.New()
	router.Use(RateLimiter(rate.Limit(1), 2))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	request := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2"), "limits are per client IP")
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.2"))
}

func TestCache(t *testing.T) {
	var revision atomic.Uint64
	var calls atomic.Int32

	router := gin.New()
	router.Use(Cache(cache.New(time.Minute, time.Minute), time.Minute, revision.Load))
	router.GET("/report", func(c *gin.Context) {
		calls.Add(1)
		c.String(http.StatusOK, "report-%d", revision.Load())
	})
	router.GET("/missing", func(c *gin.Context) {
		calls.Add(1)
		c.Status(http.StatusNotFound)
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	testCases := []struct {
		name          string
		path          string
		bump          bool
		expectedBody  string
		expectedHit   bool
		expectedCalls int32
	}{
		{name: "First request is rendered", path: "/report", expectedBody: "report-0", expectedCalls: 1},
		{name: "Second request is served from cache", path: "/report", expectedBody: "report-0", expectedHit: true, expectedCalls: 1},
		{name: "Store write invalidates", path: "/report", bump: true, expectedBody: "report-1", expectedCalls: 2},
		{name: "Errors are not cached", path: "/missing", expectedCalls: 3},
		{name: "Errors are rendered again", path: "/missing", expectedCalls: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.bump {
				revision.Add(1)
			}
			w := get(tc.path)
			if tc.expectedBody != "" {
				assert.Equal(t, tc.expectedBody, w.Body.String())
			}
			assert.Equal(t, tc.expectedHit, w.Header().Get("X-Cache") == "HIT")
			assert.Equal(t, tc.expectedCalls, calls.Load())
		})
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(Logger(zap.New(core)))
	router.GET("/devices/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/devices/DEV404", nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "/devices/:id", fields["route"])
		assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	}
}
