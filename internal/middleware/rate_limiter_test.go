package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(maxRequests int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(maxRequests, window))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func getFrom(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":51234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksAboveLimit(t *testing.T) {
	r := limitedRouter(2, time.Minute)

	assert.Equal(t, http.StatusOK, getFrom(r, "203.0.113.10").Code)
	assert.Equal(t, http.StatusOK, getFrom(r, "203.0.113.10").Code)
	assert.Equal(t, http.StatusTooManyRequests, getFrom(r, "203.0.113.10").Code)

	// Another client is unaffected.
	assert.Equal(t, http.StatusOK, getFrom(r, "203.0.113.11").Code)
}

func TestRateLimiterPurgesExpiredEntries(t *testing.T) {
	r := limitedRouter(5, 50*time.Millisecond)
	require.Equal(t, http.StatusOK, getFrom(r, "203.0.113.20").Code)

	rateMapMu.Lock()
	_, tracked := rateMap["203.0.113.20"]
	rateMapMu.Unlock()
	require.True(t, tracked)

	// Before the window ends the entry must survive a purge.
	purgeExpired(time.Now().Add(-time.Second))
	rateMapMu.Lock()
	_, tracked = rateMap["203.0.113.20"]
	rateMapMu.Unlock()
	assert.True(t, tracked)

	// Once expired, the entry is dropped.
	purged := purgeExpired(time.Now().Add(time.Minute))
	assert.GreaterOrEqual(t, purged, 1)
	rateMapMu.Lock()
	_, tracked = rateMap["203.0.113.20"]
	rateMapMu.Unlock()
	assert.False(t, tracked)
}
