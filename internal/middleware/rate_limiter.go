package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/kontim1983-hub/leasing-app/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	rateMap   = make(map[string]*rateEntry)
	rateMapMu sync.Mutex
)

// RateLimiter limits each client IP to maxRequests per window. Uploads of
// large sheets are slow enough that a generous limit only stops runaway
// clients, not legitimate use.
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rateMapMu.Lock()
		entry, exists := rateMap[ip]
		if !exists {
			entry = &rateEntry{}
			rateMap[ip] = entry
		}
		rateMapMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > maxRequests {
			log.Warn().Str("ip", ip).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, slow down"))
			return
		}
		c.Next()
	}
}

// Expired entries are purged periodically so the map does not accumulate
// one entry per client IP forever.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeLoop()
}

func purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		if purged := purgeExpired(time.Now()); purged > 0 {
			log.Debug().Int("purged", purged).Msg("rate limiter map purged")
		}
	}
}

// purgeExpired drops every entry whose window has ended as of now and
// returns how many were removed.
func purgeExpired(now time.Time) int {
	rateMapMu.Lock()
	defer rateMapMu.Unlock()

	purged := 0
	for ip, entry := range rateMap {
		entry.mu.Lock()
		expired := now.After(entry.windowEnd)
		entry.mu.Unlock()
		if expired {
			delete(rateMap, ip)
			purged++
		}
	}
	return purged
}
