package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/kontim1983-hub/leasing-app/internal/model"
	"github.com/kontim1983-hub/leasing-app/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health reports store and cache connectivity plus the record count per
// schema generation, a quick sanity figure after an upload round. A nil
// redis client only means the listing cache is off, so it reports
// "disabled" rather than degrading the check.
func Health(repo repository.RecordRepository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		if db := repo.DB(); db != nil {
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				dbStatus = "error"
			}
		}

		counts := gin.H{}
		for _, g := range model.Generations() {
			n, err := repo.CountByGeneration(ctx, g)
			if err != nil {
				dbStatus = "error"
				break
			}
			counts[g] = n
		}

		redisStatus := "connected"
		switch {
		case rdb == nil:
			redisStatus = "disabled"
		case rdb.Ping(ctx).Err() != nil:
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus == "error" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"db":      dbStatus,
			"redis":   redisStatus,
			"records": counts,
		})
	}
}
