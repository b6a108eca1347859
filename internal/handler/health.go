package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gsagg03-cmyk/erpx/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthTimeout = 3 * time.Second

// Health reports database and Redis reachability plus the background job
// backlog. Any failed dependency turns the response into a 503.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		body := gin.H{"db": pingDB(ctx, db), "redis": "connected"}
		healthy := body["db"] == "connected"

		if err := rdb.Ping(ctx).Err(); err != nil {
			body["redis"] = "error"
			healthy = false
		} else if depths, err := worker.Depths(ctx, rdb); err == nil {
			body["queues"] = depths
		}

		body["ok"] = healthy
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
	}
}

func pingDB(ctx context.Context, db *gorm.DB) string {
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return "error"
	}
	return "connected"
}
