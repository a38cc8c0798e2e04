package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// FixedWindowLimit allows limit requests per client IP and window on one route.
// The lookup endpoint is the only unauthenticated read, so it is the one that gets this.
// Redis errors fail open.
func FixedWindowLimit(rdb *redis.Client, name string, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limit <= 0 || window <= 0 {
				return next(c)
			}
			bucket := nowUTC().UnixNano() / int64(window)
			key := "ratelimit:" + name + ":" + clientIP(c) + ":" + strconv.FormatInt(bucket, 10)

			ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
			defer cancel()

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Printf("rate limit %s: redis unavailable: %v", name, err)
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			remaining := max(int64(limit)-n, 0)
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if n > int64(limit) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
