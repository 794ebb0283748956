package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	rateLimitPeriod = 1 * time.Minute
	rateLimitCount  = 60
)

// RateLimiter throttles per client IP via redis INCR/EXPIRE. Fail-open: a
// nil client or a redis error lets the request through.
func RateLimiter(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil {
			return c.Next()
		}

		key := "rate_limit:" + c.IP()
		count, err := rdb.Incr(c.Context(), key).Result()
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			rdb.Expire(c.Context(), key, rateLimitPeriod)
		}
		if count > rateLimitCount {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
		}
		return c.Next()
	}
}
