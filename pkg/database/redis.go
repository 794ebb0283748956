package database

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis dials the rate-limit store. A nil return disables limiting;
// the API keeps working without redis.
func ConnectRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Printf("Warning: redis unavailable at %s (%v), rate limiting disabled", addr, err)
		return nil
	}

	log.Println("Redis connection established")
	return client
}
