package database

import (
	"context"
	"os"

	"travel-assistant/logger"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// InitRedis connects the shared redis client used for OTP challenge state
// and the refresh-token blacklist.
func InitRedis() (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := Redis.Ping(context.Background()).Err(); err != nil {
		logger.Error("Failed to connect to redis", err)
		return nil, err
	}
	logger.Success("Successfully connected to redis")

	return Redis, nil
}
