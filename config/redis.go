package config

import (
	"os"

	"Abuze/pkg/logger"
	"Abuze/services/redis"
)

// Connect to Redis
func Connect_redis() (*redis.RedisClient, error) {
	redisURI := os.Getenv("REDIS_URL")
	if redisURI == "" {
		redisURI = "localhost:6379"
	}

	redisClient, err := redis.InitRedis(redisURI, 0)
	if err != nil {
		return nil, err
	}

	logger.Info("Redis connection established")
	return redisClient, nil
}
