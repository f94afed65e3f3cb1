package config

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/manjeet0006/FoodShare/internal/utils"
)

// ConnectRedis returns nil when Redis is not configured or unreachable; the
// stats cache simply stays off.
func ConnectRedis() *redis.Client {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("Redis unavailable, stats caching disabled: %v", err)
		return nil
	}

	log.Println("Redis connection successfully opened.")
	return rdb
}
