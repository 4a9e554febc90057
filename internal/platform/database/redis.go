package database

import (
	"context"
	"fmt"

	"github.com/melvinsclub/club-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB is the global Redis client shared by all domain packages.
var RDB *redis.Client

// Ctx is the root context for Redis operations.
var Ctx = context.Background()

// InitRedis connects to Redis and verifies the connection with a ping.
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		panic("failed to connect to Redis: " + err.Error())
	}

	fmt.Println("Redis connection established.")
}
