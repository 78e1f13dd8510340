package utils

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisCtx    = context.Background()
)

// InitRedis connects the shared redis client used for reset tokens and
// short-lived summary caches.
func InitRedis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := redisClient.Ping(redisCtx).Err(); err != nil {
		return err
	}

	log.Println("✅ Redis connected")
	return nil
}

// SetToken stores a value with TTL (used for password reset tokens).
func SetToken(key, value string, ttl time.Duration) error {
	if redisClient == nil {
		return errors.New("redis not initialized")
	}
	return redisClient.Set(redisCtx, key, value, ttl).Err()
}

// GetToken fetches a previously stored token value.
func GetToken(key string) (string, error) {
	if redisClient == nil {
		return "", errors.New("redis not initialized")
	}
	return redisClient.Get(redisCtx, key).Result()
}

// DeleteToken removes a token after use.
func DeleteToken(key string) error {
	if redisClient == nil {
		return errors.New("redis not initialized")
	}
	return redisClient.Del(redisCtx, key).Err()
}

// CacheGet reads a cached JSON blob. Returns redis.Nil when absent.
func CacheGet(key string) (string, error) {
	if redisClient == nil {
		return "", errors.New("redis not initialized")
	}
	return redisClient.Get(redisCtx, key).Result()
}

// CacheSet stores a JSON blob with TTL. Best-effort: callers may ignore errors.
func CacheSet(key, value string, ttl time.Duration) error {
	if redisClient == nil {
		return errors.New("redis not initialized")
	}
	return redisClient.Set(redisCtx, key, value, ttl).Err()
}

// IsCacheMiss reports whether err is a cache miss rather than a real failure.
func IsCacheMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
