package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked:" + hex.EncodeToString(sum[:])
}

// RevokeToken denylists a JWT until its natural expiry. Tokens are stored
// hashed so the raw credential never lands in Redis.
func RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return RedisClient.Set(ctx, tokenKey(token), "revoked", ttl).Err()
}

// IsTokenRevoked reports whether a token was revoked by logout.
func IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	_, err := RedisClient.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const dashboardCacheTTL = time.Minute

// CacheDashboard stores a rendered admin dashboard payload.
func CacheDashboard(ctx context.Context, key string, payload []byte) error {
	return RedisClient.Set(ctx, "dashboard:"+key, payload, dashboardCacheTTL).Err()
}

// GetCachedDashboard retrieves a cached dashboard payload, returning nil when
// the entry is missing or expired.
func GetCachedDashboard(ctx context.Context, key string) ([]byte, error) {
	data, err := RedisClient.Get(ctx, "dashboard:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
