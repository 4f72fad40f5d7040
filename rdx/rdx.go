package rdx

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

func RdxGet(key string) (string, error) {
	return Conn.Get(context.Background(), key).Result()
}

func RdxSet(key, value string, ttl time.Duration) error {
	return Conn.Set(context.Background(), key, value, ttl).Err()
}

func RdxDel(key string) error {
	return Conn.Del(context.Background(), key).Err()
}

// AcquireLock tries to take a distributed lock; returns false if held.
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(ctx, key, "1", ttl).Result()
}

// ReleaseLock releases the lock
func ReleaseLock(ctx context.Context, key string) {
	if err := Conn.Del(ctx, key).Err(); err != nil {
		log.Printf("ReleaseLock: failed for key %s, err=%v\n", key, err)
	}
}
