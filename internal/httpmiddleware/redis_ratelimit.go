package httpmiddleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisWindow is a fixed-window limiter shared across processes: one counter
// per (key, minute) with a TTL. Fails open when Redis is unreachable.
type RedisWindow struct {
	client *redis.Client
	limit  int
	prefix string
}

// NewRedisWindow creates a limiter allowing perMinute requests per key.
func NewRedisWindow(client *redis.Client, perMinute int) *RedisWindow {
	return &RedisWindow{client: client, limit: perMinute, prefix: "labbook:ratelimit:"}
}

// Allow admits a request for key within the current minute window.
func (l *RedisWindow) Allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	window := time.Now().UTC().Format("200601021504")
	counter := l.prefix + key + ":" + window

	n, err := l.client.Incr(ctx, counter).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		l.client.Expire(ctx, counter, 2*time.Minute)
	}
	return n <= int64(l.limit)
}
