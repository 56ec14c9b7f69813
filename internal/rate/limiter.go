// Package rate implementa rate limiting de ventana fija.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	rdb "github.com/redis/go-redis/v9"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	CurrentHits int64
}

// Limiter aplica un límite por key con ventana configurable por llamada.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

func windowKey(prefix, key string, window time.Duration, now time.Time) (string, time.Duration) {
	start := now.Truncate(window)
	k := fmt.Sprintf("%s%s:%d", prefix, strings.ReplaceAll(key, " ", "_"), start.Unix())
	return k, start.Add(window).Sub(now)
}

func result(hits int64, limit int, left time.Duration) Result {
	res := Result{Allowed: hits <= int64(limit), CurrentHits: hits}
	if rem := int64(limit) - hits; rem > 0 {
		res.Remaining = rem
	}
	if !res.Allowed {
		res.RetryAfter = left
		if res.RetryAfter <= 0 {
			res.RetryAfter = time.Second
		}
	}
	return res
}

// RedisLimiter: fixed window sencillo (INCR + EXPIRE).
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
	now    func() time.Time
}

func NewRedisLimiter(client *rdb.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{Client: client, Prefix: prefix, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	redisKey, left := windowKey(l.Prefix, key, window, l.now().UTC())

	hits, err := l.Client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, err
	}
	// set expiry on first hit
	if hits == 1 {
		_ = l.Client.Expire(ctx, redisKey, window).Err()
	}
	return result(hits, limit, left), nil
}

// MemoryLimiter usa go-cache; sólo válido con una réplica.
type MemoryLimiter struct {
	c   *gocache.Cache
	now func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{c: gocache.New(time.Minute, time.Minute), now: time.Now}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	k, left := windowKey("", key, window, l.now().UTC())
	// Add falla si ya existe; en ese caso sólo se incrementa
	_ = l.c.Add(k, int64(0), window)
	hits, err := l.c.IncrementInt64(k, 1)
	if err != nil {
		return Result{}, err
	}
	return result(hits, limit, left), nil
}

// Noop permite todo (rate deshabilitado).
type Noop struct{}

func (Noop) Allow(context.Context, string, int, time.Duration) (Result, error) {
	return Result{Allowed: true}, nil
}
