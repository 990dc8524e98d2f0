package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options is the subset of redis settings exposed through config.
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int // 0 keeps the go-redis default
}

const pingBudget = 5 * time.Second

// OpenRedis connects and pings within a 5s budget derived from ctx.
func OpenRedis(ctx context.Context, o Options) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB, PoolSize: o.PoolSize})
	if err := Ping(ctx, r); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// Ping is also the readiness probe for the health endpoint.
func Ping(ctx context.Context, r *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, pingBudget)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", r.Options().Addr, err)
	}
	return nil
}
