package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper is the shared-state variant of DedupCache for multi-instance
// deployments. SET NX EX gives the same semantics: the first sighting claims
// the key for ttl, a duplicate hit leaves the remaining window untouched, and
// the server expires entries on its own.
type RedisDeduper struct {
	cli    *redis.Client
	prefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisDeduper(cfg RedisConfig) (*RedisDeduper, error) {
	cli := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisDeduper{cli: cli, prefix: "dedup:"}, nil
}

func (r *RedisDeduper) IsDuplicate(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := r.cli.SetNX(ctx, r.prefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup setnx: %w", err)
	}
	return !set, nil
}

func (r *RedisDeduper) Close() error {
	return r.cli.Close()
}
