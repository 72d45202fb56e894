package redisdb

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"wikiqa/internal/cache"
	"wikiqa/internal/config"
)

const cacheNamespace = "wikiqa"

func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// NewCache returns a Redis-backed cache when Redis is enabled and answers a
// ping, otherwise an in-memory cache sized from config.
func NewCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if !cfg.Redis.Enabled {
		log.Printf("[Cache] Redis disabled, using in-memory cache (max %d entries)", cfg.Cache.MaxEntries)
		return cache.NewMemoryCache(cfg.Cache.MaxEntries)
	}

	rdb := NewClient(cfg)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("[Cache] WARNING: Redis at %s unreachable (%v), using in-memory cache", cfg.Redis.Addr, err)
		_ = rdb.Close()
		return cache.NewMemoryCache(cfg.Cache.MaxEntries)
	}
	log.Printf("[Cache] Using Redis at %s (db %d)", cfg.Redis.Addr, cfg.Redis.DB)
	return cache.NewRedisCache(rdb, cacheNamespace)
}
