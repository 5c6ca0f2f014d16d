package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"todo-hub-api/internal/config"
)

// NewRedis connects the signed-URL cache. Redis is optional; callers treat a
// nil client as cache-off and go straight to the presigner.
func NewRedis(cfg *config.RedisConfig, log *zap.Logger) (*redis.Client, error) {
	var client *redis.Client

	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	log.Info("Redis connection established",
		zap.String("addr", client.Options().Addr),
		zap.Int("db", cfg.DB),
	)
	return client, nil
}
