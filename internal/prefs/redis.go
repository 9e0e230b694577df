package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/go-redis/redis/v8"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// KeyPrefix namespaces every profile hash in Redis.
const KeyPrefix = "flappy:prefs:"

// Redis stores one hash per profile: HSET flappy:prefs:<profile> <key> <value>.
type Redis struct {
	client *redis.Client
	hash   string
}

// NewRedis returns a backend for profile on an existing client.
func NewRedis(client *redis.Client, profile string) *Redis {
	return &Redis{client: client, hash: KeyPrefix + profile}
}

// ConnectRedis dials Redis and pings it with exponential backoff.
func ConnectRedis(ctx context.Context, cfg config.PrefsConfig, logger *log.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	retries := cfg.RedisRetries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries)), ctx)

	err := backoff.Retry(func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, retrying", "addr", cfg.RedisAddr, "error", err)
			return err
		}
		return nil
	}, policy)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("prefs: cannot connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("connected to redis", "addr", cfg.RedisAddr)
	return client, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("prefs: redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.HSet(ctx, r.hash, key, value).Err(); err != nil {
		return fmt.Errorf("prefs: redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.HDel(ctx, r.hash, key).Err(); err != nil {
		return fmt.Errorf("prefs: redis delete %s: %w", key, err)
	}
	return nil
}

// Save is a no-op: every write goes straight to Redis.
func (r *Redis) Save(context.Context) error { return nil }
