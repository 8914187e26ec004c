package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/calamity-forge/pkg/storage"
)

const (
	// runTTL bounds how long per-run builds are kept; the latest build never expires.
	runTTL = 30 * 24 * time.Hour
	// maxRuns is how many run ids are kept per container.
	maxRuns = 20
)

// RedisStorage implements the Storage interface using Redis.
//
// Keys:
//
//	build:<modKey>          latest build
//	build:<modKey>:<runID>  one run, expires after runTTL
//	builds:<modKey>         run ids, newest first
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage connects to redisURL ("redis://host:port/db").
func NewRedisStorage(redisURL string, logger *slog.Logger) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStorage{client: redis.NewClient(opt), logger: logger}, nil
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Debug("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available
func (r *RedisStorage) WaitForConnection(ctx context.Context, attempts int, delay time.Duration) error {
	for i := 0; i < attempts; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(delay):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("redis did not become available after %d attempts", attempts)
}

// Build operations

func latestKey(modKey string) string     { return "build:" + modKey }
func runKey(modKey, runID string) string { return "build:" + modKey + ":" + runID }
func runsKey(modKey string) string       { return "builds:" + modKey }

func (r *RedisStorage) SaveBuild(ctx context.Context, b *storage.Build) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal build: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, latestKey(b.ModKey), data, 0)
		p.Set(ctx, runKey(b.ModKey, b.RunID), data, runTTL)
		p.LPush(ctx, runsKey(b.ModKey), b.RunID)
		p.LTrim(ctx, runsKey(b.ModKey), 0, maxRuns-1)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save build", "mod_key", b.ModKey, "run_id", b.RunID, "error", err)
		return fmt.Errorf("failed to save build: %w", err)
	}
	return nil
}

func (r *RedisStorage) LatestBuild(ctx context.Context, modKey string) (*storage.Build, error) {
	return r.load(ctx, latestKey(modKey))
}

func (r *RedisStorage) GetBuild(ctx context.Context, modKey, runID string) (*storage.Build, error) {
	return r.load(ctx, runKey(modKey, runID))
}

func (r *RedisStorage) ListBuilds(ctx context.Context, modKey string) ([]string, error) {
	ids, err := r.client.LRange(ctx, runsKey(modKey), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	return ids, nil
}

func (r *RedisStorage) load(ctx context.Context, key string) (*storage.Build, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to load build", "key", key, "error", err)
		return nil, fmt.Errorf("failed to load build: %w", err)
	}

	var b storage.Build
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal build: %w", err)
	}
	return &b, nil
}
