package highscore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the best score under a single string key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// ConnectRedis parses redisURL, pings the server and returns a store.
func ConnectRedis(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("highscore: parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("highscore: ping redis: %w", err)
	}
	return NewRedisStore(client, key), nil
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "pizza-highscore"
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (int, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("highscore: get %s: %w", r.key, err)
	}
	score, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("highscore: parse %s=%q: %w", r.key, val, err)
	}
	return score, nil
}

func (r *RedisStore) Save(ctx context.Context, score int) error {
	if err := r.client.Set(ctx, r.key, score, 0).Err(); err != nil {
		return fmt.Errorf("highscore: set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
