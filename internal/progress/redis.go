package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"heroworld/internal/models"
)

// redisKV is the part of *redis.Client the store uses
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps each record as a JSON blob under StorageKey:<player>
type RedisStore struct {
	client redisKV
}

// NewRedisClient connects to redis and checks the connection
func NewRedisClient(ctx context.Context, address, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a store on client
func NewRedisStore(client redisKV) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(playerID string) string {
	return StorageKey + ":" + playerID
}

func (s *RedisStore) Load(ctx context.Context, playerID string) (models.Progress, bool, error) {
	data, err := s.client.Get(ctx, redisKey(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Default(), false, nil
	}
	if err != nil {
		return Default(), false, fmt.Errorf("failed to read progress: %w", err)
	}
	return Decode(data), true, nil
}

func (s *RedisStore) Save(ctx context.Context, playerID string, p models.Progress) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(playerID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, playerID string) error {
	if err := s.client.Del(ctx, redisKey(playerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return nil
}
