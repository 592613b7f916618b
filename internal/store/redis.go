package store

import (
	"context"
	"fmt"

	"github.com/nDmitry/rssposter/internal/app"
	"github.com/nDmitry/rssposter/internal/entity"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

// RedisStore keeps posted links in a Redis set
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a new Redis client and checks the connection
func NewRedisStore(ctx context.Context, addr, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client, key: key}, nil
}

// Load reads all members of the set
func (s *RedisStore) Load(ctx context.Context) entity.PostedSet {
	links, err := s.client.SMembers(ctx, s.key).Result()

	if err != nil {
		app.Logger().Warn("Could not read posted links from redis", "key", s.key, "error", err)
		return entity.NewPostedSet()
	}

	return entity.NewPostedSet(links...)
}

// Save replaces the set in a single MULTI/EXEC transaction
func (s *RedisStore) Save(ctx context.Context, posted entity.PostedSet) error {
	links := posted.Sorted()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)

		if len(links) > 0 {
			pipe.SAdd(ctx, s.key, lo.ToAnySlice(links)...)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("could not save posted links to redis: %w", err)
	}

	return nil
}

// Close releases the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
