package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"notekeep/model"

	"github.com/redis/go-redis/v9"
)

const defaultNoteTTL = 5 * time.Minute

type RedisNoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisNoteCache connects to redisURL and verifies the connection.
func NewRedisNoteCache(ctx context.Context, redisURL string) (*RedisNoteCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisNoteCache{client: client, ttl: defaultNoteTTL}, nil
}

func noteKey(id int64) string {
	return "note:" + strconv.FormatInt(id, 10)
}

func (rc *RedisNoteCache) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	data, err := rc.client.Get(ctx, noteKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note from cache: %w", err)
	}

	var note model.Note
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, fmt.Errorf("failed to unmarshal note: %w", err)
	}
	return &note, nil
}

func (rc *RedisNoteCache) SetNote(ctx context.Context, note *model.Note) error {
	if note == nil {
		return fmt.Errorf("cannot cache nil note")
	}

	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	if err := rc.client.Set(ctx, noteKey(note.ID), data, rc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache note: %w", err)
	}
	return nil
}

func (rc *RedisNoteCache) Invalidate(ctx context.Context, id int64) error {
	if err := rc.client.Del(ctx, noteKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate note %d: %w", id, err)
	}
	return nil
}

// Close closes the Redis connection
func (rc *RedisNoteCache) Close() error {
	return rc.client.Close()
}
