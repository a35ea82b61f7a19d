package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gallerydesk:blob:"

// RedisStore keeps blobs in Redis hashes; expiry is delegated to key TTLs
// so several frontend replicas can resolve each other's handles.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the server described by url.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	if url == "" {
		return nil, errors.New("blobstore: redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("blobstore: parse redis url: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opts), ttl), nil
}

// NewRedisStoreFromClient wraps an existing client. Close closes it.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(h Handle) string {
	return redisKeyPrefix + string(h)
}

func (s *RedisStore) Put(ctx context.Context, blob Blob) (Handle, error) {
	h := newHandle()
	key := redisKey(h)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "content_type", blob.ContentType, "data", blob.Data)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("blobstore: redis put: %w", err)
	}
	return h, nil
}

func (s *RedisStore) Get(ctx context.Context, h Handle) (Blob, error) {
	vals, err := s.client.HGetAll(ctx, redisKey(h)).Result()
	if err != nil {
		return Blob{}, fmt.Errorf("blobstore: redis get: %w", err)
	}
	data, ok := vals["data"]
	if !ok {
		return Blob{}, ErrNotFound
	}
	return Blob{Data: []byte(data), ContentType: vals["content_type"]}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, h Handle) error {
	if err := s.client.Del(ctx, redisKey(h)).Err(); err != nil {
		return fmt.Errorf("blobstore: redis revoke: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
