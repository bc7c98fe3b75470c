package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/pprlerr"
)

// RedisStore keeps the encodings of a fingerprint in the Redis hash
// pprl:enc:<fingerprint>, one field per record key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr and pings the server.
func NewRedisStore(ctx context.Context, addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store: redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// HashKey returns the Redis key holding fingerprint's encodings.
func HashKey(fingerprint string) string { return "pprl:enc:" + fingerprint }

// Load implements Store with a single HMGET.
func (s *RedisStore) Load(ctx context.Context, fingerprint string, keys []string) (map[string]*bloom.Encoding, error) {
	out := make(map[string]*bloom.Encoding, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.client.HMGet(ctx, HashKey(fingerprint), keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		v, ok := vals[i].(string)
		if !ok {
			continue
		}
		e, err := bloom.DecodeFilter([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("store: record %q: %w", k, err)
		}
		out[k] = e
	}
	return out, nil
}

// Save implements Store with a pipelined HSET.
func (s *RedisStore) Save(ctx context.Context, fingerprint string, encodings map[string]*bloom.Encoding) error {
	if len(encodings) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	key := HashKey(fingerprint)
	for k, e := range encodings {
		blob, err := bloom.EncodeFilter(e)
		if err != nil {
			return err
		}
		if blob == nil {
			return pprlerr.InvalidArgument("store: encoding of %q is nil", k)
		}
		pipe.HSet(ctx, key, k, blob)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Count implements Store with HLEN.
func (s *RedisStore) Count(ctx context.Context, fingerprint string) (int, error) {
	n, err := s.client.HLen(ctx, HashKey(fingerprint)).Result()
	return int(n), err
}

// Delete removes every encoding stored under fingerprint.
func (s *RedisStore) Delete(ctx context.Context, fingerprint string) error {
	return s.client.Del(ctx, HashKey(fingerprint)).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
