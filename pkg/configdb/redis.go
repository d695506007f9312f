package configdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const (
	generationKeyPrefix = "GWCONFIG"
	metaKey             = "GWCONFIG_META"
	payloadField        = "payload"
	currentField        = "current"
)

// RedisBackend persists generations through Redis exactly as the
// teacher's sonic.ConfigDBClient persists CONFIG_DB: one hash per key,
// HSet/HGet for fields, SCAN-free since generation ids are looked up
// directly rather than enumerated.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps an existing *redis.Client. Callers own the
// client's lifecycle (addr, DB selection, auth) the way the teacher's
// NewConfigDBClient does.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func generationKey(gen uint64) string {
	return fmt.Sprintf("%s|%d", generationKeyPrefix, gen)
}

func (r *RedisBackend) Save(ctx context.Context, gen uint64, payload []byte) error {
	return r.client.HSet(ctx, generationKey(gen), payloadField, payload).Err()
}

func (r *RedisBackend) Load(ctx context.Context, gen uint64) ([]byte, bool, error) {
	v, err := r.client.HGet(ctx, generationKey(gen), payloadField).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *RedisBackend) Exists(ctx context.Context, gen uint64) (bool, error) {
	n, err := r.client.Exists(ctx, generationKey(gen)).Result()
	return n > 0, err
}

func (r *RedisBackend) SetCurrent(ctx context.Context, gen uint64) error {
	return r.client.HSet(ctx, metaKey, currentField, strconv.FormatUint(gen, 10)).Err()
}

func (r *RedisBackend) Current(ctx context.Context) (uint64, bool, error) {
	s, err := r.client.HGet(ctx, metaKey, currentField).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	gen, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("configdb: malformed current generation %q: %w", s, err)
	}
	return gen, true, nil
}
