package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Memory is the in-process backend used when no Redis is configured.
type Memory struct {
	c *gocache.Cache
}

var _ Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	v, ok := m.c.Get(key)
	if !ok {
		return ErrNotFound
	}
	if err := msgpack.Unmarshal(v.([]byte), dest); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal cached value")
		return err
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any, expire time.Duration) error {
	b, err := msgpack.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal value with msgpack")
		return err
	}
	if expire <= 0 {
		expire = gocache.NoExpiration
	}
	m.c.Set(key, b, expire)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}
