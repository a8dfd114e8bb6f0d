package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    int
	Title string
	Flags []bool
}

func backends(t *testing.T) map[string]Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]Cache{
		"redis":  NewRedis(client, "dqtest"),
		"memory": NewMemory(),
	}
}

func TestCacheRoundTrip(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var got payload
			assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrNotFound)

			in := payload{ID: 1, Title: "office hours", Flags: []bool{true, false}}
			require.NoError(t, c.Set(ctx, "k", in, time.Minute))
			require.NoError(t, c.Get(ctx, "k", &got))
			assert.Equal(t, in, got)

			require.NoError(t, c.Delete(ctx, "k", "missing"))
			assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrNotFound)
		})
	}
}

func TestGetOrCompute(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			calls := 0
			fn := func(context.Context) ([]payload, error) {
				calls++
				return []payload{{ID: calls}}, nil
			}

			first, err := GetOrCompute(ctx, c, "report", time.Minute, fn)
			require.NoError(t, err)
			second, err := GetOrCompute(ctx, c, "report", time.Minute, fn)
			require.NoError(t, err)

			assert.Equal(t, 1, calls)
			assert.Equal(t, first, second)

			_, err = GetOrCompute(ctx, c, "broken", time.Minute, func(context.Context) (int, error) {
				return 0, errors.New("boom")
			})
			assert.EqualError(t, err, "boom")
		})
	}
}

func TestRedisPrefixesKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedis(client, "dq")
	require.NoError(t, c.Set(context.Background(), "reports:schedules", 1, time.Minute))
	assert.True(t, mr.Exists("dq:reports:schedules"))
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := DialRedis(ctx, mr.Addr(), "", "")
	require.NoError(t, err)
	defer client.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = DialRedis(ctx, addr, "", "")
	assert.Error(t, err)
}
