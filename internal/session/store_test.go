package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "a", []byte("one")))
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)

	now = now.Add(59 * time.Second)
	require.NoError(t, s.Put(ctx, "a", []byte("two")))
	now = now.Add(59 * time.Second)
	got, err = s.Get(ctx, "a")
	require.NoError(t, err, "put refreshes the ttl")
	assert.Equal(t, []byte("two"), got)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "a", []byte("x")))
	require.NoError(t, s.Put(ctx, "b", []byte("y")))
	require.NoError(t, s.Delete(ctx, "a"))
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	buf := []byte("abc")
	require.NoError(t, s.Put(ctx, "a", buf))
	buf[0] = 'z'
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(ctx, mr.Addr(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "a", []byte(`{"id":"a"}`)))
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a"}`, string(got))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"a"))

	mr.FastForward(2 * time.Minute)
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "b", []byte("x")))
	require.NoError(t, s.Delete(ctx, "b"))
	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStoreRequiresAddr(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "", time.Minute)
	assert.Error(t, err)
}
