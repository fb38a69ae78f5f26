package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	values   map[string]string
	setNXErr error
	getErr   error
	delCalls int
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}}
}

func (s *stubStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if s.setNXErr != nil {
		return false, s.setNXErr
	}
	if _, held := s.values[key]; held {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *stubStore) Del(_ context.Context, keys ...string) error {
	s.delCalls++
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func TestRedisLockAcquireAndRelease(t *testing.T) {
	store := newStubStore()
	lock, err := NewRedisLock(store, "cd:lock:worker", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, store.values, "cd:lock:worker")

	require.NoError(t, lock.Release(context.Background()))
	assert.NotContains(t, store.values, "cd:lock:worker")
	assert.Equal(t, 1, store.delCalls)
}

func TestRedisLockContention(t *testing.T) {
	store := newStubStore()
	first, err := NewRedisLock(store, "cd:lock:worker", time.Minute)
	require.NoError(t, err)
	second, err := NewRedisLock(store, "cd:lock:worker", time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLockReleaseSkipsForeignOwner(t *testing.T) {
	store := newStubStore()
	lock, err := NewRedisLock(store, "cd:lock:worker", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	// simulate TTL expiry followed by another instance taking the lock
	store.values["cd:lock:worker"] = "someone-else"

	require.NoError(t, lock.Release(context.Background()))
	assert.Equal(t, "someone-else", store.values["cd:lock:worker"])
	assert.Equal(t, 0, store.delCalls)
}

func TestRedisLockReleaseToleratesMissingKey(t *testing.T) {
	store := newStubStore()
	lock, err := NewRedisLock(store, "cd:lock:worker", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	delete(store.values, "cd:lock:worker")
	require.NoError(t, lock.Release(context.Background()))
}

func TestRedisLockReleaseWithoutAcquireIsNoop(t *testing.T) {
	store := newStubStore()
	lock, err := NewRedisLock(store, "cd:lock:worker", time.Minute)
	require.NoError(t, err)

	require.NoError(t, lock.Release(context.Background()))
	assert.Equal(t, 0, store.delCalls)
}
