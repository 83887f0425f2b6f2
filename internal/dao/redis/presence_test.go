package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache CacheService 的内存实现，测试用
type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	return f.data[key], nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) DeleteByPattern(_ context.Context, _ string) error {
	return nil
}

func TestPresencePutGetRemove(t *testing.T) {
	dir := NewPresenceDirectory(newFakeCache())
	ctx := context.Background()

	// 未上线时查询返回 (nil, nil)
	online, err := dir.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Nil(t, online)

	err = dir.Put(ctx, 1001, &OnlineUser{ClientId: "client-a", AccessToken: "token-a"})
	require.NoError(t, err)

	online, err = dir.Get(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, online)
	assert.Equal(t, "client-a", online.ClientId)
	assert.Equal(t, "token-a", online.AccessToken)

	require.NoError(t, dir.Remove(ctx, 1001))
	online, err = dir.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Nil(t, online)
}

func TestPresenceLastWriteWins(t *testing.T) {
	dir := NewPresenceDirectory(newFakeCache())
	ctx := context.Background()

	require.NoError(t, dir.Put(ctx, 2002, &OnlineUser{ClientId: "device-1", AccessToken: "t1"}))
	// 第二台设备上线覆盖旧会话句柄
	require.NoError(t, dir.Put(ctx, 2002, &OnlineUser{ClientId: "device-2", AccessToken: "t2"}))

	online, err := dir.Get(ctx, 2002)
	require.NoError(t, err)
	require.NotNil(t, online)
	assert.Equal(t, "device-2", online.ClientId)
}

func TestPresenceKeyFormat(t *testing.T) {
	cache := newFakeCache()
	dir := NewPresenceDirectory(cache)
	require.NoError(t, dir.Put(context.Background(), 42, &OnlineUser{ClientId: "c"}))

	_, ok := cache.data["online_user_42"]
	assert.True(t, ok)
}
