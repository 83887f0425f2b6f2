package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova_chat_server/internal/dao/mysql/repository"
	"nova_chat_server/internal/dto/request"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/errorx"
	"nova_chat_server/pkg/util/jwt"
)

// fakeCache 同步执行异步任务的内存缓存
type fakeCache struct {
	mu    sync.Mutex
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key], nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	return nil
}

func (c *fakeCache) SubmitTask(task func()) {
	task()
}

func newService(t *testing.T) (*userService, *repository.Repositories, *fakeCache) {
	t.Helper()
	jwt.Init("test-secret", 60, 24)
	repos := repository.NewMemoryRepositories()
	cache := newFakeCache()
	return NewUserService(repos, cache), repos, cache
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newService(t)

	registered, err := svc.Register(&request.RegisterRequest{
		Username: "alice", Password: "s3cret", Nickname: "爱丽丝",
	})
	require.NoError(t, err)
	assert.NotZero(t, registered.UserId)

	logged, err := svc.Login(&request.LoginRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, registered.UserId, logged.UserId)
	assert.NotEmpty(t, logged.AccessToken)
	assert.NotEmpty(t, logged.RefreshToken)
	assert.Equal(t, constants.DEFAULT_SLOGAN, logged.Slogan)

	// 登录签发的令牌能通过建连鉴权
	userId, username, err := svc.Verify(logged.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.UserId, userId)
	assert.Equal(t, "alice", username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Register(&request.RegisterRequest{Username: "alice", Password: "a"})
	require.NoError(t, err)
	_, err = svc.Register(&request.RegisterRequest{Username: "alice", Password: "b"})
	assert.True(t, errorx.IsCode(err, errorx.CodeUserExist))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Register(&request.RegisterRequest{Username: "alice", Password: "right"})
	require.NoError(t, err)

	_, err = svc.Login(&request.LoginRequest{Username: "alice", Password: "wrong"})
	assert.True(t, errorx.IsCode(err, errorx.CodeInvalidAuth))

	_, err = svc.Login(&request.LoginRequest{Username: "nobody", Password: "x"})
	assert.True(t, errorx.IsCode(err, errorx.CodeUserNotExist))
}

func TestVerifyInvalidToken(t *testing.T) {
	svc, _, _ := newService(t)
	_, _, err := svc.Verify("not-a-token")
	assert.True(t, errorx.IsCode(err, errorx.CodeUnauthorized))
}

func TestGetPublicInfoCaches(t *testing.T) {
	svc, _, cache := newService(t)
	registered, err := svc.Register(&request.RegisterRequest{Username: "alice", Password: "a", Nickname: "爱丽丝"})
	require.NoError(t, err)

	info, err := svc.GetPublicInfo(context.Background(), registered.UserId)
	require.NoError(t, err)
	assert.Equal(t, "爱丽丝", info.Nickname)

	// 公开信息不包含敏感字段，且已回写缓存
	cached, err := cache.Get(context.Background(), userInfoCacheKey(registered.UserId))
	require.NoError(t, err)
	assert.NotEmpty(t, cached)
	assert.NotContains(t, cached, "password")
}

func TestGetPublicInfoMissing(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.GetPublicInfo(context.Background(), 404)
	assert.True(t, errorx.IsCode(err, errorx.CodeUserNotExist))
}

func TestUpdateUserInfoInvalidatesCache(t *testing.T) {
	svc, repos, cache := newService(t)
	registered, err := svc.Register(&request.RegisterRequest{Username: "alice", Password: "a", Nickname: "爱丽丝"})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.GetPublicInfo(ctx, registered.UserId)
	require.NoError(t, err)
	require.NotEmpty(t, cache.store[userInfoCacheKey(registered.UserId)])

	require.NoError(t, svc.UpdateUserInfo(ctx, &request.UpdateUserInfoRequest{
		UserId: registered.UserId, Nickname: "新名字",
	}))
	assert.Empty(t, cache.store[userInfoCacheKey(registered.UserId)])

	info, err := svc.GetPublicInfo(ctx, registered.UserId)
	require.NoError(t, err)
	assert.Equal(t, "新名字", info.Nickname)

	// 零值字段不覆盖已有资料
	user, err := repos.User.FindById(registered.UserId)
	require.NoError(t, err)
	assert.Equal(t, "新名字", user.Nickname)
}

func TestRefreshToken(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Register(&request.RegisterRequest{Username: "alice", Password: "s3cret", Nickname: "爱丽丝"})
	require.NoError(t, err)
	logged, err := svc.Login(&request.LoginRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(logged.RefreshToken)
	require.NoError(t, err)
	userId, _, err := svc.Verify(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, logged.UserId, userId)

	// Access Token 不能用来刷新
	_, err = svc.RefreshToken(logged.AccessToken)
	assert.True(t, errorx.IsCode(err, errorx.CodeUnauthorized))
}
