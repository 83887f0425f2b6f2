package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova_chat_server/internal/dao/mysql/repository"
	myredis "nova_chat_server/internal/dao/redis"
	"nova_chat_server/internal/dto/respond"
	"nova_chat_server/internal/handler"
	"nova_chat_server/internal/https_server"
	"nova_chat_server/internal/service"
	"nova_chat_server/internal/service/chat"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/errorx"
	"nova_chat_server/pkg/util/jwt"
	"nova_chat_server/pkg/util/snowflake"
)

// apiEnvelope 统一响应信封
type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  any             `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// wsEvent 推送给客户端的事件信封
type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// memCache 进程内缓存，撑起在线状态目录和用户信息缓存
type memCache struct {
	mu    sync.Mutex
	store map[string]string
}

func newMemCache() *memCache {
	return &memCache{store: make(map[string]string)}
}

func (c *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key], nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.store {
		if strings.HasPrefix(key, prefix) {
			delete(c.store, key)
		}
	}
	return nil
}

func (c *memCache) SubmitTask(action func()) { action() }

type testEnv struct {
	server  *httptest.Server
	gateway *chat.WSGateway
	client  *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Init("smoke-test-secret", 15, 168)
	require.NoError(t, handler.InitTrans("zh"))

	repos := repository.NewMemoryRepositories()
	cache := newMemCache()
	presence := myredis.NewPresenceDirectory(cache)
	conns := chat.NewConnManager()
	notifier := chat.NewFanoutNotifier(presence, conns)
	broker := chat.NewChannelBroker()

	channelNode, err := snowflake.NewNode(0, constants.PARTITION_CHANNEL)
	require.NoError(t, err)
	messageNode, err := snowflake.NewNode(0, constants.PARTITION_MESSAGE)
	require.NoError(t, err)
	attachmentNode, err := snowflake.NewNode(0, constants.PARTITION_ATTACHMENT)
	require.NoError(t, err)

	services := service.NewServices(repos, cache, presence, notifier, channelNode, messageNode, attachmentNode)
	gateway := chat.NewWSGateway(presence, conns, notifier, broker, services.User, services.Friend, services.Channel, services.Message)
	go gateway.Start()

	engine := https_server.Init(handler.NewHandlers(services, gateway))
	server := httptest.NewServer(engine)
	t.Cleanup(func() {
		server.Close()
		gateway.Close()
	})

	return &testEnv{
		server:  server,
		gateway: gateway,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *apiEnvelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode, "%s %s", method, path)

	var envelope apiEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return &envelope
}

func (e *testEnv) register(t *testing.T, username, nickname string) *respond.RegisterRespond {
	t.Helper()
	envelope := e.do(t, http.MethodPost, "/api/user/register", map[string]any{
		"username": username,
		"password": "password123",
		"nickname": nickname,
	}, "")
	require.Equal(t, errorx.CodeSuccess, envelope.Code)
	var reg respond.RegisterRespond
	require.NoError(t, json.Unmarshal(envelope.Data, &reg))
	return &reg
}

func (e *testEnv) login(t *testing.T, username string) *respond.LoginRespond {
	t.Helper()
	envelope := e.do(t, http.MethodPost, "/api/user/login", map[string]any{
		"username": username,
		"password": "password123",
	}, "")
	require.Equal(t, errorx.CodeSuccess, envelope.Code)
	var login respond.LoginRespond
	require.NoError(t, json.Unmarshal(envelope.Data, &login))
	return &login
}

// dialWS 建立 WebSocket 连接
func (e *testEnv) dialWS(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/api/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readEvent 带超时读取一个推送事件
func readEvent(t *testing.T, conn *websocket.Conn) *wsEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev wsEvent
	require.NoError(t, json.Unmarshal(raw, &ev))
	return &ev
}

// waitEvent 跳过无关事件直到读到指定事件
func waitEvent(t *testing.T, conn *websocket.Conn, event string) *wsEvent {
	t.Helper()
	for i := 0; i < 10; i++ {
		ev := readEvent(t, conn)
		if ev.Event == event {
			return ev
		}
	}
	t.Fatalf("event %s not received", event)
	return nil
}

func TestRegisterAndLoginOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	reg := env.register(t, "alice", "爱丽丝")
	assert.NotZero(t, reg.UserId)

	// 重复注册返回业务码，HTTP 状态仍是 200
	envelope := env.do(t, http.MethodPost, "/api/user/register", map[string]any{
		"username": "alice",
		"password": "password123",
		"nickname": "冒名者",
	}, "")
	assert.Equal(t, errorx.CodeUserExist, envelope.Code)

	login := env.login(t, "alice")
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)

	// 刷新令牌换新的访问令牌
	envelope = env.do(t, http.MethodPost, "/api/user/refresh_token", map[string]any{
		"refresh_token": login.RefreshToken,
	}, "")
	require.Equal(t, errorx.CodeSuccess, envelope.Code)
	var refreshed respond.RefreshTokenRespond
	require.NoError(t, json.Unmarshal(envelope.Data, &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/friend/list", nil)
	require.NoError(t, err)
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestParamValidationTranslated(t *testing.T) {
	env := newTestEnv(t)

	envelope := env.do(t, http.MethodPost, "/api/user/register", map[string]any{
		"username": "ab", // min=3
		"password": "password123",
		"nickname": "短名",
	}, "")
	assert.Equal(t, errorx.CodeInvalidParam, envelope.Code)
	// 报错字段名用 json tag
	msg, ok := envelope.Msg.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, msg, "username")
}

func TestWSConnectDeniedWithBadToken(t *testing.T) {
	env := newTestEnv(t)

	conn := env.dialWS(t, "not-a-token")
	ev := readEvent(t, conn)
	assert.Equal(t, constants.EventConnectionDenied, ev.Event)
}

func TestFriendWorkflowEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	alice := env.register(t, "alice", "爱丽丝")
	bob := env.register(t, "bob", "鲍勃")
	aliceLogin := env.login(t, "alice")
	bobLogin := env.login(t, "bob")

	// bob 通过 WebSocket 上线
	bobConn := env.dialWS(t, bobLogin.AccessToken)
	connected := readEvent(t, bobConn)
	require.Equal(t, constants.EventConnected, connected.Event)
	pendingPush := readEvent(t, bobConn)
	require.Equal(t, constants.EventPendingFriendList, pendingPush.Event)

	// alice 发起好友申请，bob 的连接实时收到最新待处理列表
	envelope := env.do(t, http.MethodPost, "/api/friend/request", map[string]any{
		"friend_id": bob.UserId,
		"message":   "交个朋友",
		"remark":    "小鲍",
	}, aliceLogin.AccessToken)
	require.Equal(t, errorx.CodeSuccess, envelope.Code)

	push := waitEvent(t, bobConn, constants.EventPendingFriendList)
	var pushed []respond.FriendRequestRespond
	require.NoError(t, json.Unmarshal(push.Data, &pushed))
	require.Len(t, pushed, 1)
	assert.Equal(t, alice.UserId, pushed[0].RequesterId)
	require.NotNil(t, pushed[0].FromUser)
	assert.Equal(t, "爱丽丝", pushed[0].FromUser.Nickname)

	// bob 查待处理列表拿到申请 ID 并通过
	envelope = env.do(t, http.MethodGet, "/api/friend/pending", nil, bobLogin.AccessToken)
	require.Equal(t, errorx.CodeSuccess, envelope.Code)
	var pending []respond.FriendRequestRespond
	require.NoError(t, json.Unmarshal(envelope.Data, &pending))
	require.Len(t, pending, 1)

	envelope = env.do(t, http.MethodPost, "/api/friend/accept", map[string]any{
		"request_id": pending[0].RequestId,
	}, bobLogin.AccessToken)
	require.Equal(t, errorx.CodeSuccess, envelope.Code)

	// 接受后 bob 的连接收到 channel_create 和两条消息
	channelCreate := waitEvent(t, bobConn, constants.EventChannelCreate)
	var created respond.ChannelCreateRespond
	require.NoError(t, json.Unmarshal(channelCreate.Data, &created))
	require.NotEmpty(t, created.Channel.ChannelId)
	waitEvent(t, bobConn, constants.EventMessageCreate)

	// 两侧的好友列表都指向同一个频道
	envelope = env.do(t, http.MethodGet, "/api/friend/list", nil, aliceLogin.AccessToken)
	require.Equal(t, errorx.CodeSuccess, envelope.Code)
	var friends []respond.FriendRespond
	require.NoError(t, json.Unmarshal(envelope.Data, &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, bob.UserId, friends[0].FriendId)
	assert.Equal(t, "小鲍", friends[0].Remark)
	assert.Equal(t, created.Channel.ChannelId, friends[0].ChannelId)

	// alice 发消息，bob 实时收到
	envelope = env.do(t, http.MethodPost, "/api/message/send", map[string]any{
		"channel_id": created.Channel.ChannelId,
		"content":    "第一条消息",
	}, aliceLogin.AccessToken)
	require.Equal(t, errorx.CodeSuccess, envelope.Code)

	incoming := waitEvent(t, bobConn, constants.EventMessageCreate)
	var msg respond.MessageRespond
	require.NoError(t, json.Unmarshal(incoming.Data, &msg))
	assert.Equal(t, "第一条消息", msg.Content)
	assert.Equal(t, alice.UserId, msg.AuthorId)

	// 历史消息：申请附言、默认通过语、刚发的一条
	listPath := fmt.Sprintf("/api/message/list/%s?page=1&page_size=20", created.Channel.ChannelId)
	envelope = env.do(t, http.MethodGet, listPath, nil, aliceLogin.AccessToken)
	require.Equal(t, errorx.CodeSuccess, envelope.Code)
	var history respond.GetMessageListRespond
	require.NoError(t, json.Unmarshal(envelope.Data, &history))
	assert.Equal(t, int64(3), history.Total)
}

func TestGroupChannelOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "owner", "群主")
	m1 := env.register(t, "member1", "成员一")
	m2 := env.register(t, "member2", "成员二")
	ownerLogin := env.login(t, "owner")

	envelope := env.do(t, http.MethodPost, "/api/channel/create", map[string]any{
		"member_ids": []int64{m1.UserId, m2.UserId},
	}, ownerLogin.AccessToken)
	require.Equal(t, errorx.CodeSuccess, envelope.Code)
	var channel respond.ChannelRespond
	require.NoError(t, json.Unmarshal(envelope.Data, &channel))
	assert.Equal(t, "群主,成员一,成员二", channel.ChannelName)

	envelope = env.do(t, http.MethodGet, "/api/channel/members/"+channel.ChannelId, nil, ownerLogin.AccessToken)
	require.Equal(t, errorx.CodeSuccess, envelope.Code)
	var members []respond.ChannelMemberRespond
	require.NoError(t, json.Unmarshal(envelope.Data, &members))
	assert.Len(t, members, 3)

	// 不存在的频道返回业务错误码
	envelope = env.do(t, http.MethodGet, "/api/channel/members/99999999", nil, ownerLogin.AccessToken)
	assert.Equal(t, errorx.CodeChannelNotFound, envelope.Code)
}
