package chat

import (
	"context"
	"encoding/json"
	"testing"

	myredis "nova_chat_server/internal/dao/redis"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier 只认白名单里的令牌
type fakeVerifier struct {
	valid map[string]int64
}

func (v *fakeVerifier) Verify(token string) (int64, string, error) {
	if userId, ok := v.valid[token]; ok {
		return userId, "tester", nil
	}
	return 0, "", errorx.New(errorx.CodeInvalidAuth, "凭证无效或已过期")
}

// pingFixture 只装配 handlePing 用到的依赖
type pingFixture struct {
	gateway   *WSGateway
	presence  *fakePresence
	transport *fakeTransport
}

func newPingFixture(t *testing.T, verifier *fakeVerifier) *pingFixture {
	t.Helper()
	presence := newFakePresence()
	transport := newFakeTransport()
	notifier := NewFanoutNotifier(presence, transport)
	gateway := NewWSGateway(presence, NewConnManager(), notifier, NewChannelBroker(), verifier, nil, nil, nil)
	return &pingFixture{gateway: gateway, presence: presence, transport: transport}
}

// pongOf 取某会话收到的最后一条 pong 的 alive 标志
func pongOf(t *testing.T, transport *fakeTransport, clientId string) bool {
	t.Helper()
	messages := transport.pushed[clientId]
	require.NotEmpty(t, messages)
	var envelope OutboundEvent
	require.NoError(t, json.Unmarshal(messages[len(messages)-1], &envelope))
	require.Equal(t, constants.EventPong, envelope.Event)
	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var data struct {
		Alive bool `json:"alive"`
	}
	require.NoError(t, json.Unmarshal(payload, &data))
	return data.Alive
}

func TestPingRenewsPresenceWhileTokenValid(t *testing.T) {
	f := newPingFixture(t, &fakeVerifier{valid: map[string]int64{"good-token": 1}})
	require.NoError(t, f.presence.Put(context.Background(), 1, &myredis.OnlineUser{ClientId: "c1", AccessToken: "good-token"}))

	f.gateway.handlePing(&InboundEvent{Event: constants.EventPing, UserId: 1})

	// 令牌仍有效：续租一次，pong 带 alive=true
	assert.Equal(t, 2, f.presence.puts)
	assert.True(t, pongOf(t, f.transport, "c1"))
}

func TestPingExpiredTokenSignalsNotAlive(t *testing.T) {
	// 建连后令牌过期，白名单为空
	f := newPingFixture(t, &fakeVerifier{valid: map[string]int64{}})
	require.NoError(t, f.presence.Put(context.Background(), 1, &myredis.OnlineUser{ClientId: "c1", AccessToken: "expired-token"}))

	f.gateway.handlePing(&InboundEvent{Event: constants.EventPing, UserId: 1})

	// 不续租，pong 带 alive=false 提示前端刷新令牌
	assert.Equal(t, 1, f.presence.puts)
	assert.False(t, pongOf(t, f.transport, "c1"))
}

func TestPingOfflineUserIsIgnored(t *testing.T) {
	f := newPingFixture(t, &fakeVerifier{valid: map[string]int64{"good-token": 1}})

	f.gateway.handlePing(&InboundEvent{Event: constants.EventPing, UserId: 1})

	assert.Zero(t, f.presence.puts)
	assert.Empty(t, f.transport.pushed)
}
