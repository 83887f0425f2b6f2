// Package chat 实现实时消息网关
// ws_gateway.go
// 核心职责：WebSocket 接入与事件分发
// 1. 建连鉴权，写在线状态目录，推送 connected 和待处理好友申请
// 2. 读协程把入站事件发布给 MessageBroker，消费侧统一分发
// 3. 断连时清理在线状态和连接表
package chat

import (
	"context"
	"encoding/json"
	"net/http"

	myredis "nova_chat_server/internal/dao/redis"
	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/dto/respond"
	"nova_chat_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 前后端分离部署，允许跨域握手
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var ctx = context.Background()

// TokenVerifier 凭证校验器
type TokenVerifier interface {
	Verify(token string) (userId int64, username string, err error)
}

// PendingRequestLoader 建连时拉取待处理好友申请列表
type PendingRequestLoader interface {
	LoadPendingRequests(ctx context.Context, userId int64) ([]respond.FriendRequestRespond, error)
}

// MemberLookup 信令转发时查频道内除发送者以外的成员
type MemberLookup interface {
	GetOtherChannelMemberIds(ctx context.Context, channelId string, exceptUserId int64) ([]int64, error)
}

// MessageSender 处理 message_send 事件，落库并扇出
type MessageSender interface {
	SendMessage(ctx context.Context, req *request.SendMessageRequest) (*respond.MessageRespond, error)
}

// InboundEvent 前端发来的事件信封
type InboundEvent struct {
	Event       string          `json:"event"`
	ChannelId   string          `json:"channel_id"`
	ChannelType int8            `json:"channel_type"`
	UserId      int64           `json:"user_id"`
	Payload     json.RawMessage `json:"payload"`
}

// SignalRelayRespond 信令转发给其他成员的载荷，payload 原样透传
type SignalRelayRespond struct {
	ChannelId   string          `json:"channel_id"`
	ChannelType int8            `json:"channel_type"`
	UserId      int64           `json:"user_id"`
	Payload     json.RawMessage `json:"payload"`
}

// WSGateway WebSocket 网关
type WSGateway struct {
	presence      PresenceStore
	conns         *ConnManager
	notifier      Notifier
	broker        MessageBroker
	verifier      TokenVerifier
	pendingLoader PendingRequestLoader
	memberLookup  MemberLookup
	messageSender MessageSender
}

// NewWSGateway 创建 WebSocket 网关
func NewWSGateway(
	presence PresenceStore,
	conns *ConnManager,
	notifier Notifier,
	broker MessageBroker,
	verifier TokenVerifier,
	pendingLoader PendingRequestLoader,
	memberLookup MemberLookup,
	messageSender MessageSender,
) *WSGateway {
	return &WSGateway{
		presence:      presence,
		conns:         conns,
		notifier:      notifier,
		broker:        broker,
		verifier:      verifier,
		pendingLoader: pendingLoader,
		memberLookup:  memberLookup,
		messageSender: messageSender,
	}
}

// Start 启动代理消费循环
func (g *WSGateway) Start() {
	g.broker.Start(g.dispatch)
}

// Close 关闭代理
func (g *WSGateway) Close() {
	g.broker.Close()
}

// HandleConnect 处理 WebSocket 握手
// 鉴权失败也先完成升级，把 connection_denied 从 socket 推回去再关闭，
// 前端据此区分"网络不通"和"凭证失效"
func (g *WSGateway) HandleConnect(c *gin.Context) {
	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error(err.Error())
		return
	}

	token := c.Query("token")
	userId, _, err := g.verifier.Verify(token)
	if err != nil {
		g.denyAndClose(wsConn, "invalid token")
		return
	}

	clientId := uuid.NewString()
	conn := NewUserConn(wsConn, userId, clientId)

	// 写在线状态目录，后上线的设备覆盖先上线的
	if err := g.presence.Put(ctx, userId, &myredis.OnlineUser{ClientId: clientId, AccessToken: token}); err != nil {
		zap.L().Error(err.Error())
		g.denyAndClose(wsConn, "presence unavailable")
		return
	}
	g.conns.Register(conn)

	go conn.Write()
	g.sendToConn(conn, constants.EventConnected, map[string]int64{"user_id": userId})
	g.pushPendingRequests(conn)
	go g.readLoop(conn)

	zap.L().Info("ws连接成功", zap.Int64("userId", userId), zap.String("clientId", clientId))
}

// denyAndClose 推送 connection_denied 后关闭连接
func (g *WSGateway) denyAndClose(wsConn *websocket.Conn, reason string) {
	data, _ := json.Marshal(OutboundEvent{
		Event: constants.EventConnectionDenied,
		Data:  map[string]string{"reason": reason},
	})
	if err := wsConn.WriteMessage(websocket.TextMessage, data); err != nil {
		zap.L().Error(err.Error())
	}
	if err := wsConn.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}

// pushPendingRequests 建连后推送待处理好友申请列表
func (g *WSGateway) pushPendingRequests(conn *UserConn) {
	pending, err := g.pendingLoader.LoadPendingRequests(ctx, conn.UserId)
	if err != nil {
		zap.L().Error(err.Error())
		return
	}
	g.sendToConn(conn, constants.EventPendingFriendList, pending)
}

// readLoop 读取入站事件并发布给代理
func (g *WSGateway) readLoop(conn *UserConn) {
	zap.L().Info("ws read goroutine start", zap.Int64("userId", conn.UserId))
	defer g.disconnect(conn)
	for {
		_, jsonMessage, err := conn.Conn.ReadMessage()
		if err != nil {
			zap.L().Info("ws closed", zap.Int64("userId", conn.UserId), zap.Error(err))
			return
		}
		if err := g.broker.Publish(ctx, jsonMessage); err != nil {
			zap.L().Error(err.Error())
		}
	}
}

// disconnect 断连清理：摘在线状态、注销连接
func (g *WSGateway) disconnect(conn *UserConn) {
	if err := g.presence.Remove(ctx, conn.UserId); err != nil {
		zap.L().Error(err.Error())
	}
	g.conns.Unregister(conn)
}

// dispatch 消费入站事件并按类型分发
func (g *WSGateway) dispatch(msg []byte) {
	var ev InboundEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		zap.L().Error("bad inbound event", zap.Error(err))
		return
	}

	switch ev.Event {
	case constants.EventPing:
		g.handlePing(&ev)
	case constants.EventCreateOffer:
		g.relaySignal(&ev, constants.EventOfferCreate)
	case constants.EventCreateAnswer:
		g.relaySignal(&ev, constants.EventAnswerCreate)
	case constants.EventIceCandidate:
		g.relaySignal(&ev, constants.EventSwapCandidate)
	case constants.EventMessageSend:
		g.handleMessageSend(&ev)
	default:
		zap.L().Warn("unknown inbound event", zap.String("event", ev.Event))
	}
}

// handlePing 心跳：复核建连时的访问令牌，令牌仍有效才续租 TTL
// pong 带 alive 标志，alive=false 时前端应走 refresh_token 换新令牌重连
func (g *WSGateway) handlePing(ev *InboundEvent) {
	online, err := g.presence.Get(ctx, ev.UserId)
	if err != nil || online == nil {
		return
	}
	alive := true
	if _, _, err := g.verifier.Verify(online.AccessToken); err != nil {
		alive = false
	}
	if alive {
		// 续租，活跃连接不因 TTL 到期被摘掉
		if err := g.presence.Put(ctx, ev.UserId, online); err != nil {
			zap.L().Error(err.Error())
		}
	}
	if _, err := g.notifier.Notify(ctx, ev.UserId, constants.EventPong, map[string]bool{"alive": alive}); err != nil {
		zap.L().Warn("pong delivery failed", zap.Int64("userId", ev.UserId), zap.Error(err))
	}
}

// relaySignal 通话信令转发：查频道内其他成员，payload 原样透传，永不回给发送者
func (g *WSGateway) relaySignal(ev *InboundEvent, outEvent string) {
	memberIds, err := g.memberLookup.GetOtherChannelMemberIds(ctx, ev.ChannelId, ev.UserId)
	if err != nil {
		zap.L().Error(err.Error())
		return
	}
	payload := SignalRelayRespond{
		ChannelId:   ev.ChannelId,
		ChannelType: ev.ChannelType,
		UserId:      ev.UserId,
		Payload:     ev.Payload,
	}
	if _, err := g.notifier.NotifyMany(ctx, memberIds, outEvent, payload); err != nil {
		zap.L().Error(err.Error())
	}
}

// handleMessageSend 处理发消息事件，落库和扇出都在消息服务里完成
func (g *WSGateway) handleMessageSend(ev *InboundEvent) {
	var req request.SendMessageRequest
	if err := json.Unmarshal(ev.Payload, &req); err != nil {
		zap.L().Error("bad message_send payload", zap.Error(err))
		return
	}
	if req.AuthorId == 0 {
		req.AuthorId = ev.UserId
	}
	if req.ChannelId == "" {
		req.ChannelId = ev.ChannelId
	}
	if _, err := g.messageSender.SendMessage(ctx, &req); err != nil {
		zap.L().Error("message_send failed", zap.Error(err))
	}
}

// sendToConn 直接向一条连接推送事件，建连初期用，不查在线状态目录
func (g *WSGateway) sendToConn(conn *UserConn, event string, data any) {
	payload, err := json.Marshal(OutboundEvent{Event: event, Data: data})
	if err != nil {
		zap.L().Error(err.Error())
		return
	}
	if err := g.conns.Push(conn.ClientId, payload); err != nil {
		zap.L().Error(err.Error())
	}
}
