// Package chat 实现实时消息网关
// conn_manager.go
// 核心职责：WebSocket 连接生命周期管理
// 1. 封装 UserConn 对象，管理读写协程
// 2. 按会话句柄（clientId）维护连接表，作为投递传输层
package chat

import (
	"sync"

	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/errorx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// UserConn 表示一个 WebSocket 客户端连接
type UserConn struct {
	Conn     *websocket.Conn
	UserId   int64
	ClientId string      // 会话句柄，在线状态目录里存的就是它
	SendBack chan []byte // 待推送给前端的消息

	closeOnce sync.Once
}

// Write 从 SendBack 通道读取消息并发送给 WebSocket
func (c *UserConn) Write() {
	zap.L().Info("ws write goroutine start", zap.Int64("userId", c.UserId))
	for message := range c.SendBack {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			zap.L().Error(err.Error())
			return
		}
	}
}

// close 关闭连接和推送通道，重复调用安全
func (c *UserConn) close() {
	c.closeOnce.Do(func() {
		if err := c.Conn.Close(); err != nil {
			zap.L().Error(err.Error())
		}
		close(c.SendBack)
	})
}

// ConnManager 按会话句柄管理所有活跃连接
// 同时实现 SessionTransport，把事件字节推到指定会话
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*UserConn // clientId -> conn
}

// NewConnManager 创建连接管理器
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*UserConn)}
}

// Register 注册客户端连接
func (m *ConnManager) Register(conn *UserConn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[conn.ClientId] = conn
}

// Unregister 注销并关闭客户端连接
func (m *ConnManager) Unregister(conn *UserConn) {
	m.mu.Lock()
	delete(m.conns, conn.ClientId)
	m.mu.Unlock()
	conn.close()
}

// Get 获取指定会话句柄的连接，不存在返回 nil
func (m *ConnManager) Get(clientId string) *UserConn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conns[clientId]
}

// Push 把消息投递到指定会话的推送通道
// 在线状态目录说用户在线但连接已经不在本进程时报投递失败
func (m *ConnManager) Push(clientId string, message []byte) error {
	conn := m.Get(clientId)
	if conn == nil {
		return errorx.Newf(errorx.CodeDeliveryFailed, "session %s not attached", clientId)
	}
	select {
	case conn.SendBack <- message:
		return nil
	default:
		return errorx.Newf(errorx.CodeDeliveryFailed, "session %s send buffer full", clientId)
	}
}

// NewUserConn 封装一条新的 WebSocket 连接
func NewUserConn(conn *websocket.Conn, userId int64, clientId string) *UserConn {
	return &UserConn{
		Conn:     conn,
		UserId:   userId,
		ClientId: clientId,
		SendBack: make(chan []byte, constants.CHANNEL_SIZE),
	}
}
