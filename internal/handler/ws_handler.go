package handler

import (
	"nova_chat_server/internal/service/chat"

	"github.com/gin-gonic/gin"
)

// WSHandler WebSocket 接入处理器
// 鉴权在升级完成后由网关自行完成，失败时通过 connection_denied 事件告知客户端
type WSHandler struct {
	gateway *chat.WSGateway
}

func NewWSHandler(gateway *chat.WSGateway) *WSHandler {
	return &WSHandler{gateway: gateway}
}

// Connect 建立 WebSocket 连接
// GET /api/ws?token=xxx
func (h *WSHandler) Connect(c *gin.Context) {
	h.gateway.HandleConnect(c)
}
