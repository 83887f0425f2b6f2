package router

import (
	"nova_chat_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// registerWSRoutes 注册 WebSocket 接入路由
// 不挂 JWT 中间件：浏览器 WebSocket 无法自定义请求头，
// token 通过查询参数携带，在连接升级后由网关校验
func registerWSRoutes(api *gin.RouterGroup, h *handler.WSHandler) {
	api.GET("/ws", h.Connect)
}
