// Package router 负责路由注册
package router

import (
	"nova_chat_server/internal/handler"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有业务路由，统一挂在 /api 前缀下
func RegisterRoutes(engine *gin.Engine, h *handler.Handlers) {
	api := engine.Group("/api")

	registerUserRoutes(api, h.User)
	registerFriendRoutes(api, h.Friend)
	registerChannelRoutes(api, h.Channel)
	registerMessageRoutes(api, h.Message)
	registerWSRoutes(api, h.WS)
}
