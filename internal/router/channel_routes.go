package router

import (
	"nova_chat_server/internal/handler"
	"nova_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// registerChannelRoutes 注册频道相关路由，全部需要认证
func registerChannelRoutes(api *gin.RouterGroup, h *handler.ChannelHandler) {
	channel := api.Group("/channel", middleware.JWTAuth())
	{
		channel.POST("/create", h.CreateGroupChannel)
		channel.GET("/my", h.GetMyChannels)
		channel.GET("/members/:channel_id", h.GetChannelMembers)
	}
}
