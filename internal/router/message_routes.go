package router

import (
	"nova_chat_server/internal/handler"
	"nova_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// registerMessageRoutes 注册消息相关路由，全部需要认证
func registerMessageRoutes(api *gin.RouterGroup, h *handler.MessageHandler) {
	message := api.Group("/message", middleware.JWTAuth())
	{
		message.POST("/send", h.SendMessage)
		message.GET("/list/:channel_id", h.GetMessageList)
		message.POST("/attachment", h.UploadAttachment)
	}
}
