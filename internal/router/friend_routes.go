package router

import (
	"nova_chat_server/internal/handler"
	"nova_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// registerFriendRoutes 注册好友相关路由，全部需要认证
func registerFriendRoutes(api *gin.RouterGroup, h *handler.FriendHandler) {
	friend := api.Group("/friend", middleware.JWTAuth())
	{
		friend.POST("/request", h.SendRequest)
		friend.POST("/accept", h.AcceptRequest)
		friend.POST("/reject", h.RejectRequest)
		friend.POST("/delete", h.DeleteFriendship)
		friend.GET("/pending", h.GetPendingRequests)
		friend.GET("/sent", h.GetSentRequests)
		friend.GET("/list", h.GetFriendList)
	}
}
