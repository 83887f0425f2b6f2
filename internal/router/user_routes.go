package router

import (
	"nova_chat_server/internal/handler"
	"nova_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// registerUserRoutes 注册用户相关路由
// 注册、登录、刷新令牌无需认证，其余接口需要携带访问令牌
func registerUserRoutes(api *gin.RouterGroup, h *handler.UserHandler) {
	user := api.Group("/user")
	{
		user.POST("/register", h.Register)
		user.POST("/login", h.Login)
		user.POST("/refresh_token", h.RefreshToken)
	}

	auth := api.Group("/user", middleware.JWTAuth())
	{
		auth.GET("/info/:user_id", h.GetUserInfo)
		auth.POST("/info_list", h.GetUserInfoList)
		auth.POST("/update", h.UpdateUserInfo)
	}
}
