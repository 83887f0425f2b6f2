// Package https_server 负责创建 Gin 引擎并配置中间件与路由
package https_server

import (
	"nova_chat_server/internal/handler"
	"nova_chat_server/internal/infrastructure/logger"
	"nova_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 初始化 HTTP 服务器并返回 Gin 引擎实例
// 不使用 gin.Default()，日志和恢复中间件走统一的 zap 输出
func Init(handlers *handler.Handlers) *gin.Engine {
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	router.RegisterRoutes(engine, handlers)

	return engine
}
