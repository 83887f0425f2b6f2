package handler

import (
	"nova_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// ContextUserIdKey JWT 中间件写入的当前用户 ID 键名
const ContextUserIdKey = "user_id"

// getCurrentUserId 从上下文取出 JWT 中间件解析的用户 ID
func getCurrentUserId(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserIdKey)
	if !exists {
		return 0, false
	}
	userId, ok := v.(int64)
	return userId, ok
}

// requireCurrentUserId 取出当前用户 ID，缺失时直接写入未授权响应
func requireCurrentUserId(c *gin.Context) (int64, bool) {
	userId, ok := getCurrentUserId(c)
	if !ok {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "需要登录"))
	}
	return userId, ok
}
