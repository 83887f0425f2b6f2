// Package middleware 提供 gin 中间件
package middleware

import (
	"net/http"
	"strings"

	"nova_chat_server/pkg/errorx"
	"nova_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// ContextUserIdKey 写入 gin 上下文的当前用户 ID 键名
const ContextUserIdKey = "user_id"

// ContextUsernameKey 写入 gin 上下文的当前用户名键名
const ContextUsernameKey = "username"

// JWTAuth 基于 JWT 的认证中间件
// 客户端携带 Authorization: Bearer <access_token>
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "请求未携带token")
			return
		}

		// 按空格分割，格式必须是 Bearer <token>
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "token格式错误")
			return
		}

		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "无效的token")
			return
		}
		// 刷新令牌不能用来访问业务接口
		if claims.Subject != "access_token" {
			abortUnauthorized(c, "无效的token")
			return
		}

		c.Set(ContextUserIdKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
		"data": nil,
	})
	c.Abort()
}
