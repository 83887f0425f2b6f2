// Package handler 提供 HTTP 接口层
// 本文件实现 Handler 层的依赖注入和聚合
package handler

import (
	"nova_chat_server/internal/service"
	"nova_chat_server/internal/service/chat"
)

// Handlers 聚合所有 Handler 实例，作为路由注册的入口
type Handlers struct {
	User    *UserHandler
	Friend  *FriendHandler
	Channel *ChannelHandler
	Message *MessageHandler
	WS      *WSHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, gateway *chat.WSGateway) *Handlers {
	return &Handlers{
		User:    NewUserHandler(svc.User),
		Friend:  NewFriendHandler(svc.Friend),
		Channel: NewChannelHandler(svc.Channel),
		Message: NewMessageHandler(svc.Message),
		WS:      NewWSHandler(gateway),
	}
}
