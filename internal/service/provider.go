// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"nova_chat_server/internal/dao/mysql/repository"
	myredis "nova_chat_server/internal/dao/redis"
	"nova_chat_server/internal/service/channel"
	"nova_chat_server/internal/service/chat"
	"nova_chat_server/internal/service/friend"
	"nova_chat_server/internal/service/message"
	"nova_chat_server/internal/service/user"
	"nova_chat_server/pkg/util/snowflake"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层和网关通过此结构访问各个 Service
type Services struct {
	User    UserService
	Friend  FriendService
	Channel ChannelService
	Message MessageService
}

// NewServices 创建并注入所有 Service 实例
// repos: Repository 层聚合；cache: 异步缓存；presence/notifier: 在线目录与事件扇出；
// 三个雪花生成器分别负责频道、消息、附件的 ID 命名空间
func NewServices(
	repos *repository.Repositories,
	cache myredis.AsyncCacheService,
	presence chat.PresenceStore,
	notifier chat.Notifier,
	channelNode, messageNode, attachmentNode *snowflake.Node,
) *Services {
	return &Services{
		User:    user.NewUserService(repos, cache),
		Friend:  friend.NewFriendService(repos, presence, notifier, channelNode, messageNode),
		Channel: channel.NewChannelService(repos, notifier, channelNode),
		Message: message.NewMessageService(repos, notifier, messageNode, attachmentNode),
	}
}
