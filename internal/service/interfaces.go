// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层与网关调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"context"

	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/dto/respond"
)

// UserService 用户业务接口
// 处理注册、登录、凭证、公开信息查询等功能
type UserService interface {
	// Register 用户注册
	Register(req *request.RegisterRequest) (*respond.RegisterRespond, error)
	// Login 密码登录，签发双令牌
	Login(req *request.LoginRequest) (*respond.LoginRespond, error)
	// RefreshToken 刷新访问令牌
	RefreshToken(refreshToken string) (*respond.RefreshTokenRespond, error)
	// Verify 校验访问令牌，返回用户 ID 和用户名
	Verify(token string) (int64, string, error)
	// GetPublicInfo 获取单个用户的公开信息
	GetPublicInfo(ctx context.Context, userId int64) (*respond.GetUserInfoRespond, error)
	// GetPublicInfoList 批量获取用户公开信息
	GetPublicInfoList(ctx context.Context, userIds []int64) ([]respond.GetUserInfoRespond, error)
	// UpdateUserInfo 更新用户资料
	UpdateUserInfo(ctx context.Context, req *request.UpdateUserInfoRequest) error
}

// FriendService 好友业务接口
// 处理好友申请的完整生命周期和好友关系维护
type FriendService interface {
	// SendRequest 发起好友申请
	SendRequest(ctx context.Context, req *request.SendFriendRequest) error
	// AcceptRequest 通过好友申请，建立好友关系、频道、成员和首批消息
	AcceptRequest(ctx context.Context, req *request.AcceptFriendRequest) (*respond.ChannelCreateRespond, error)
	// RejectRequest 拒绝好友申请
	RejectRequest(ctx context.Context, req *request.RejectFriendRequest) error
	// DeleteFriendship 删除好友关系
	DeleteFriendship(ctx context.Context, req *request.DeleteFriendRequest) error
	// LoadPendingRequests 拉取待处理好友申请列表
	LoadPendingRequests(ctx context.Context, userId int64) ([]respond.FriendRequestRespond, error)
	// LoadSentRequests 拉取自己发出的申请列表
	LoadSentRequests(ctx context.Context, userId int64) ([]respond.FriendRequestRespond, error)
	// GetFriendList 获取好友列表
	GetFriendList(ctx context.Context, userId int64) ([]respond.FriendRespond, error)
}

// ChannelService 频道业务接口
type ChannelService interface {
	// CreateGroupChannel 创建群聊频道
	CreateGroupChannel(ctx context.Context, req *request.CreateGroupChannelRequest) (*respond.ChannelRespond, error)
	// GetMyChannels 获取当前用户加入的所有频道
	GetMyChannels(ctx context.Context, userId int64) ([]respond.ChannelCreateRespond, error)
	// GetChannelMembers 获取频道成员列表
	GetChannelMembers(ctx context.Context, channelId string) ([]respond.ChannelMemberRespond, error)
	// GetOtherChannelMemberIds 获取频道内除指定用户外的成员 ID
	GetOtherChannelMemberIds(ctx context.Context, channelId string, exceptUserId int64) ([]int64, error)
}

// MessageService 消息业务接口
type MessageService interface {
	// SendMessage 发送消息并向频道成员扇出
	SendMessage(ctx context.Context, req *request.SendMessageRequest) (*respond.MessageRespond, error)
	// GetMessageList 分页拉取频道消息
	GetMessageList(ctx context.Context, req *request.GetMessageListRequest) (*respond.GetMessageListRespond, error)
	// SaveAttachment 登记附件元信息
	SaveAttachment(ctx context.Context, req *request.UploadAttachmentRequest) (*respond.AttachmentRespond, error)
}
