// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"errors"
	"time"

	"nova_chat_server/internal/model"
	"nova_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
// 根据错误类型返回不同的错误码：
//   - ErrRecordNotFound -> CodeNotFound
//   - ErrDuplicatedKey  -> CodeConflict（唯一约束冲突，竞态下的重复写入）
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrap(err, errorx.CodeConflict, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf 包装数据库错误（支持格式化消息）
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrapf(err, errorx.CodeConflict, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindById 根据 ID 查找用户
	FindById(id int64) (*model.UserInfo, error)
	// FindByUsername 根据用户名查找用户
	FindByUsername(username string) (*model.UserInfo, error)
	// FindByIds 批量根据 ID 查找用户
	FindByIds(ids []int64) ([]model.UserInfo, error)
	// FindAllExcept 查找除指定用户外的所有用户
	FindAllExcept(excludeId int64) ([]model.UserInfo, error)
	// Create 创建新用户
	Create(user *model.UserInfo) error
	// Update 更新用户信息
	Update(user *model.UserInfo) error
}

// FriendRequestRepository 好友申请数据访问接口
type FriendRequestRepository interface {
	// FindById 根据主键查找申请记录
	FindById(id uint) (*model.FriendRequest, error)
	// FindByPair 按无序对查找申请记录，包含已软删除的记录
	// 不论 (a,b) 还是 (b,a) 方向都命中同一条
	FindByPair(a, b int64) (*model.FriendRequest, error)
	// FindPendingByReceiver 查找接收人的所有待处理申请
	FindPendingByReceiver(receiverId int64) ([]model.FriendRequest, error)
	// FindByRequester 查找申请人发出的所有未删除申请
	FindByRequester(requesterId int64) ([]model.FriendRequest, error)
	// Create 创建新申请
	Create(req *model.FriendRequest) error
	// Update 全字段更新申请记录，可用于复活已软删除的记录
	Update(req *model.FriendRequest) error
	// UpdateStatus 更新申请状态
	UpdateStatus(id uint, status int8) error
	// SoftDeleteByPair 按无序对软删除申请记录
	SoftDeleteByPair(a, b int64) error
}

// FriendRepository 好友关系数据访问接口
// 好友关系永远不做硬删除，删除好友即软删除，重新加回即恢复
type FriendRepository interface {
	// FindByUniqueId 按自然键查找未删除的好友关系
	FindByUniqueId(uniqueId string) (*model.Friend, error)
	// FindByUniqueIdUnscoped 按自然键查找好友关系，包含已软删除的
	FindByUniqueIdUnscoped(uniqueId string) (*model.Friend, error)
	// FindFriendsOf 查找用户的所有未删除好友关系
	FindFriendsOf(userId int64) ([]model.Friend, error)
	// Create 创建好友关系
	Create(friend *model.Friend) error
	// Restore 清除软删除标记，恢复好友关系
	Restore(uniqueId string) error
	// SoftDeleteByUniqueId 软删除好友关系
	SoftDeleteByUniqueId(uniqueId string) error
}

// ChannelRepository 频道数据访问接口
type ChannelRepository interface {
	// FindByChannelId 根据雪花 ID 查找未删除的频道
	FindByChannelId(channelId string) (*model.Channel, error)
	// FindByChannelIds 批量根据雪花 ID 查找未删除的频道
	FindByChannelIds(channelIds []string) ([]model.Channel, error)
	// FindFriendChannelByUniqueId 按好友关系自然键查找好友频道，包含已软删除的
	FindFriendChannelByUniqueId(uniqueId string) (*model.Channel, error)
	// Create 创建频道
	Create(channel *model.Channel) error
	// Restore 清除软删除标记，恢复频道
	Restore(channelId string) error
	// SoftDeleteByChannelId 软删除频道
	SoftDeleteByChannelId(channelId string) error
	// UpdateLastMessage 更新频道的最后一条消息
	UpdateLastMessage(channelId string, messageId string, at time.Time) error
}

// ChannelMemberRepository 频道成员数据访问接口
type ChannelMemberRepository interface {
	// FindByChannelId 查找频道的所有未删除成员
	FindByChannelId(channelId string) ([]model.ChannelMember, error)
	// FindByChannelIdUnscoped 查找频道的所有成员，包含已软删除的
	FindByChannelIdUnscoped(channelId string) ([]model.ChannelMember, error)
	// FindByChannelIdAndMemberId 查找某个成员在频道内的记录
	FindByChannelIdAndMemberId(channelId string, memberId int64) (*model.ChannelMember, error)
	// FindChannelsOfMember 查找用户加入的所有未删除频道成员记录
	FindChannelsOfMember(memberId int64) ([]model.ChannelMember, error)
	// Create 添加频道成员
	Create(member *model.ChannelMember) error
	// CreateBatch 批量添加频道成员，返回实际写入的行数
	CreateBatch(members []model.ChannelMember) (int64, error)
	// RestoreByChannelId 恢复频道内所有已软删除的成员
	RestoreByChannelId(channelId string) error
	// SoftDeleteByChannelId 软删除频道的所有成员
	SoftDeleteByChannelId(channelId string) error
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// FindByMessageId 根据雪花 ID 查找消息
	FindByMessageId(messageId string) (*model.Message, error)
	// FindByChannelId 分页查找频道消息，按雪花 ID 升序
	FindByChannelId(channelId string, page, pageSize int) ([]model.Message, int64, error)
	// Create 写入单条消息
	Create(message *model.Message) error
	// CreateBatch 批量写入消息
	CreateBatch(messages []model.Message) error
	// HardDeleteByChannelId 物理删除频道的所有消息，删除好友时使用
	HardDeleteByChannelId(channelId string) error
}

// AttachmentRepository 附件数据访问接口
type AttachmentRepository interface {
	// FindByAttachmentIds 批量根据雪花 ID 查找附件
	FindByAttachmentIds(attachmentIds []string) ([]model.Attachment, error)
	// Create 写入附件记录
	Create(attachment *model.Attachment) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db            *gorm.DB
	User          UserRepository
	FriendRequest FriendRequestRepository
	Friend        FriendRepository
	Channel       ChannelRepository
	ChannelMember ChannelMemberRepository
	Message       MessageRepository
	Attachment    AttachmentRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		User:          NewUserRepository(db),
		FriendRequest: NewFriendRequestRepository(db),
		Friend:        NewFriendRepository(db),
		Channel:       NewChannelRepository(db),
		ChannelMember: NewChannelMemberRepository(db),
		Message:       NewMessageRepository(db),
		Attachment:    NewAttachmentRepository(db),
	}
}

// NewRepositoriesFrom 用已有的 Repository 实现组装聚合
// 测试中注入内存实现时使用，db 为空，Transaction 退化为直接执行
func NewRepositoriesFrom(
	user UserRepository,
	friendRequest FriendRequestRepository,
	friend FriendRepository,
	channel ChannelRepository,
	channelMember ChannelMemberRepository,
	message MessageRepository,
	attachment AttachmentRepository,
) *Repositories {
	return &Repositories{
		User:          user,
		FriendRequest: friendRequest,
		Friend:        friend,
		Channel:       channel,
		ChannelMember: channelMember,
		Message:       message,
		Attachment:    attachment,
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// db 为空时（内存实现）直接执行，不提供回滚语义
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
