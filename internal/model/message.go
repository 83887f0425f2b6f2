// Package model 定义数据库实体模型
package model

import (
	"gorm.io/gorm"
)

// Message 消息模型，单聊和群聊共用。创建后内容不再变化，
// 只有 Status 会随已读/撤回/删除流转
type Message struct {
	gorm.Model

	// MessageId 雪花算法生成的十进制字符串 ID，按时间严格递增
	MessageId string `gorm:"column:message_id;uniqueIndex;type:char(20);not null;comment:消息雪花ID"`

	// ChannelId 关联的频道雪花 ID
	ChannelId string `gorm:"column:channel_id;index;type:char(20);not null;comment:频道雪花ID"`

	// AuthorId 发送者用户 ID
	AuthorId int64 `gorm:"column:author_id;index;not null;comment:发送者ID"`

	Content string `gorm:"column:content;type:TEXT;comment:消息内容"`

	// MsgType 消息类型，1.文本 ... 12.PDF，参见 pkg/enum/message/msg_type_enum
	MsgType int8 `gorm:"column:msg_type;not null;comment:消息类型"`

	// MsgStatus 消息状态，1.未读，2.已读，3.撤回，4.删除
	MsgStatus int8 `gorm:"column:msg_status;not null;comment:消息状态"`

	// MsgFromType 消息来源，0.用户，1.群聊，2.系统
	MsgFromType int8 `gorm:"column:msg_from_type;not null;comment:消息来源"`

	// IsApply 是否为好友申请流程自动产生的消息
	IsApply bool `gorm:"column:is_apply;not null;default:false;comment:是否申请消息"`

	// IsReply 是否为回复消息，为 true 时 MessageReferenceId 指向被回复的消息
	IsReply            bool   `gorm:"column:is_reply;not null;default:false;comment:是否回复消息"`
	MessageReferenceId string `gorm:"column:message_reference_id;type:char(20);comment:被回复消息的雪花ID"`

	// MentionUserIds 被 @ 的用户 ID 列表，JSON 数组存储
	MentionUserIds string `gorm:"column:mention_user_ids;type:varchar(512);comment:提及用户ID列表(JSON)"`

	// AttachmentIds 附件雪花 ID 列表，JSON 数组存储
	AttachmentIds string `gorm:"column:attachment_ids;type:varchar(512);comment:附件ID列表(JSON)"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
