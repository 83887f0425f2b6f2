package model

import (
	"time"

	"gorm.io/gorm"
)

// Channel 会话频道，好友频道与群聊频道共用一张表。
// FriendUniqueId 仅在 ChannelType 为好友频道时有值，
// 用于在删除好友后重新加回时恢复同一个频道
type Channel struct {
	gorm.Model
	ChannelId      string    `gorm:"column:channel_id;uniqueIndex;type:char(20);not null;comment:频道雪花ID"`
	ChannelName    string    `gorm:"column:channel_name;type:varchar(64);comment:频道名称"`
	Avatar         string    `gorm:"column:avatar;type:varchar(255);comment:频道头像"`
	ChannelType    int8      `gorm:"column:channel_type;not null;comment:频道类型，0.好友，1.群聊"`
	FriendUniqueId string    `gorm:"column:friend_unique_id;index;type:varchar(42);comment:好友频道对应的好友关系自然键"`
	LastMessageId  string    `gorm:"column:last_message_id;type:char(20);comment:最后一条消息的雪花ID"`
	LastMessageAt  time.Time `gorm:"column:last_message_at;type:datetime;comment:最后一条消息时间"`
}

func (Channel) TableName() string {
	return "channel"
}
