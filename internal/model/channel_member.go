package model

import (
	"gorm.io/gorm"
)

// ChannelMember 频道成员。(channel_id, member_id) 唯一，
// 好友频道在完整创建后恒有且只有两个未删除成员
type ChannelMember struct {
	gorm.Model
	ChannelId        string `gorm:"column:channel_id;uniqueIndex:idx_channel_member;type:char(20);not null;comment:频道雪花ID"`
	MemberId         int64  `gorm:"column:member_id;uniqueIndex:idx_channel_member;not null;comment:成员用户ID"`
	Role             int8   `gorm:"column:role;not null;comment:角色，0.普通成员，1.管理员，2.群主"`
	AliasChannelName string `gorm:"column:alias_channel_name;type:varchar(64);comment:该成员看到的频道名（好友频道为对方备注或昵称）"`
	AliasMemberName  string `gorm:"column:alias_member_name;type:varchar(32);comment:该成员在频道内的展示名"`
	ChannelType      int8   `gorm:"column:channel_type;not null;comment:冗余的频道类型，便于按类型过滤成员关系"`
}

func (ChannelMember) TableName() string {
	return "channel_member"
}
