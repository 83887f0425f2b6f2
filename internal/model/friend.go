package model

import (
	"gorm.io/gorm"
)

// Friend 好友关系，一对好友只存一行。UniqueId 由两个用户 ID 升序拼接而成
// （"<min>-<max>"），不管从哪一方查都落在同一行上。删除好友只做软删除，
// 重新加好友时清掉 DeletedAt 复用同一行
type Friend struct {
	gorm.Model
	OwnerId      int64  `gorm:"column:owner_id;index;not null;comment:关系发起方ID（首次通过申请时的申请人）"`
	FriendId     int64  `gorm:"column:friend_id;index;not null;comment:关系另一方ID"`
	UniqueId     string `gorm:"column:unique_id;uniqueIndex;type:varchar(42);not null;comment:无序对自然键，<min>-<max>"`
	OwnerRemark  string `gorm:"column:owner_remark;type:varchar(32);comment:发起方对另一方的备注"`
	FriendRemark string `gorm:"column:friend_remark;type:varchar(32);comment:另一方对发起方的备注"`
	OwnerGroup   string `gorm:"column:owner_group;type:varchar(32);comment:发起方的好友分组"`
	FriendGroup  string `gorm:"column:friend_group;type:varchar(32);comment:另一方的好友分组"`
}

func (Friend) TableName() string {
	return "friend"
}
