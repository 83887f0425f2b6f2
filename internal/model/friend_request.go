package model

import (
	"gorm.io/gorm"
)

// FriendRequest 好友申请记录。同一对用户（无序对）最多只有一条未删除的
// PENDING 记录；被拒绝或软删除的记录在再次申请时原地复活为 PENDING
type FriendRequest struct {
	gorm.Model
	RequesterId int64  `gorm:"column:requester_id;index:idx_request_pair;not null;comment:申请人ID"`
	ReceiverId  int64  `gorm:"column:receiver_id;index:idx_request_pair;not null;comment:接收人ID"`
	Status      int8   `gorm:"column:status;not null;comment:申请状态，0.待处理，1.已通过，2.已拒绝"`
	Message     string `gorm:"column:message;type:varchar(100);comment:申请附言"`
	Remark      string `gorm:"column:remark;type:varchar(32);comment:申请人对接收人的备注"`
	GroupName   string `gorm:"column:group_name;type:varchar(32);comment:申请人希望放入的好友分组"`
}

func (FriendRequest) TableName() string {
	return "friend_request"
}
