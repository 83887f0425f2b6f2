package model

import (
	"gorm.io/gorm"
)

type UserInfo struct {
	gorm.Model
	Username string `gorm:"column:username;uniqueIndex;type:varchar(32);not null;comment:用户名"`
	Password string `gorm:"column:password;type:varchar(100);not null;comment:bcrypt密码哈希"`
	Nickname string `gorm:"column:nickname;type:varchar(32);not null;comment:昵称"`
	Email    string `gorm:"column:email;type:varchar(64);comment:邮箱"`
	Avatar   string `gorm:"column:avatar;type:varchar(255);comment:头像地址"`
	Gender   int8   `gorm:"column:gender;comment:性别，0.男，1.女，2.未知"`
	Slogan   string `gorm:"column:slogan;type:varchar(100);comment:个性签名"`
}

func (UserInfo) TableName() string {
	return "user_info"
}
