// Package channel_role_enum 定义频道成员角色
package channel_role_enum

const (
	MEMBER int8 = 0 // 普通成员
	ADMIN  int8 = 1 // 管理员
	OWNER  int8 = 2 // 频道创建者
)
