// Package channel_type_enum 定义频道类型
package channel_type_enum

const (
	FRIEND int8 = 0 // 好友单聊频道
	GROUP  int8 = 1 // 群聊频道
)
