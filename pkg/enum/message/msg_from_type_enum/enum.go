// Package msg_from_type_enum 定义消息来源
package msg_from_type_enum

const (
	USER   int8 = 0 // 用户消息
	GROUP  int8 = 1 // 群消息
	SYSTEM int8 = 2 // 系统消息
)
