// Package msg_status_enum 定义消息状态
package msg_status_enum

const (
	UNREAD int8 = 1 // 未读
	READ   int8 = 2 // 已读
	RECALL int8 = 3 // 已撤回
	DELETE int8 = 4 // 已删除
)
