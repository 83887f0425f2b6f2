// Package friend_request_status_enum 定义好友申请状态
package friend_request_status_enum

const (
	PENDING  int8 = 0 // 待处理
	ACCEPTED int8 = 1 // 已通过
	REJECTED int8 = 2 // 已拒绝
)
