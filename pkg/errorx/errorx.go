package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 实现 Go 标准 error 接口
// 当存在底层错误时，返回格式为 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 实现 errors.Unwrap 接口，支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeFriendshipMissing, "好友关系不存在")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// 业务状态码常量定义
// 按错误类别分段：1xxx 通用，2xxx 好友关系，3xxx 频道，4xxx 在线状态/下发，5xxx 基础设施
const (
	CodeSuccess      = 1000 // 成功
	CodeInvalidParam = 1001 // 请求参数错误
	CodeUserExist    = 1002 // 用户已存在
	CodeUserNotExist = 1003 // 用户不存在
	CodeInvalidAuth  = 1004 // 用户名或密码错误
	CodeServerBusy   = 1005 // 服务繁忙
	CodeUnauthorized = 1006 // 未授权/认证失败
	CodeNotFound     = 1008 // 资源不存在

	CodeRequestPending    = 2001 // 已存在待处理的好友申请
	CodeAlreadyFriends    = 2002 // 已经是好友
	CodeNotYourRequest    = 2003 // 不是发给当前用户的好友申请
	CodeFriendSelf        = 2004 // 不能添加自己为好友
	CodeFriendshipDeleted = 2005 // 好友关系已删除
	CodeFriendshipMissing = 2006 // 好友关系不存在

	CodeMembersNotFound  = 3001 // 部分频道成员不存在
	CodeChannelNotFound  = 3002 // 频道不存在
	CodeNotChannelMember = 3003 // 不是频道成员
	CodeDuplicateMember  = 3004 // 频道成员重复
	CodeConflict         = 3005 // 唯一约束冲突

	CodeUserOffline    = 4001 // 目标用户不在线
	CodeDeliveryFailed = 4002 // 消息下发失败（不触发事务回滚）

	CodeDBError       = 5001 // 数据库错误
	CodeCacheError    = 5002 // 缓存错误
	CodeInvalidConfig = 5003 // 生成器配置非法
	CodeClockRewound  = 5004 // 时钟回拨
	CodeMQError       = 5005 // 消息队列错误
)

// 预定义常用错误实例
// 这些实例既可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam = New(CodeInvalidParam, "请求参数错误")
	ErrServerBusy   = New(CodeServerBusy, "服务繁忙")
)

// IsNotFound 检查错误是否为"未找到"类型（包括 gorm.ErrRecordNotFound）
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}

// IsCode 检查错误链中是否携带指定业务码
func IsCode(err error, code int) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr) && codeErr.Code == code
}
