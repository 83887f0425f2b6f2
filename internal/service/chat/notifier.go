// Package chat 实现实时消息网关
// notifier.go
// 核心职责：事件扇出。查在线状态目录定位会话，把事件推给传输层。
// 离线不是错误，投递失败也永远不回滚调用方的事务
package chat

import (
	"context"
	"encoding/json"
	"sync"

	myredis "nova_chat_server/internal/dao/redis"
	"nova_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// PresenceStore 在线状态目录的最小依赖视图
type PresenceStore interface {
	Put(ctx context.Context, userId int64, online *myredis.OnlineUser) error
	Get(ctx context.Context, userId int64) (*myredis.OnlineUser, error)
	Remove(ctx context.Context, userId int64) error
}

// SessionTransport 会话传输层，按会话句柄推送字节
type SessionTransport interface {
	Push(clientId string, message []byte) error
}

// OutboundEvent 推给前端的事件信封
type OutboundEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// FanoutResult 批量扇出的结果
type FanoutResult struct {
	// AnyDelivered 至少有一个接收者在线且投递成功
	AnyDelivered bool
	// PerRecipient 每个接收者的投递结果
	PerRecipient map[int64]bool
}

// Notifier 事件扇出接口
type Notifier interface {
	// Notify 向单个用户推送事件，用户离线返回 (false, nil)
	Notify(ctx context.Context, userId int64, event string, payload any) (bool, error)
	// NotifyMany 并发向多个用户推送事件，容忍任意接收者离线
	NotifyMany(ctx context.Context, userIds []int64, event string, payload any) (*FanoutResult, error)
}

// FanoutNotifier Notifier 的默认实现
type FanoutNotifier struct {
	presence  PresenceStore
	transport SessionTransport
}

// NewFanoutNotifier 创建事件扇出器
func NewFanoutNotifier(presence PresenceStore, transport SessionTransport) *FanoutNotifier {
	return &FanoutNotifier{presence: presence, transport: transport}
}

// Notify 向单个用户推送事件
// 用户不在线返回 (false, nil)；传输层失败返回 CodeDeliveryFailed，
// 调用方只记日志，不据此回滚任何已提交的写入
func (n *FanoutNotifier) Notify(ctx context.Context, userId int64, event string, payload any) (bool, error) {
	online, err := n.presence.Get(ctx, userId)
	if err != nil {
		return false, err
	}
	if online == nil {
		return false, nil
	}
	data, err := json.Marshal(OutboundEvent{Event: event, Data: payload})
	if err != nil {
		return false, errorx.Wrapf(err, errorx.CodeDeliveryFailed, "marshal event %s", event)
	}
	if err := n.transport.Push(online.ClientId, data); err != nil {
		return false, err
	}
	return true, nil
}

// NotifyMany 并发扇出后聚合结果
// 先全部发出再统一等待（fan-out/fan-in），单个接收者的失败只记日志
func (n *FanoutNotifier) NotifyMany(ctx context.Context, userIds []int64, event string, payload any) (*FanoutResult, error) {
	result := &FanoutResult{PerRecipient: make(map[int64]bool, len(userIds))}
	if len(userIds) == 0 {
		return result, nil
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, userId := range userIds {
		wg.Add(1)
		go func(userId int64) {
			defer wg.Done()
			delivered, err := n.Notify(ctx, userId, event, payload)
			if err != nil {
				zap.L().Warn("fanout delivery failed",
					zap.Int64("userId", userId),
					zap.String("event", event),
					zap.Error(err),
				)
			}
			mu.Lock()
			result.PerRecipient[userId] = delivered
			if delivered {
				result.AnyDelivered = true
			}
			mu.Unlock()
		}(userId)
	}
	wg.Wait()
	return result, nil
}
