// Package chat 实现实时消息网关
// broker.go
// 核心职责：定义消息代理接口和单机实现
// 入站事件先进代理再消费，单机用进程内通道，分布式用 Kafka
package chat

import (
	"context"

	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/errorx"

	"go.uber.org/zap"
)

// MessageBroker 定义消息代理接口
// 支持多种实现：KafkaBroker（分布式）、ChannelBroker（单机）
type MessageBroker interface {
	// Publish 发布入站事件
	Publish(ctx context.Context, msg []byte) error
	// Start 启动消费循环，handler 收到的就是 Publish 进来的字节
	Start(handler func(msg []byte))
	// Close 关闭代理资源
	Close()
}

// ChannelBroker 单机消息代理，进程内缓冲通道直连消费协程
type ChannelBroker struct {
	transmit chan []byte
	done     chan struct{}
}

// NewChannelBroker 创建单机消息代理
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		transmit: make(chan []byte, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
	}
}

// Publish 发布入站事件，通道满时报 ServerBusy
func (b *ChannelBroker) Publish(_ context.Context, msg []byte) error {
	select {
	case b.transmit <- msg:
		return nil
	default:
		return errorx.New(errorx.CodeServerBusy, "transmit channel full")
	}
}

// Start 启动消费循环
func (b *ChannelBroker) Start(handler func(msg []byte)) {
	go func() {
		zap.L().Info("channel broker started")
		for {
			select {
			case msg := <-b.transmit:
				handler(msg)
			case <-b.done:
				return
			}
		}
	}()
}

// Close 停止消费循环
func (b *ChannelBroker) Close() {
	close(b.done)
}
