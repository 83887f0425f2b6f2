// Package chat 实现实时消息网关
// kafka_broker.go
// 核心职责：MessageBroker 的 Kafka 实现，多实例部署时入站事件走 Kafka 中转
package chat

import (
	"context"
	"strconv"

	"nova_chat_server/internal/infrastructure/mq"

	"go.uber.org/zap"
)

// KafkaBroker 分布式消息代理
type KafkaBroker struct {
	client    *mq.KafkaClient
	partition int
	cancel    context.CancelFunc
}

// NewKafkaBroker 创建 Kafka 消息代理
func NewKafkaBroker(client *mq.KafkaClient, partition int) *KafkaBroker {
	return &KafkaBroker{client: client, partition: partition}
}

// Publish 把入站事件写到 Kafka
func (b *KafkaBroker) Publish(ctx context.Context, msg []byte) error {
	key := []byte(strconv.Itoa(b.partition))
	return b.client.WriteMessage(ctx, key, msg)
}

// Start 启动消费循环，从 Kafka 拉消息交给 handler
func (b *KafkaBroker) Start(handler func(msg []byte)) {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go func() {
		zap.L().Info("kafka broker started")
		for {
			msg, err := b.client.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				zap.L().Error(err.Error())
				continue
			}
			handler(msg)
		}
	}()
}

// Close 停止消费并关闭 Kafka 连接
func (b *KafkaBroker) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	b.client.Close()
}
