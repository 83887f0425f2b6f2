// Package mq 封装 Kafka 底层连接
// 纯技术组件，不包含聊天业务逻辑
package mq

import (
	"context"
	"time"

	"nova_chat_server/internal/config"
	"nova_chat_server/pkg/errorx"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaClient Kafka 客户端结构
type KafkaClient struct {
	Producer *kafka.Writer // 生产者
	Consumer *kafka.Reader // 消费者
}

// NewKafkaClient 根据配置创建并初始化 Kafka 客户端
func NewKafkaClient(cfg *config.KafkaConfig) *KafkaClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	return &KafkaClient{
		Producer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.HostPort),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireNone,
			AllowAutoTopicCreation: false,
		},
		Consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{cfg.HostPort},
			Topic:          cfg.Topic,
			CommitInterval: timeout,
			GroupID:        "nova_chat",
			StartOffset:    kafka.LastOffset,
		}),
	}
}

// WriteMessage 向 Kafka 写入一条消息
func (k *KafkaClient) WriteMessage(ctx context.Context, key, value []byte) error {
	err := k.Producer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
	if err != nil {
		return errorx.Wrap(err, errorx.CodeMQError, "kafka write message")
	}
	return nil
}

// ReadMessage 从 Kafka 读取一条消息，阻塞直到有消息或 ctx 取消
func (k *KafkaClient) ReadMessage(ctx context.Context) ([]byte, error) {
	msg, err := k.Consumer.ReadMessage(ctx)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeMQError, "kafka read message")
	}
	return msg.Value, nil
}

// Close 关闭生产者和消费者
func (k *KafkaClient) Close() {
	if err := k.Producer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := k.Consumer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}
