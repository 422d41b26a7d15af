// Package mq 封装 Kafka 读写
// 纯技术组件，不包含聊天业务逻辑
package mq

import (
	"context"
	"time"

	"umazing_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaClient Kafka 客户端
type KafkaClient struct {
	conf   config.KafkaConfig
	writer *kafka.Writer
	reader *kafka.Reader
}

// NewKafkaClient 创建生产者和消费者
// 同一 key 的消息进入同一分区，消费端按写入顺序读到
func NewKafkaClient(conf config.KafkaConfig) *KafkaClient {
	timeout := conf.Timeout * time.Second
	return &KafkaClient{
		conf: conf,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(conf.HostPort),
			Topic:                  conf.ChatTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: false,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{conf.HostPort},
			Topic:          conf.ChatTopic,
			CommitInterval: timeout,
			GroupID:        conf.GroupID,
			StartOffset:    kafka.LastOffset,
		}),
	}
}

// CreateTopic 创建主题，已存在时 Kafka 返回的错误只记日志
func (k *KafkaClient) CreateTopic(partitions int) error {
	conn, err := kafka.Dial("tcp", k.conf.HostPort)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             k.conf.ChatTopic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	}); err != nil {
		zap.L().Warn("kafka create topic", zap.String("topic", k.conf.ChatTopic), zap.Error(err))
	}
	return nil
}

// WriteMessage 写入一条消息
func (k *KafkaClient) WriteMessage(ctx context.Context, key, value []byte) error {
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// ReadMessage 阻塞读取下一条消息，ctx 取消时返回错误
func (k *KafkaClient) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return k.reader.ReadMessage(ctx)
}

// Close 关闭生产者和消费者
func (k *KafkaClient) Close() {
	if err := k.writer.Close(); err != nil {
		zap.L().Error("kafka writer close", zap.Error(err))
	}
	if err := k.reader.Close(); err != nil {
		zap.L().Error("kafka reader close", zap.Error(err))
	}
}
