package chat

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaTransport KafkaBroker 依赖的读写能力，由 mq.KafkaClient 实现
type KafkaTransport interface {
	WriteMessage(ctx context.Context, key, value []byte) error
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close()
}

// kafkaEnvelope 写入 Kafka 的入站帧
// Frame 保留原始字节，非法 JSON 也交给 Dispatcher 回复错误事件
type kafkaEnvelope struct {
	ConnID string `json:"connId"`
	Frame  []byte `json:"frame"`
}

// KafkaBroker 分布式模式：读协程把帧写入 Kafka，以连接 ID 为 key 保证同一连接落在同一分区
// 单个消费协程按分区顺序分发；不属于本实例的连接直接丢弃
type KafkaBroker struct {
	transport  KafkaTransport
	registry   Registry
	dispatcher *Dispatcher
	timeout    time.Duration
	done       chan struct{}
}

func NewKafkaBroker(transport KafkaTransport, registry Registry, dispatcher *Dispatcher, timeout time.Duration) *KafkaBroker {
	return &KafkaBroker{
		transport:  transport,
		registry:   registry,
		dispatcher: dispatcher,
		timeout:    timeout,
		done:       make(chan struct{}),
	}
}

func (b *KafkaBroker) Publish(ctx context.Context, sess *Session, frame []byte) error {
	value, err := json.Marshal(kafkaEnvelope{ConnID: sess.Conn.ID(), Frame: frame})
	if err != nil {
		return err
	}
	return b.transport.WriteMessage(ctx, []byte(sess.Conn.ID()), value)
}

// Start 消费循环，ctx 取消后返回
func (b *KafkaBroker) Start(ctx context.Context) {
	defer close(b.done)
	for {
		msg, err := b.transport.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			zap.L().Error("kafka read", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		b.handle(msg)
	}
}

func (b *KafkaBroker) handle(msg kafka.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("kafka dispatch panic", zap.Any("recover", rec), zap.Int64("offset", msg.Offset))
		}
	}()

	var env kafkaEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		zap.L().Error("kafka envelope", zap.Int64("offset", msg.Offset), zap.Error(err))
		return
	}
	sess, ok := b.registry.Session(env.ConnID)
	if !ok {
		// 连接已断开，或属于其他实例
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	b.dispatcher.Dispatch(ctx, sess, env.Frame)
}

// Close 关闭 Kafka 读写；消费循环需先通过 ctx 取消
func (b *KafkaBroker) Close() {
	b.transport.Close()
}

// Done 消费循环退出后关闭
func (b *KafkaBroker) Done() <-chan struct{} {
	return b.done
}
