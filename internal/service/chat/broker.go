// Package chat 实现实时聊天核心：连接注册、私聊与工作区投递、已读回执、输入状态转发
package chat

import "context"

// 入站消息模式
const (
	ModeChannel = "channel"
	ModeKafka   = "kafka"
)

// Broker 把连接收到的帧交给 Dispatcher
// 实现必须保证同一连接的帧按到达顺序分发
type Broker interface {
	// Publish 由连接的读协程调用
	Publish(ctx context.Context, sess *Session, frame []byte) error
	// Start 启动消费循环，ctx 取消时返回
	Start(ctx context.Context)
	Close()
}
