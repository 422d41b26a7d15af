package chat

import (
	"context"
	"time"
)

// ChannelBroker 单机模式：在连接自己的读协程里直接分发
// 读协程一次只处理一帧，天然保证单连接有序
type ChannelBroker struct {
	dispatcher *Dispatcher
	timeout    time.Duration
}

// NewChannelBroker 每帧的处理使用独立的超时 context，连接断开不会中断已开始的写库
func NewChannelBroker(dispatcher *Dispatcher, timeout time.Duration) *ChannelBroker {
	return &ChannelBroker{dispatcher: dispatcher, timeout: timeout}
}

func (b *ChannelBroker) Publish(_ context.Context, sess *Session, frame []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	b.dispatcher.Dispatch(ctx, sess, frame)
	return nil
}

func (b *ChannelBroker) Start(ctx context.Context) {}

func (b *ChannelBroker) Close() {}
