package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanTransport 用 channel 模拟一个单分区主题
type chanTransport struct {
	msgs   chan kafka.Message
	closed chan struct{}
}

func newChanTransport() *chanTransport {
	return &chanTransport{msgs: make(chan kafka.Message, 16), closed: make(chan struct{})}
}

func (t *chanTransport) WriteMessage(ctx context.Context, key, value []byte) error {
	select {
	case t.msgs <- kafka.Message{Key: key, Value: value}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *chanTransport) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-t.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case <-t.closed:
		return kafka.Message{}, errors.New("transport closed")
	}
}

func (t *chanTransport) Close() { close(t.closed) }

func TestKafkaBrokerRoundTrip(t *testing.T) {
	h := newHarness(t)
	alice, bob := h.user(t, "1001"), h.user(t, "1002")
	aliceSess, _ := h.connect(alice)
	_, bobConn := h.connect(bob)

	transport := newChanTransport()
	broker := NewKafkaBroker(transport, h.registry, h.dispatcher, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	go broker.Start(ctx)

	require.NoError(t, broker.Publish(ctx, aliceSess,
		[]byte(`{"event":"sendMessage","data":{"receiverId":"1002","content":"via kafka"}}`)))

	assert.Eventually(t, func() bool { return bobConn.count(EventReceiveMessage) == 1 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-broker.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("consumer loop did not stop")
	}
	broker.Close()
}

func TestKafkaBrokerDropsUnknownConnections(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "1001")
	sess, conn := h.connect(alice)

	transport := newChanTransport()
	broker := NewKafkaBroker(transport, h.registry, h.dispatcher, time.Second)
	require.NoError(t, broker.Publish(context.Background(), sess, []byte(`{"event":"dance"}`)))

	// 消费前连接已断开
	h.registry.OnDisconnect(sess.Conn.ID())
	msg := <-transport.msgs
	assert.Equal(t, sess.Conn.ID(), string(msg.Key))
	broker.handle(msg)
	assert.Zero(t, conn.count(EventError))

	// 非法信封只记日志
	broker.handle(kafka.Message{Value: []byte("not an envelope")})
}
