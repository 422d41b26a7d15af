package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	ErrSendBufferFull = errors.New("chat: send buffer full")
	ErrConnClosed     = errors.New("chat: connection closed")
)

// ConnOptions 连接参数
type ConnOptions struct {
	SendBufferSize int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
}

func (o ConnOptions) pingPeriod() time.Duration {
	return o.PongWait * 9 / 10
}

// UserConn 一条 WebSocket 连接
// 读协程读取客户端帧交给 Broker；写协程消费发送缓冲区并定时发送 ping
type UserConn struct {
	id   string
	ws   *websocket.Conn
	opts ConnOptions

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewUserConn 包装已升级的连接
func NewUserConn(ws *websocket.Conn, opts ConnOptions) *UserConn {
	return &UserConn{
		id:   uuid.NewString(),
		ws:   ws,
		opts: opts,
		send: make(chan []byte, opts.SendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *UserConn) ID() string { return c.id }

// Send 序列化事件放入发送缓冲区，不阻塞
func (c *UserConn) Send(event string, payload any) error {
	data, err := encodeFrame(event, payload)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrConnClosed
	default:
		return ErrSendBufferFull
	}
}

// Close 可重复调用
func (c *UserConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// readLoop 阻塞直到连接出错或关闭；返回前关闭连接
func (c *UserConn) readLoop(sess *Session, broker Broker) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("ws read loop panic", zap.Any("recover", rec), zap.String("conn", c.id))
		}
		_ = c.Close()
	}()

	c.ws.SetReadLimit(c.opts.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("ws read", zap.String("conn", c.id), zap.Error(err))
			}
			return
		}
		if err := broker.Publish(context.Background(), sess, data); err != nil {
			zap.L().Error("publish inbound frame", zap.String("conn", c.id), zap.Error(err))
			_ = c.Send(EventError, ErrorEvent{Message: "server busy, please try again later"})
		}
	}
}

// writeLoop 连接关闭后退出
func (c *UserConn) writeLoop() {
	ticker := time.NewTicker(c.opts.pingPeriod())
	defer func() {
		ticker.Stop()
		if rec := recover(); rec != nil {
			zap.L().Error("ws write loop panic", zap.Any("recover", rec), zap.String("conn", c.id))
		}
		_ = c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				zap.L().Warn("ws write", zap.String("conn", c.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
