package chat

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"umazing_chat_server/internal/config"
	"umazing_chat_server/internal/dao/mysql/repository"
	myredis "umazing_chat_server/internal/dao/redis"
	"umazing_chat_server/pkg/errorx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// dispatchTimeout 单帧处理的超时
const dispatchTimeout = 10 * time.Second

// ChatServer 聊天服务聚合，统一管理各组件的生命周期
type ChatServer struct {
	Registry   Registry
	Auth       *Authenticator
	DM         *DMEngine
	Workspace  *WorkspaceEngine
	Receipts   *Reconciler
	Typing     *TypingRelay
	Dispatcher *Dispatcher
	Broker     Broker

	presence *presenceMirror
	upgrader websocket.Upgrader
	connOpts ConnOptions
	cancel   context.CancelFunc
}

// ChatServerConfig 依赖注入
type ChatServerConfig struct {
	Repos *repository.Repositories
	// Cache 为 nil 时不镜像在线状态
	Cache myredis.AsyncCacheService
	Ws    config.WsConfig
	Mode  string
	// Kafka 仅 Mode 为 kafka 时使用
	Kafka KafkaTransport
	// Registry 为 nil 时使用 MemoryRegistry
	Registry Registry
}

// NewChatServer 按配置组装各组件
func NewChatServer(cfg ChatServerConfig) (*ChatServer, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = NewMemoryRegistry()
	}
	presence := newPresenceMirror(registry, cfg.Cache)
	receipts := NewReconciler(cfg.Repos, registry)
	dm := NewDMEngine(cfg.Repos, registry, presence)
	workspace := NewWorkspaceEngine(cfg.Repos, registry, presence, receipts)
	typing := NewTypingRelay(registry)
	dispatcher := NewDispatcher(dm, workspace, receipts, typing)

	cs := &ChatServer{
		Registry:   registry,
		Auth:       NewAuthenticator(cfg.Repos.User),
		DM:         dm,
		Workspace:  workspace,
		Receipts:   receipts,
		Typing:     typing,
		Dispatcher: dispatcher,
		presence:   presence,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.Ws.ReadBufferSize,
			WriteBufferSize: cfg.Ws.WriteBufferSize,
			// 跨域由 gin cors 中间件统一处理
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connOpts: ConnOptions{
			SendBufferSize: cfg.Ws.SendBufferSize,
			MaxMessageSize: cfg.Ws.MaxMessageSize,
			WriteWait:      cfg.Ws.WriteWait * time.Second,
			PongWait:       cfg.Ws.PongWait * time.Second,
		},
	}

	switch cfg.Mode {
	case "", ModeChannel:
		cs.Broker = NewChannelBroker(dispatcher, dispatchTimeout)
	case ModeKafka:
		if cfg.Kafka == nil {
			return nil, fmt.Errorf("kafka message mode requires a kafka transport")
		}
		cs.Broker = NewKafkaBroker(cfg.Kafka, registry, dispatcher, dispatchTimeout)
	default:
		return nil, fmt.Errorf("unsupported message mode %q", cfg.Mode)
	}
	return cs, nil
}

// Start 清理残留在线状态并启动 Broker 消费循环
func (cs *ChatServer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	cs.cancel = cancel
	if err := cs.presence.reset(ctx); err != nil {
		zap.L().Warn("reset presence mirror", zap.Error(err))
	}
	go cs.Broker.Start(ctx)
}

// Close 停止消费并释放 Broker 资源
func (cs *ChatServer) Close() {
	if cs.cancel != nil {
		cs.cancel()
	}
	cs.Broker.Close()
}

// ServeWS 认证、升级、注册，然后进入读循环直到连接断开
// 认证失败时返回 401，不升级
func (cs *ChatServer) ServeWS(w http.ResponseWriter, r *http.Request) {
	identity, err := cs.Auth.Authenticate(r)
	if err != nil {
		if errorx.GetCode(err) != errorx.CodeUnauthorized {
			zap.L().Error("ws authenticate", zap.Error(err))
		}
		http.Error(w, errorx.GetMsg(err), http.StatusUnauthorized)
		return
	}

	wsConn, err := cs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已写回错误响应
		zap.L().Warn("ws upgrade", zap.Error(err))
		return
	}
	conn := NewUserConn(wsConn, cs.connOpts)

	// 先注册再进入读循环，首帧到达时会话一定存在
	sess := cs.Registry.Register(conn, identity)
	go conn.writeLoop()
	if err := conn.Send(EventWelcome, WelcomeEvent{Message: "Welcome user " + identity.Email + "!"}); err != nil {
		zap.L().Warn("send welcome", zap.String("conn", conn.ID()), zap.Error(err))
	}
	zap.L().Info("ws connected", zap.String("user", identity.UserID), zap.String("conn", conn.ID()))

	conn.readLoop(sess, cs.Broker)
	cs.disconnect(sess)
}

// disconnect 只清理断开的这条连接，同一用户的其他连接不受影响
func (cs *ChatServer) disconnect(sess *Session) {
	topics := cs.Registry.OnDisconnect(sess.Conn.ID())
	for _, topic := range topics {
		cs.presence.offlineIfGone(sess.UserID, topic)
	}
	zap.L().Info("ws disconnected",
		zap.String("user", sess.UserID),
		zap.String("conn", sess.Conn.ID()),
		zap.Int("topics", len(topics)))
}
