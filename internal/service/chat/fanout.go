package chat

import (
	"context"
	"sort"
	"sync"

	myredis "umazing_chat_server/internal/dao/redis"

	"go.uber.org/zap"
)

// deliver 向每个连接推送同一事件；单个连接失败只记日志，不影响其他连接
func deliver(conns []Conn, event string, payload any) int {
	sent := 0
	for _, c := range conns {
		if err := c.Send(event, payload); err != nil {
			zap.L().Warn("deliver event failed",
				zap.String("event", event),
				zap.String("conn", c.ID()),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// dedupe 合并多组连接，按连接 ID 去重，保持首次出现的顺序
func dedupe(groups ...[]Conn) []Conn {
	seen := make(map[string]struct{})
	var out []Conn
	for _, group := range groups {
		for _, c := range group {
			if _, ok := seen[c.ID()]; ok {
				continue
			}
			seen[c.ID()] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// except 去掉指定连接
func except(conns []Conn, connID string) []Conn {
	out := conns[:0:0]
	for _, c := range conns {
		if c.ID() != connID {
			out = append(out, c)
		}
	}
	return out
}

// presenceMirror 把 Registry 的 topic 变化异步写进 Redis
// 异步任务不携带"上线/下线"的意图，执行时按注册表的当前状态写入；
// mu 保证读注册表和写 Redis 作为一个整体执行，最后执行的任务总能写入最终状态
type presenceMirror struct {
	registry Registry
	store    *myredis.PresenceStore
	submit   func(func())
	mu       sync.Mutex
}

func newPresenceMirror(registry Registry, cache myredis.AsyncCacheService) *presenceMirror {
	m := &presenceMirror{registry: registry, submit: func(f func()) { f() }}
	if cache != nil {
		m.store = myredis.NewPresenceStore(cache)
		m.submit = cache.SubmitTask
	}
	return m
}

// join 加入 topic 并镜像，返回是否新加入
func (m *presenceMirror) join(sess *Session, topic string) bool {
	if !m.registry.Join(sess.Conn.ID(), topic) {
		return false
	}
	m.schedule(topic, sess.UserID)
	return true
}

// leave 离开 topic；用户在该 topic 已没有连接时才从镜像中移除
func (m *presenceMirror) leave(sess *Session, topic string) bool {
	if !m.registry.Leave(sess.Conn.ID(), topic) {
		return false
	}
	m.offlineIfGone(sess.UserID, topic)
	return true
}

func (m *presenceMirror) offlineIfGone(userID, topic string) {
	if m.registry.UserInTopic(topic, userID) {
		return
	}
	m.schedule(topic, userID)
}

func (m *presenceMirror) schedule(topic, userID string) {
	if m.store == nil {
		return
	}
	m.submit(func() { m.sync(context.Background(), topic, userID) })
}

// sync 按注册表当前状态写入镜像
func (m *presenceMirror) sync(ctx context.Context, topic, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registry.UserInTopic(topic, userID) {
		if err := m.store.Online(ctx, topic, userID); err != nil {
			zap.L().Warn("presence online", zap.String("topic", topic), zap.Error(err))
		}
		return
	}
	if err := m.store.Offline(ctx, topic, userID); err != nil {
		zap.L().Warn("presence offline", zap.String("topic", topic), zap.Error(err))
	}
}

// members 优先读 Redis 镜像，没有缓存时读本进程注册表
func (m *presenceMirror) members(ctx context.Context, topic string) ([]string, error) {
	if m.store == nil {
		return m.registry.UsersIn(topic), nil
	}
	users, err := m.store.Members(ctx, topic)
	if err != nil {
		return nil, err
	}
	sort.Strings(users)
	return users, nil
}

// reset 启动时清理上次运行残留的镜像
func (m *presenceMirror) reset(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	return m.store.Reset(ctx)
}
