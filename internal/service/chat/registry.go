package chat

import (
	"sort"
	"sync"
	"time"

	"umazing_chat_server/internal/dto/respond"
)

// topic 前缀
const (
	roomTopicPrefix      = "room:"
	workspaceTopicPrefix = "workspace:"
)

// RoomTopic 私聊房间的 topic
func RoomTopic(roomID string) string { return roomTopicPrefix + roomID }

// WorkspaceTopic 工作区的 topic
func WorkspaceTopic(workspaceID string) string { return workspaceTopicPrefix + workspaceID }

// Conn 一条可推送事件的连接
type Conn interface {
	ID() string
	// Send 不阻塞；发送缓冲区满或连接已关闭时返回错误
	Send(event string, payload any) error
	Close() error
}

// Identity 通过认证的用户身份
type Identity struct {
	UserID string
	Name   string
	Email  string
	Avatar string
}

// Brief 转为对外展示的用户资料
func (id Identity) Brief() respond.UserBrief {
	return respond.UserBrief{Id: id.UserID, Name: id.Name, Email: id.Email, Avatar: id.Avatar}
}

// Session 一条连接的会话，只由认证流程产生，不入库
type Session struct {
	Identity
	Conn        Conn
	ConnectedAt time.Time
}

// Registry 连接注册表：连接 -> 会话，topic -> 连接，用户 -> 连接
type Registry interface {
	// Register 同一连接重复注册时替换旧会话并清空其 topic
	Register(conn Conn, id Identity) *Session
	Session(connID string) (*Session, bool)
	// Join 已加入时返回 false
	Join(connID, topic string) bool
	// Leave 未加入时返回 false；topic 为空时删除
	Leave(connID, topic string) bool
	// Joined 连接是否在 topic 中
	Joined(connID, topic string) bool
	ConnectionsFor(userID string) []Conn
	ConnectionsIn(topic string) []Conn
	UserInTopic(topic, userID string) bool
	// UsersIn topic 中在线的用户，去重
	UsersIn(topic string) []string
	// OnDisconnect 从所有 topic 中移除连接并删除会话，返回离开的 topic
	OnDisconnect(connID string) []string
}

type registryEntry struct {
	session *Session
	topics  map[string]struct{}
}

// MemoryRegistry 进程内 Registry
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry  // connID -> 会话
	topics  map[string]map[string]Conn // topic -> connID -> 连接
	users   map[string]map[string]Conn // userID -> connID -> 连接
}

// NewMemoryRegistry 创建空注册表
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries: make(map[string]*registryEntry),
		topics:  make(map[string]map[string]Conn),
		users:   make(map[string]map[string]Conn),
	}
}

func (r *MemoryRegistry) Register(conn Conn, id Identity) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	if old, ok := r.entries[connID]; ok {
		r.removeLocked(connID, old)
	}
	sess := &Session{Identity: id, Conn: conn, ConnectedAt: time.Now()}
	r.entries[connID] = &registryEntry{session: sess, topics: make(map[string]struct{})}
	conns, ok := r.users[id.UserID]
	if !ok {
		conns = make(map[string]Conn)
		r.users[id.UserID] = conns
	}
	conns[connID] = conn
	return sess
}

func (r *MemoryRegistry) Session(connID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[connID]
	if !ok {
		return nil, false
	}
	return entry.session, true
}

func (r *MemoryRegistry) Join(connID, topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[connID]
	if !ok {
		return false
	}
	if _, joined := entry.topics[topic]; joined {
		return false
	}
	entry.topics[topic] = struct{}{}
	conns, ok := r.topics[topic]
	if !ok {
		conns = make(map[string]Conn)
		r.topics[topic] = conns
	}
	conns[connID] = entry.session.Conn
	return true
}

func (r *MemoryRegistry) Leave(connID, topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[connID]
	if !ok {
		return false
	}
	if _, joined := entry.topics[topic]; !joined {
		return false
	}
	delete(entry.topics, topic)
	r.dropFromTopicLocked(topic, connID)
	return true
}

func (r *MemoryRegistry) Joined(connID, topic string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[connID]
	if !ok {
		return false
	}
	_, joined := entry.topics[topic]
	return joined
}

func (r *MemoryRegistry) ConnectionsFor(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return connSlice(r.users[userID])
}

func (r *MemoryRegistry) ConnectionsIn(topic string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return connSlice(r.topics[topic])
}

func (r *MemoryRegistry) UserInTopic(topic, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for connID := range r.users[userID] {
		if _, joined := r.entries[connID].topics[topic]; joined {
			return true
		}
	}
	return false
}

func (r *MemoryRegistry) UsersIn(topic string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	users := make([]string, 0)
	for connID := range r.topics[topic] {
		userID := r.entries[connID].session.UserID
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		users = append(users, userID)
	}
	sort.Strings(users)
	return users
}

func (r *MemoryRegistry) OnDisconnect(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[connID]
	if !ok {
		return nil
	}
	return r.removeLocked(connID, entry)
}

// removeLocked 只遍历该连接加入过的 topic
func (r *MemoryRegistry) removeLocked(connID string, entry *registryEntry) []string {
	left := make([]string, 0, len(entry.topics))
	for topic := range entry.topics {
		r.dropFromTopicLocked(topic, connID)
		left = append(left, topic)
	}
	sort.Strings(left)

	userID := entry.session.UserID
	if conns, ok := r.users[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.users, userID)
		}
	}
	delete(r.entries, connID)
	return left
}

func (r *MemoryRegistry) dropFromTopicLocked(topic, connID string) {
	conns, ok := r.topics[topic]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(r.topics, topic)
	}
}

// Stats 连接数与非空 topic 数
func (r *MemoryRegistry) Stats() (connections, topics int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), len(r.topics)
}

func connSlice(m map[string]Conn) []Conn {
	out := make([]Conn, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

var _ Registry = (*MemoryRegistry)(nil)
