package chat

import (
	"sync"
	"testing"

	"umazing_chat_server/internal/dao/mysql/mysqltest"
	"umazing_chat_server/internal/dao/mysql/repository"
	myredis "umazing_chat_server/internal/dao/redis"
	"umazing_chat_server/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type sentFrame struct {
	Event   string
	Payload any
}

// fakeConn 记录推送的事件，不经过网络
type fakeConn struct {
	id string

	mu     sync.Mutex
	frames []sentFrame
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{id: uuid.NewString()}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	c.frames = append(c.frames, sentFrame{Event: event, Payload: payload})
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// events 指定事件名的全部载荷
func (c *fakeConn) events(event string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []any
	for _, f := range c.frames {
		if f.Event == event {
			out = append(out, f.Payload)
		}
	}
	return out
}

func (c *fakeConn) count(event string) int {
	return len(c.events(event))
}

func (c *fakeConn) last(event string) any {
	evs := c.events(event)
	if len(evs) == 0 {
		return nil
	}
	return evs[len(evs)-1]
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

type harness struct {
	repos      *repository.Repositories
	registry   *MemoryRegistry
	presence   *presenceMirror
	dm         *DMEngine
	workspace  *WorkspaceEngine
	receipts   *Reconciler
	typing     *TypingRelay
	dispatcher *Dispatcher
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithCache(t, nil)
}

func newHarnessWithCache(t *testing.T, cache myredis.AsyncCacheService) *harness {
	t.Helper()
	repos := mysqltest.NewRepositories(t)
	registry := NewMemoryRegistry()
	presence := newPresenceMirror(registry, cache)
	receipts := NewReconciler(repos, registry)
	dm := NewDMEngine(repos, registry, presence)
	ws := NewWorkspaceEngine(repos, registry, presence, receipts)
	typing := NewTypingRelay(registry)
	return &harness{
		repos:      repos,
		registry:   registry,
		presence:   presence,
		dm:         dm,
		workspace:  ws,
		receipts:   receipts,
		typing:     typing,
		dispatcher: NewDispatcher(dm, ws, receipts, typing),
	}
}

func (h *harness) user(t *testing.T, id string) Identity {
	t.Helper()
	u := &model.UserInfo{Uuid: id, Name: "user" + id, Email: id + "@example.com", RawPassword: "secret123"}
	require.NoError(t, h.repos.User.Create(u))
	return Identity{UserID: u.Uuid, Name: u.Name, Email: u.Email}
}

func (h *harness) connect(id Identity) (*Session, *fakeConn) {
	conn := newFakeConn()
	return h.registry.Register(conn, id), conn
}

func (h *harness) workspaceWith(t *testing.T, wsID, typ string, members ...Identity) {
	t.Helper()
	require.NoError(t, h.repos.Workspace.Create(&model.Workspace{
		Uuid: wsID, Name: "ws " + wsID, Type: typ, CreatedBy: members[0].UserID,
	}))
	for i, m := range members {
		role := model.MemberRoleMember
		if i == 0 {
			role = model.MemberRoleAdmin
		}
		require.NoError(t, h.repos.WorkspaceMember.Create(&model.WorkspaceMember{
			Uuid: uuid.NewString(), WorkspaceUuid: wsID, UserUuid: m.UserID, Role: role,
		}))
	}
}
