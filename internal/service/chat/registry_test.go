package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryJoinLeave(t *testing.T) {
	r := NewMemoryRegistry()
	a1, a2, b := newFakeConn(), newFakeConn(), newFakeConn()
	r.Register(a1, Identity{UserID: "a"})
	r.Register(a2, Identity{UserID: "a"})
	r.Register(b, Identity{UserID: "b"})

	topic := WorkspaceTopic("w1")
	assert.True(t, r.Join(a1.ID(), topic))
	assert.False(t, r.Join(a1.ID(), topic), "second join is a no-op")
	assert.True(t, r.Join(a2.ID(), topic))
	assert.True(t, r.Join(b.ID(), topic))
	assert.False(t, r.Join("unknown", topic))

	assert.Len(t, r.ConnectionsIn(topic), 3)
	assert.Equal(t, []string{"a", "b"}, r.UsersIn(topic))
	assert.Len(t, r.ConnectionsFor("a"), 2)
	assert.True(t, r.Joined(a1.ID(), topic))

	assert.True(t, r.Leave(a1.ID(), topic))
	assert.False(t, r.Leave(a1.ID(), topic))
	assert.True(t, r.UserInTopic(topic, "a"), "a2 still in topic")

	assert.True(t, r.Leave(a2.ID(), topic))
	assert.False(t, r.UserInTopic(topic, "a"))

	assert.True(t, r.Leave(b.ID(), topic))
	_, topics := r.Stats()
	assert.Equal(t, 0, topics, "empty topics are removed")
}

func TestRegistryDisconnectOnlyDropsThatConnection(t *testing.T) {
	r := NewMemoryRegistry()
	a1, a2 := newFakeConn(), newFakeConn()
	r.Register(a1, Identity{UserID: "a"})
	r.Register(a2, Identity{UserID: "a"})
	r.Join(a1.ID(), RoomTopic("a-b"))
	r.Join(a1.ID(), WorkspaceTopic("w1"))
	r.Join(a2.ID(), WorkspaceTopic("w1"))

	left := r.OnDisconnect(a1.ID())
	assert.Equal(t, []string{RoomTopic("a-b"), WorkspaceTopic("w1")}, left)
	_, ok := r.Session(a1.ID())
	assert.False(t, ok)

	require.Len(t, r.ConnectionsFor("a"), 1)
	assert.Equal(t, a2.ID(), r.ConnectionsFor("a")[0].ID())
	assert.True(t, r.UserInTopic(WorkspaceTopic("w1"), "a"))
	assert.Empty(t, r.ConnectionsIn(RoomTopic("a-b")))

	assert.Nil(t, r.OnDisconnect(a1.ID()))
	r.OnDisconnect(a2.ID())
	conns, topics := r.Stats()
	assert.Zero(t, conns)
	assert.Zero(t, topics)
	assert.Empty(t, r.ConnectionsFor("a"))
}

func TestRegistryReRegisterClearsTopics(t *testing.T) {
	r := NewMemoryRegistry()
	c := newFakeConn()
	r.Register(c, Identity{UserID: "a"})
	r.Join(c.ID(), WorkspaceTopic("w1"))

	sess := r.Register(c, Identity{UserID: "a", Name: "renamed"})
	assert.Equal(t, "renamed", sess.Name)
	assert.False(t, r.Joined(c.ID(), WorkspaceTopic("w1")))
	assert.Len(t, r.ConnectionsFor("a"), 1)
}

func TestDedupeAndExcept(t *testing.T) {
	a, b, c := newFakeConn(), newFakeConn(), newFakeConn()
	out := dedupe([]Conn{a, b}, []Conn{b, c, a})
	require.Len(t, out, 3)
	assert.Equal(t, []string{a.ID(), b.ID(), c.ID()}, []string{out[0].ID(), out[1].ID(), out[2].ID()})

	rest := except(out, b.ID())
	assert.Len(t, rest, 2)
	assert.Len(t, out, 3, "except must not modify its input")
}

func TestDeliverSkipsFailedConnections(t *testing.T) {
	a, b := newFakeConn(), newFakeConn()
	_ = b.Close()
	sent := deliver([]Conn{a, b}, EventWelcome, WelcomeEvent{Message: "hi"})
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, a.count(EventWelcome))
}
