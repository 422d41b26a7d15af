package chat

import "context"

// TypingRelay 转发正在输入状态，不落库
type TypingRelay struct {
	registry Registry
}

func NewTypingRelay(registry Registry) *TypingRelay {
	return &TypingRelay{registry: registry}
}

// Relay 把 typing/stopTyping 转发给 topic 中除发送连接外的所有连接
// 房间要求是参与者，工作区要求发送连接已加入；不满足时静默丢弃，返回送达的连接数
func (t *TypingRelay) Relay(ctx context.Context, sess *Session, event string, p TypingPayload) int {
	out := EventUserTyping
	if event == EventStopTyping {
		out = EventUserStopTyping
	}

	var topic string
	payload := TypingEvent{UserId: sess.UserID, Name: sess.Name}
	switch {
	case p.RoomId != "":
		roomID, _, _, err := participants(p.RoomId, sess.UserID)
		if err != nil {
			return 0
		}
		topic = RoomTopic(roomID)
		payload.RoomId = roomID
	case p.WorkspaceId != "":
		topic = WorkspaceTopic(p.WorkspaceId)
		if !t.registry.Joined(sess.Conn.ID(), topic) {
			return 0
		}
		payload.WorkspaceId = p.WorkspaceId
	default:
		return 0
	}
	return deliver(except(t.registry.ConnectionsIn(topic), sess.Conn.ID()), out, payload)
}
