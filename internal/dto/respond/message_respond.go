package respond

import (
	"time"

	"umazing_chat_server/internal/model"
)

// MessageRespond 消息视图，WebSocket 事件与历史接口共用
// 私聊消息带 read，工作区消息带 allRead
type MessageRespond struct {
	Id          string     `json:"id"`
	Type        string     `json:"type"`
	SenderId    string     `json:"senderId"`
	Sender      *UserBrief `json:"sender,omitempty"`
	RoomId      string     `json:"roomId,omitempty"`
	ReceiverId  string     `json:"receiverId,omitempty"`
	WorkspaceId string     `json:"workspaceId,omitempty"`
	Content     string     `json:"content"`
	Read        *bool      `json:"read,omitempty"`
	AllRead     *bool      `json:"allRead,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewMessageRespond sender 可以为 nil
func NewMessageRespond(m *model.Message, sender *UserBrief) MessageRespond {
	rsp := MessageRespond{
		Id:          m.Uuid,
		Type:        m.Type,
		SenderId:    m.SendId,
		Sender:      sender,
		RoomId:      m.RoomId,
		ReceiverId:  m.ReceiveId,
		WorkspaceId: m.WorkspaceId,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
	if m.Type == model.MessageTypeDM {
		read := m.Read
		rsp.Read = &read
	}
	return rsp
}

// WithAllRead 设置工作区消息的全员已读标记
func (m MessageRespond) WithAllRead(allRead bool) MessageRespond {
	m.AllRead = &allRead
	return m
}

// MessagePageRespond 历史消息分页，按时间倒序
// 使用位置:
//   - internal/service/chatroom/service.go: GetChatRoomMessageList
//   - internal/service/workspace/service.go: GetWorkspaceMessageList
type MessagePageRespond struct {
	List     []MessageRespond `json:"list"`
	Total    int64            `json:"total"`
	PageNo   int              `json:"pageNo"`
	PageSize int              `json:"pageSize"`
}

// UnreadCountRespond 未读数
type UnreadCountRespond struct {
	Count int64 `json:"count"`
}
