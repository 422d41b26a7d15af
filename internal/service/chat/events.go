package chat

import (
	"encoding/json"
	"time"

	"umazing_chat_server/internal/dto/respond"
)

// 客户端事件
const (
	EventSendMessage    = "sendMessage"
	EventJoinChatRoom   = "joinChatRoom"
	EventLeaveChatRoom  = "leaveChatRoom"
	EventJoinWorkspace  = "joinWorkspace"
	EventLeaveWorkspace = "leaveWorkspace"
	EventTyping         = "typing"
	EventStopTyping     = "stopTyping"
	EventMessageRead    = "messageRead" // 同名事件也由服务端推送
)

// 服务端事件
const (
	EventWelcome          = "welcome"
	EventReceiveMessage   = "receiveMessage"
	EventNewMessage       = "newMessage"
	EventChatRoomUpdated  = "chatRoomUpdated"
	EventUserTyping       = "userTyping"
	EventUserStopTyping   = "userStopTyping"
	EventUserMessageRead  = "userMessageRead"
	EventError            = "error"
	EventSendMessageError = "sendMessage_Error"
)

// Frame 线上帧 {"event": "...", "data": {...}}
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// encodeFrame 序列化一帧服务端事件
func encodeFrame(event string, payload any) ([]byte, error) {
	return json.Marshal(outFrame{Event: event, Data: payload})
}

// ==================== 客户端载荷 ====================

// SendMessagePayload receiverId 与 workspaceId 二选一
type SendMessagePayload struct {
	ReceiverId  string `json:"receiverId"`
	WorkspaceId string `json:"workspaceId"`
	Content     string `json:"content"`
}

type RoomPayload struct {
	RoomId string `json:"roomId"`
}

type WorkspacePayload struct {
	WorkspaceId string `json:"workspaceId"`
}

// TypingPayload roomId 与 workspaceId 二选一
type TypingPayload struct {
	RoomId      string `json:"roomId"`
	WorkspaceId string `json:"workspaceId"`
}

// ReadPayload 工作区不带 messageId 时表示全部已读
type ReadPayload struct {
	RoomId      string `json:"roomId"`
	WorkspaceId string `json:"workspaceId"`
	MessageId   string `json:"messageId"`
}

// ==================== 服务端载荷 ====================

type WelcomeEvent struct {
	Message string `json:"message"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

// ReceiveMessageEvent 私聊带 roomId，工作区带 workspaceId
type ReceiveMessageEvent struct {
	RoomId      string                 `json:"roomId,omitempty"`
	WorkspaceId string                 `json:"workspaceId,omitempty"`
	Message     respond.MessageRespond `json:"message"`
}

// RoomSummaryEvent newMessage 与 chatRoomUpdated 共用，unreadMessages 按接收方计算
type RoomSummaryEvent struct {
	RoomId         string                  `json:"roomId"`
	LastMessage    *respond.MessageRespond `json:"lastMessage"`
	UnreadMessages int64                   `json:"unreadMessages"`
}

// RoomMessageReadEvent 私聊单条消息被对方实时读到
type RoomMessageReadEvent struct {
	RoomId    string `json:"roomId"`
	MessageId string `json:"messageId"`
	ReaderId  string `json:"readerId"`
}

// WorkspaceMessageReadEvent 工作区消息回执
type WorkspaceMessageReadEvent struct {
	WorkspaceId string            `json:"workspaceId"`
	MessageId   string            `json:"messageId"`
	Reader      respond.UserBrief `json:"reader"`
	ReadAt      time.Time         `json:"readAt"`
	AllRead     bool              `json:"allRead"`
}

// UserMessageReadEvent 某用户把房间/工作区全部标为已读
type UserMessageReadEvent struct {
	RoomId      string `json:"roomId,omitempty"`
	WorkspaceId string `json:"workspaceId,omitempty"`
	UserId      string `json:"userId"`
}

type TypingEvent struct {
	RoomId      string `json:"roomId,omitempty"`
	WorkspaceId string `json:"workspaceId,omitempty"`
	UserId      string `json:"userId"`
	Name        string `json:"name"`
}
