package model

import (
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// 消息类型
const (
	MessageTypeDM        = "dm"
	MessageTypeWorkspace = "workspace"
)

// 消息 ID 前缀，按类型区分
const (
	dmMessagePrefix        = "msg-"
	workspaceMessagePrefix = "workspace-msg-"
)

var ErrInvalidMessageTarget = errors.New("message must target either a room or a workspace")

// Message 消息，对应 message 表
// 私聊消息填写 RoomId + ReceiveId；工作区消息只填写 WorkspaceId，两者互斥
type Message struct {
	gorm.Model

	Uuid        string `gorm:"column:uuid;uniqueIndex;type:varchar(64);not null;comment:消息id"`
	Type        string `gorm:"column:type;index;type:varchar(16);not null;comment:dm/workspace"`
	SendId      string `gorm:"column:send_id;index;type:varchar(32);not null;comment:发送者uuid"`
	RoomId      string `gorm:"column:room_id;index;type:varchar(80);comment:私聊房间id"`
	ReceiveId   string `gorm:"column:receive_id;index;type:varchar(32);comment:私聊接收者uuid"`
	WorkspaceId string `gorm:"column:workspace_id;index;type:varchar(32);comment:工作区id"`
	Content     string `gorm:"column:content;type:TEXT;comment:消息内容"`

	// Read 仅私聊消息使用；工作区消息的已读状态见 MessageRead
	Read bool `gorm:"column:is_read;not null;default:false;comment:是否已读"`
}

func (Message) TableName() string {
	return "message"
}

// BeforeCreate 校验私聊字段与工作区字段互斥
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	isDM := m.RoomId != "" || m.ReceiveId != ""
	isWorkspace := m.WorkspaceId != ""
	switch {
	case m.Type == MessageTypeDM && isDM && !isWorkspace && m.RoomId != "" && m.ReceiveId != "":
		return nil
	case m.Type == MessageTypeWorkspace && isWorkspace && !isDM:
		return nil
	}
	return ErrInvalidMessageTarget
}

// NewDirectMessage 构造一条未读私聊消息
func NewDirectMessage(roomID, senderID, receiverID, content string) *Message {
	return &Message{
		Uuid:      dmMessagePrefix + ulid.Make().String(),
		Type:      MessageTypeDM,
		SendId:    senderID,
		RoomId:    roomID,
		ReceiveId: receiverID,
		Content:   content,
	}
}

// NewWorkspaceMessage 构造一条工作区消息
func NewWorkspaceMessage(workspaceID, senderID, content string) *Message {
	return &Message{
		Uuid:        workspaceMessagePrefix + ulid.Make().String(),
		Type:        MessageTypeWorkspace,
		SendId:      senderID,
		WorkspaceId: workspaceID,
		Content:     content,
	}
}

// MessageRead 工作区消息已读回执，对应 message_read 表
// Uuid = "{messageId}-{userId}"；(message_uuid, user_uuid) 唯一，重复标记不产生新行
type MessageRead struct {
	gorm.Model

	Uuid        string    `gorm:"column:uuid;uniqueIndex;type:varchar(100);not null;comment:messageId-userId"`
	MessageUuid string    `gorm:"column:message_uuid;uniqueIndex:uk_message_user,priority:1;type:varchar(64);not null;comment:消息id"`
	UserUuid    string    `gorm:"column:user_uuid;uniqueIndex:uk_message_user,priority:2;index;type:varchar(32);not null;comment:读者id"`
	ReadAt      time.Time `gorm:"column:read_at;not null;comment:首次已读时间"`
}

func (MessageRead) TableName() string {
	return "message_read"
}

// ReceiptID 已读回执 ID
func ReceiptID(messageID, userID string) string {
	return messageID + "-" + userID
}

// NewMessageRead 构造一条回执
func NewMessageRead(messageID, userID string, readAt time.Time) *MessageRead {
	return &MessageRead{
		Uuid:        ReceiptID(messageID, userID),
		MessageUuid: messageID,
		UserUuid:    userID,
		ReadAt:      readAt,
	}
}
