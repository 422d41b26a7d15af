package model

import (
	"strings"

	"gorm.io/gorm"
)

// RoomIDSeparator 私聊房间 ID 中两个用户 ID 的分隔符
const RoomIDSeparator = "-"

// ChatRoom 私聊房间，对应 chat_room 表
// 每对用户只有一行：Uuid 由两个用户 ID 按字典序拼接，首条消息时惰性创建
type ChatRoom struct {
	gorm.Model

	Uuid      string `gorm:"column:uuid;uniqueIndex;type:varchar(80);not null;comment:房间id"`
	UserOneId string `gorm:"column:user_one_id;index;type:varchar(32);not null;comment:字典序较小的用户"`
	UserTwoId string `gorm:"column:user_two_id;index;type:varchar(32);not null;comment:字典序较大的用户"`
}

func (ChatRoom) TableName() string {
	return "chat_room"
}

// RoomID 计算 (a, b) 的房间 ID，RoomID(a, b) == RoomID(b, a)
func RoomID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + RoomIDSeparator + b
}

// ParseRoomID 拆出房间 ID 中的两个用户 ID
// 格式非法（非恰好两段、有空段、两段相同）时 ok 为 false
func ParseRoomID(roomID string) (userOne, userTwo string, ok bool) {
	parts := strings.Split(roomID, RoomIDSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || parts[0] == parts[1] {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// NewChatRoom 按规范顺序构造房间
func NewChatRoom(a, b string) *ChatRoom {
	if b < a {
		a, b = b, a
	}
	return &ChatRoom{Uuid: a + RoomIDSeparator + b, UserOneId: a, UserTwoId: b}
}

// HasParticipant 用户是否是房间的一方
func (r *ChatRoom) HasParticipant(userID string) bool {
	return r.UserOneId == userID || r.UserTwoId == userID
}

// Peer 返回房间中的另一方
func (r *ChatRoom) Peer(userID string) string {
	if r.UserOneId == userID {
		return r.UserTwoId
	}
	return r.UserOneId
}
