package respond

// ChatRoomRespond 房间列表项
// 使用位置:
//   - internal/service/chatroom/service.go: GetChatRoomList
type ChatRoomRespond struct {
	RoomId         string          `json:"roomId"`
	User           UserBrief       `json:"user"` // 房间对方
	LastMessage    *MessageRespond `json:"lastMessage"`
	UnreadMessages int64           `json:"unreadMessages"`
}
