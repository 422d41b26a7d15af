package request

// GetRoomMessageListRequest 私聊历史分页请求
// 使用位置:
//   - internal/handler/chatroom_handler.go: GetChatRoomMessageList
type GetRoomMessageListRequest struct {
	RoomId string `json:"roomId" form:"roomId" binding:"required"`
	PageRequest
}
