// Package handler 提供 HTTP 请求处理器
// 本文件处理私聊房间相关的 API 请求
package handler

import (
	"umazing_chat_server/internal/dto/request"
	"umazing_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatRoomHandler 私聊房间请求处理器
type ChatRoomHandler struct {
	chatRoomSvc service.ChatRoomService
}

func NewChatRoomHandler(chatRoomSvc service.ChatRoomService) *ChatRoomHandler {
	return &ChatRoomHandler{chatRoomSvc: chatRoomSvc}
}

// GetChatRoomList 我的私聊房间
// GET /chat/getChatRoomList
// 响应: []respond.ChatRoomRespond
func (h *ChatRoomHandler) GetChatRoomList(c *gin.Context) {
	data, err := h.chatRoomSvc.GetChatRoomList(currentUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetChatRoomMessageList 房间历史消息
// GET /chat/getChatRoomMessageList?roomId=xxx&pageNo=1&pageSize=20
// 响应: respond.MessagePageRespond
func (h *ChatRoomHandler) GetChatRoomMessageList(c *gin.Context) {
	var req request.GetRoomMessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.chatRoomSvc.GetChatRoomMessageList(currentUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetUnreadCount 私聊未读总数
// GET /chat/getUnreadCount
func (h *ChatRoomHandler) GetUnreadCount(c *gin.Context) {
	data, err := h.chatRoomSvc.GetUnreadCount(currentUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
