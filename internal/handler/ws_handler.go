// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接入口
package handler

import (
	"umazing_chat_server/internal/service/chat"

	"github.com/gin-gonic/gin"
)

// WsHandler WebSocket 入口
type WsHandler struct {
	chat *chat.ChatServer
}

func NewWsHandler(chatServer *chat.ChatServer) *WsHandler {
	return &WsHandler{chat: chatServer}
}

// Connect 升级 HTTP 连接为 WebSocket
// GET /wss?token=<access token>，也可以使用 Authorization: Bearer
// 认证失败返回 401，不升级；连接建立后阻塞到连接断开
func (h *WsHandler) Connect(c *gin.Context) {
	h.chat.ServeWS(c.Writer, c.Request)
}
