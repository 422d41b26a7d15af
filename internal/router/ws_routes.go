// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 和私聊房间相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 入口
// 请求示例: ws://host:port/wss?token=<access token>
func (rt *Router) RegisterWebSocketRoutes(r *gin.Engine) {
	r.GET("/wss", rt.handlers.Ws.Connect)
}

// RegisterChatRoomRoutes 注册私聊房间路由（需要认证）
func (rt *Router) RegisterChatRoomRoutes(rg *gin.RouterGroup) {
	chatGroup := rg.Group("/chat")
	{
		chatGroup.GET("/getChatRoomList", rt.handlers.ChatRoom.GetChatRoomList)
		chatGroup.GET("/getChatRoomMessageList", rt.handlers.ChatRoom.GetChatRoomMessageList)
		chatGroup.GET("/getUnreadCount", rt.handlers.ChatRoom.GetUnreadCount)
	}
}
