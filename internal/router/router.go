// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"umazing_chat_server/internal/handler"
	"umazing_chat_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 持有 Handler 聚合对象
type Router struct {
	handlers *handler.Handlers
}

func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	// 公开接口
	rt.RegisterAuthRoutes(r)
	rt.RegisterWebSocketRoutes(r) // WebSocket 自己校验 token

	authed := r.Group("")
	authed.Use(middleware.JWTAuth())
	rt.RegisterUserRoutes(authed)
	rt.RegisterChatRoomRoutes(authed)
	rt.RegisterWorkspaceRoutes(authed)
}
