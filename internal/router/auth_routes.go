// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由（无需认证）
func (rt *Router) RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/register", rt.handlers.User.Register)
	r.POST("/login", rt.handlers.User.Login)

	authGroup := r.Group("/auth")
	{
		// 使用 Refresh Token 换取新的双 Token
		authGroup.POST("/refresh", rt.handlers.Auth.RefreshToken)
	}
}
