package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户相关路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		userGroup.GET("/getUserInfo", rt.handlers.User.GetUserInfo)
		userGroup.POST("/updateUserInfo", rt.handlers.User.UpdateUserInfo)
		userGroup.GET("/getUserInfoList", rt.handlers.User.GetUserInfoList) // 发起私聊时选人
	}
}
