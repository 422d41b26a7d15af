// Package router 提供 HTTP 路由注册
// 本文件定义工作区相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWorkspaceRoutes 注册工作区相关路由（需要认证）
func (rt *Router) RegisterWorkspaceRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Workspace
	wsGroup := rg.Group("/workspace")
	{
		// ===== 工作区基本操作 =====
		wsGroup.POST("/createWorkspace", h.CreateWorkspace)
		wsGroup.GET("/getPublicWorkspaceList", h.GetPublicWorkspaceList)
		wsGroup.GET("/loadMyWorkspace", h.LoadMyWorkspace)
		wsGroup.GET("/getWorkspaceInfo", h.GetWorkspaceInfo)
		wsGroup.POST("/updateWorkspaceInfo", h.UpdateWorkspaceInfo) // 创建者
		wsGroup.POST("/deleteWorkspace", h.DeleteWorkspace)         // 创建者，仅私有

		// ===== 成员 =====
		wsGroup.POST("/addMember", h.AddMember)
		wsGroup.POST("/enterWorkspace", h.EnterWorkspace)
		wsGroup.POST("/removeMember", h.RemoveMember)
		wsGroup.GET("/getOnlineMembers", h.GetOnlineMembers)

		// ===== 消息 =====
		wsGroup.GET("/getWorkspaceMessageList", h.GetWorkspaceMessageList)
		wsGroup.GET("/getUnreadCount", h.GetUnreadCount)
	}
}
