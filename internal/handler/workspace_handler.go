// Package handler 提供 HTTP 请求处理器
// 本文件处理工作区相关的 API 请求
package handler

import (
	"umazing_chat_server/internal/dto/request"
	"umazing_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkspaceHandler 工作区请求处理器
// 通过构造函数注入 WorkspaceService
type WorkspaceHandler struct {
	workspaceSvc service.WorkspaceService
}

// NewWorkspaceHandler 创建工作区处理器实例
func NewWorkspaceHandler(workspaceSvc service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceSvc: workspaceSvc}
}

// CreateWorkspace 创建工作区
// POST /workspace/createWorkspace
// 请求体: request.CreateWorkspaceRequest
// 响应: respond.WorkspaceRespond
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var req request.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.workspaceSvc.CreateWorkspace(currentUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetPublicWorkspaceList 公开工作区分页列表
// GET /workspace/getPublicWorkspaceList?pageNo=1&pageSize=20
// 响应: respond.WorkspaceListRespond
func (h *WorkspaceHandler) GetPublicWorkspaceList(c *gin.Context) {
	var req request.GetPublicWorkspaceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.workspaceSvc.GetPublicWorkspaceList(currentUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// LoadMyWorkspace 我加入的工作区
// GET /workspace/loadMyWorkspace?type=private
// 响应: []respond.WorkspaceRespond
func (h *WorkspaceHandler) LoadMyWorkspace(c *gin.Context) {
	var req request.LoadMyWorkspaceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.workspaceSvc.LoadMyWorkspace(currentUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetWorkspaceInfo 工作区详情
// GET /workspace/getWorkspaceInfo?workspaceId=xxx
func (h *WorkspaceHandler) GetWorkspaceInfo(c *gin.Context) {
	var req request.WorkspaceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.workspaceSvc.GetWorkspaceInfo(currentUserID(c), req.WorkspaceId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateWorkspaceInfo 修改工作区名称（创建者）
// POST /workspace/updateWorkspaceInfo
func (h *WorkspaceHandler) UpdateWorkspaceInfo(c *gin.Context) {
	var req request.UpdateWorkspaceInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.workspaceSvc.UpdateWorkspaceInfo(currentUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteWorkspace 删除私有工作区（创建者）
// POST /workspace/deleteWorkspace
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	var req request.WorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.workspaceSvc.DeleteWorkspace(currentUserID(c), req.WorkspaceId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// AddMember 添加成员
// POST /workspace/addMember
// 请求体: request.WorkspaceMemberRequest
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	var req request.WorkspaceMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.workspaceSvc.AddMember(currentUserID(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// EnterWorkspace 加入公开工作区
// POST /workspace/enterWorkspace
func (h *WorkspaceHandler) EnterWorkspace(c *gin.Context) {
	var req request.WorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.workspaceSvc.EnterWorkspace(currentUserID(c), req.WorkspaceId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveMember 移除成员或退出工作区
// POST /workspace/removeMember
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	var req request.WorkspaceMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.workspaceSvc.RemoveMember(currentUserID(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetWorkspaceMessageList 工作区历史消息
// GET /workspace/getWorkspaceMessageList?workspaceId=xxx&pageNo=1&pageSize=20
// 响应: respond.MessagePageRespond
func (h *WorkspaceHandler) GetWorkspaceMessageList(c *gin.Context) {
	var req request.GetWorkspaceMessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.workspaceSvc.GetWorkspaceMessageList(currentUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetUnreadCount 工作区未读数
// GET /workspace/getUnreadCount?workspaceId=xxx
func (h *WorkspaceHandler) GetUnreadCount(c *gin.Context) {
	var req request.WorkspaceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.workspaceSvc.GetUnreadCount(currentUserID(c), req.WorkspaceId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetOnlineMembers 工作区在线成员
// GET /workspace/getOnlineMembers?workspaceId=xxx
func (h *WorkspaceHandler) GetOnlineMembers(c *gin.Context) {
	var req request.WorkspaceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.workspaceSvc.GetOnlineMembers(currentUserID(c), req.WorkspaceId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
