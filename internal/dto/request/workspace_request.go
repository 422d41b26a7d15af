package request

// WorkspaceRequest 只携带工作区 ID 的请求
// 使用位置:
//   - internal/handler/workspace_handler.go: GetWorkspaceInfo, DeleteWorkspace, EnterWorkspace,
//     GetUnreadCount, GetOnlineMembers
type WorkspaceRequest struct {
	WorkspaceId string `json:"workspaceId" form:"workspaceId" binding:"required"`
}

// UpdateWorkspaceInfoRequest 修改工作区名称
type UpdateWorkspaceInfoRequest struct {
	WorkspaceId string `json:"workspaceId" binding:"required"`
	Name        string `json:"name" binding:"required,max=100"`
}

// WorkspaceMemberRequest 添加/移除成员
// 使用位置:
//   - internal/handler/workspace_handler.go: AddMember, RemoveMember
type WorkspaceMemberRequest struct {
	WorkspaceId string `json:"workspaceId" binding:"required"`
	UserId      string `json:"userId" binding:"required"`
}

// GetWorkspaceMessageListRequest 工作区历史分页请求
type GetWorkspaceMessageListRequest struct {
	WorkspaceId string `json:"workspaceId" form:"workspaceId" binding:"required"`
	PageRequest
}

// GetPublicWorkspaceListRequest 公开工作区分页请求
type GetPublicWorkspaceListRequest struct {
	PageRequest
}

// LoadMyWorkspaceRequest 我的工作区，type 为空时返回全部
type LoadMyWorkspaceRequest struct {
	Type string `json:"type" form:"type" binding:"omitempty,oneof=public private"`
}
