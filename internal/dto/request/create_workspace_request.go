package request

// CreateWorkspaceRequest 创建工作区请求
// 使用位置:
//   - internal/handler/workspace_handler.go: CreateWorkspace
type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Type string `json:"type" binding:"required,oneof=public private"`
}
