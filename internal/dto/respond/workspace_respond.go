package respond

import (
	"time"

	"umazing_chat_server/internal/model"
)

// WorkspaceRespond 工作区详情
// 使用位置:
//   - internal/service/workspace/service.go
type WorkspaceRespond struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	CreatedBy   string    `json:"createdBy"`
	MemberCount int64     `json:"memberCount"`
	IsMember    bool      `json:"isMember"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewWorkspaceRespond 不含成员统计
func NewWorkspaceRespond(w *model.Workspace) WorkspaceRespond {
	return WorkspaceRespond{
		Id:        w.Uuid,
		Name:      w.Name,
		Type:      w.Type,
		CreatedBy: w.CreatedBy,
		CreatedAt: w.CreatedAt,
	}
}

// WorkspaceListRespond 工作区分页列表
type WorkspaceListRespond struct {
	List  []WorkspaceRespond `json:"list"`
	Total int64              `json:"total"`
}

// OnlineMembersRespond 工作区在线成员
type OnlineMembersRespond struct {
	WorkspaceId string      `json:"workspaceId"`
	Users       []UserBrief `json:"users"`
}
