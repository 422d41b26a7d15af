package model

import "gorm.io/gorm"

// 工作区类型
const (
	WorkspaceTypePublic  = "public"
	WorkspaceTypePrivate = "private"
)

// 成员角色
const (
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

// Workspace 工作区（群聊频道），对应 workspace 表
type Workspace struct {
	gorm.Model

	Uuid      string `gorm:"column:uuid;uniqueIndex;type:varchar(32);not null;comment:工作区id"`
	Name      string `gorm:"column:name;type:varchar(100);not null;comment:名称"`
	Type      string `gorm:"column:type;index;type:varchar(16);not null;comment:public/private"`
	CreatedBy string `gorm:"column:created_by;index;type:varchar(32);not null;comment:创建者uuid"`
}

func (Workspace) TableName() string {
	return "workspace"
}

func (w *Workspace) IsPrivate() bool {
	return w.Type == WorkspaceTypePrivate
}

// WorkspaceMember 工作区成员，对应 workspace_member 表
// (workspace_uuid, user_uuid) 唯一：一个用户在一个工作区至多一行
type WorkspaceMember struct {
	gorm.Model

	Uuid          string `gorm:"column:uuid;uniqueIndex;type:varchar(40);not null;comment:成员记录id"`
	WorkspaceUuid string `gorm:"column:workspace_uuid;uniqueIndex:uk_workspace_user,priority:1;type:varchar(32);not null;comment:工作区id"`
	UserUuid      string `gorm:"column:user_uuid;uniqueIndex:uk_workspace_user,priority:2;index;type:varchar(32);not null;comment:用户id"`
	Role          string `gorm:"column:role;type:varchar(16);not null;default:member;comment:admin/member"`
}

func (WorkspaceMember) TableName() string {
	return "workspace_member"
}
